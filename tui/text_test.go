package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/ChristianF88/radixsort/ingestor"
	"github.com/ChristianF88/radixsort/output"
	"github.com/ChristianF88/radixsort/radix"
)

func TestBuildSummaryText(t *testing.T) {
	if got := buildSummaryText(nil); !strings.Contains(got, "No results") {
		t.Errorf("nil result: got %q", got)
	}

	verified := false
	res := output.NewJSONOutput("inspect", time.Now())
	res.Sort = &output.SortResult{
		Input:    "keys.txt",
		Format:   "hex",
		Count:    1234567,
		Distinct: 1000,
		Min:      0x10,
		Max:      0xFF,
		Verified: &verified,
	}
	got := buildSummaryText(res)

	for _, want := range []string{"keys.txt", "1,234,567", "0x00000010", "0x000000ff", "FAILED"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestBuildRoundsText(t *testing.T) {
	h := radix.ComputeHistogram([]uint32{1, 2, 3})
	got := buildRoundsText(h)

	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 1+radix.Rounds {
		t.Fatalf("expected header plus %d rows, got %d:\n%s", radix.Rounds, len(lines), got)
	}
	if strings.Contains(lines[1], "copy only") {
		t.Errorf("round 0 has distinct digits and should scatter: %s", lines[1])
	}
	for _, line := range lines[2:] {
		if !strings.Contains(line, "copy only") {
			t.Errorf("upper rounds share digit 0 and should be copy only: %s", line)
		}
	}
}

func TestBuildPreviewText(t *testing.T) {
	if got := buildPreviewText(nil, ingestor.Decimal, 10); !strings.Contains(got, "No keys") {
		t.Errorf("empty preview: got %q", got)
	}

	keys := []uint32{3232235777, 3232235778, 3232235779}
	got := buildPreviewText(keys, ingestor.IPv4, 2)
	if !strings.Contains(got, "192.168.1.1") || !strings.Contains(got, "192.168.1.2") {
		t.Errorf("preview should render IPv4 keys:\n%s", got)
	}
	if strings.Contains(got, "192.168.1.3") {
		t.Errorf("preview should stop at the limit:\n%s", got)
	}
	if !strings.Contains(got, "1 more") {
		t.Errorf("preview should mention the hidden keys:\n%s", got)
	}
}

func TestBuildDiagnosticsText(t *testing.T) {
	res := output.NewJSONOutput("inspect", time.Now())
	if got := buildDiagnosticsText(res); !strings.Contains(got, "No warnings") {
		t.Errorf("empty diagnostics: got %q", got)
	}

	res.AddWarning("config", "unknown config key \"sort.speed\"", 0)
	res.AddError("verify", "output is not sorted", 3)
	got := buildDiagnosticsText(res)
	if !strings.Contains(got, "sort.speed") || !strings.Contains(got, "(3)") {
		t.Errorf("diagnostics missing entries:\n%s", got)
	}
	if strings.Index(got, "verify") > strings.Index(got, "config") {
		t.Error("errors should be listed before warnings")
	}
}

func TestRenderDigitGrid(t *testing.T) {
	h := radix.ComputeHistogram([]uint32{0x00, 0xFF, 0xFF})
	got := renderDigitGrid(h, 0)

	lines := strings.Split(got, "\n")
	// header, 16 rows, blank, footer
	if len(lines) < 18 {
		t.Fatalf("expected at least 18 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[16], "[white]██") {
		t.Errorf("bucket 0xFF should be at full intensity: %s", lines[16])
	}
	if !strings.Contains(got, "2/256") {
		t.Errorf("footer should report 2 used buckets:\n%s", got)
	}
}

func TestIntensityColorAndChar(t *testing.T) {
	tests := []struct {
		intensity float64
		color     string
	}{
		{1.0, "white"},
		{0.85, "#E0E0E0"},
		{0.5, "#808080"},
		{0.05, "#202020"},
		{0, "black"},
	}
	for _, tt := range tests {
		color, _ := intensityColorAndChar(tt.intensity)
		if color != tt.color {
			t.Errorf("intensityColorAndChar(%v) = %q, want %q", tt.intensity, color, tt.color)
		}
	}
}
