package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/ChristianF88/radixsort/ingestor"
	"github.com/ChristianF88/radixsort/output"
	"github.com/ChristianF88/radixsort/sliding"
	"github.com/ChristianF88/radixsort/testutil"
)

// runApp runs the CLI with args and returns everything written to stdout and
// stderr.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stdout = w
	os.Stderr = w

	var capturedOutput bytes.Buffer
	done := make(chan bool)
	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := r.Read(buf)
			if err != nil {
				break
			}
			capturedOutput.Write(buf[:n])
		}
		done <- true
	}()

	err := App.Run(append([]string{"radixsort"}, args...))

	w.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr
	<-done

	return capturedOutput.String(), err
}

func TestCommandValidation(t *testing.T) {
	keyFile, cleanup := testutil.GenerateTestKeyFile(t, 100)
	defer cleanup()

	configPath := filepath.Join(t.TempDir(), "radixsort.toml")
	if err := os.WriteFile(configPath, []byte("[sort]\ninput = \""+keyFile+"\"\n"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	tests := []struct {
		name        string
		args        []string
		expectError bool
		errorMatch  string
	}{
		{
			name:        "Valid sort command",
			args:        []string{"sort", "--input", keyFile, "--json"},
			expectError: false,
		},
		{
			name:        "Missing input file",
			args:        []string{"sort", "--input", "/nonexistent/keys.txt"},
			expectError: true,
			errorMatch:  "does not exist",
		},
		{
			name:        "Unknown format",
			args:        []string{"sort", "--input", keyFile, "--format", "csv"},
			expectError: true,
			errorMatch:  "unknown key format",
		},
		{
			name:        "Wrong format for content",
			args:        []string{"sort", "--input", keyFile, "--format", "ipv4"},
			expectError: true,
			errorMatch:  "line 2",
		},
		{
			name:        "Missing plot directory",
			args:        []string{"sort", "--input", keyFile, "--plotPath", "/nonexistent/dir/plot.html"},
			expectError: true,
			errorMatch:  "plot directory does not exist",
		},
		{
			name:        "Config with extra flags",
			args:        []string{"sort", "--config", configPath, "--input", keyFile},
			expectError: true,
			errorMatch:  "when using --config",
		},
		{
			name:        "Config with allowed flag",
			args:        []string{"sort", "--config", configPath, "--json", "--compact"},
			expectError: false,
		},
		{
			name:        "Config without generate section",
			args:        []string{"generate", "--config", configPath},
			expectError: true,
			errorMatch:  "generate configuration section is required",
		},
		{
			name:        "Unknown kind",
			args:        []string{"generate", "--kind", "zipf", "--count", "10"},
			expectError: true,
			errorMatch:  "unknown key kind",
		},
		{
			name:        "Invalid CIDR",
			args:        []string{"generate", "--cidr", "10.0.0.0/33", "--count", "10"},
			expectError: true,
			errorMatch:  "invalid CIDR range",
		},
		{
			name:        "Zero iterations",
			args:        []string{"bench", "--sizes", "10", "--iterations", "0"},
			expectError: true,
			errorMatch:  "iterations must be positive",
		},
		{
			name:        "TUI on stdin",
			args:        []string{"inspect", "--tui"},
			expectError: true,
			errorMatch:  "--tui needs an input file",
		},
		{
			name:        "Listen with binary keys",
			args:        []string{"listen", "--format", "bin"},
			expectError: true,
			errorMatch:  "binary format is not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, tt.args...)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none. Output: %s", out)
				} else if tt.errorMatch != "" && !strings.Contains(err.Error(), tt.errorMatch) && !strings.Contains(out, tt.errorMatch) {
					t.Errorf("Expected error to contain '%s', got: %v. Output: %s", tt.errorMatch, err, out)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v. Output: %s", err, out)
				}
			}
		})
	}
}

func TestCLIFlags(t *testing.T) {
	expected := map[string][]string{
		"sort":     {"config", "input", "output", "format", "verify", "plotPath", "json"},
		"generate": {"config", "kind", "count", "seed", "cidr", "output", "format"},
		"bench":    {"config", "sizes", "iterations", "kind", "seed", "plotPath", "plain"},
		"inspect":  {"config", "input", "format", "tui", "plain"},
		"listen":   {"config", "port", "field", "format", "flushInterval", "windowMaxTime", "windowMaxSize"},
	}

	for name, flags := range expected {
		cmd := App.Command(name)
		if cmd == nil {
			t.Errorf("command %q not found", name)
			continue
		}
		for _, expectedFlag := range flags {
			found := false
			for _, flag := range cmd.Flags {
				if flag.Names()[0] == expectedFlag {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Expected flag '%s' not found in %s command", expectedFlag, name)
			}
		}
	}
}

func TestGenerateThenSort(t *testing.T) {
	dir := t.TempDir()
	keysPath := filepath.Join(dir, "keys.txt")
	sortedPath := filepath.Join(dir, "sorted.txt")

	out, err := runApp(t, "generate", "--kind", "extremes", "--count", "3000", "--seed", "9", "--output", keysPath)
	if err != nil {
		t.Fatalf("generate failed: %v. Output: %s", err, out)
	}
	if !strings.Contains(out, "3,000") {
		t.Errorf("generate should report the key count, got %q", out)
	}

	out, err = runApp(t, "sort", "--input", keysPath, "--output", sortedPath, "--verify")
	if err != nil {
		t.Fatalf("sort failed: %v. Output: %s", err, out)
	}

	original, err := ingestor.ReadKeysFile(keysPath, ingestor.Decimal)
	if err != nil {
		t.Fatalf("reading generated keys: %v", err)
	}
	sorted, err := ingestor.ReadKeysFile(sortedPath, ingestor.Decimal)
	if err != nil {
		t.Fatalf("reading sorted keys: %v", err)
	}

	slices.Sort(original)
	if !slices.Equal(original, sorted) {
		t.Error("sorted output does not match slices.Sort of the input")
	}
}

func TestSortJSONSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.hex")
	if err := os.WriteFile(path, []byte("# fixture\n0x5\n3\n0x8\n\n7\n3\n"), 0644); err != nil {
		t.Fatalf("writing keys: %v", err)
	}

	out, err := runApp(t, "sort", "--input", path, "--format", "hex", "--json", "--compact", "--verify")
	if err != nil {
		t.Fatalf("sort failed: %v. Output: %s", err, out)
	}

	var result output.JSONOutput
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	s := result.Sort
	if s == nil {
		t.Fatal("missing sort section")
	}
	if s.Count != 5 || s.Distinct != 4 || s.Min != 3 || s.Max != 8 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if s.Verified == nil || !*s.Verified {
		t.Error("expected verified output")
	}
	if s.Format != "hex" {
		t.Errorf("Format = %q, want hex", s.Format)
	}
}

func TestSortBinaryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "keys.bin")
	out := filepath.Join(dir, "sorted.bin")
	keys := []uint32{5, 3, 8, 7, 4294967295, 0}
	if err := ingestor.WriteKeysFile(in, keys, ingestor.Binary); err != nil {
		t.Fatalf("writing keys: %v", err)
	}

	if output, err := runApp(t, "sort", "--input", in, "--output", out, "--format", "bin"); err != nil {
		t.Fatalf("sort failed: %v. Output: %s", err, output)
	}

	got, err := ingestor.ReadKeysFile(out, ingestor.Binary)
	if err != nil {
		t.Fatalf("reading sorted keys: %v", err)
	}
	want := []uint32{0, 3, 5, 7, 8, 4294967295}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBenchCommand(t *testing.T) {
	out, err := runApp(t, "bench", "--sizes", "10", "--sizes", "500", "--iterations", "1", "--plain")
	if err != nil {
		t.Fatalf("bench failed: %v. Output: %s", err, out)
	}
	for _, want := range []string{"BENCHMARK", "radix", "slices.Sort", "sort.Slice", "radix_pooled"} {
		if !strings.Contains(out, want) {
			t.Errorf("plain bench output missing %q:\n%s", want, out)
		}
	}

	plotPath := filepath.Join(t.TempDir(), "bench.html")
	out, err = runApp(t, "bench", "--sizes", "100", "--iterations", "2", "--compact", "--plotPath", plotPath)
	if err != nil {
		t.Fatalf("bench failed: %v. Output: %s", err, out)
	}
	var result output.JSONOutput
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(result.Bench) != 4 {
		t.Errorf("expected 4 results, got %d", len(result.Bench))
	}
	if _, err := os.Stat(plotPath); err != nil {
		t.Errorf("bench chart not written: %v", err)
	}
}

func TestInspectCommand(t *testing.T) {
	keyFile, cleanup := testutil.GenerateTestKeyFile(t, 2000)
	defer cleanup()

	out, err := runApp(t, "inspect", "--input", keyFile, "--plain", "--verify")
	if err != nil {
		t.Fatalf("inspect failed: %v. Output: %s", err, out)
	}
	for _, want := range []string{"DIGITS", "SORT", "2,000", "Verified:        true"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestFlushWindow(t *testing.T) {
	window := sliding.NewWindow(time.Minute, 0)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	res := flushWindow(window, ingestor.Batch{Keys: []uint32{3232235778, 3232235777, 3232235778}, Skipped: 2}, now, ingestor.IPv4)
	stats := res.LiveStats
	if stats == nil {
		t.Fatal("missing live stats")
	}
	if stats.WindowSize != 3 || stats.Distinct != 2 || stats.ProcessedBatch != 3 || stats.SkippedEvents != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if !slices.Equal(stats.Keys, []string{"192.168.1.1", "192.168.1.2"}) {
		t.Errorf("Keys = %v", stats.Keys)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Count != 2 {
		t.Errorf("expected a skipped-events warning, got %+v", res.Warnings)
	}

	// Past the time limit the old keys are evicted
	res = flushWindow(window, ingestor.Batch{Keys: []uint32{1}}, now.Add(2*time.Minute), ingestor.IPv4)
	if res.LiveStats.Evicted != 3 || res.LiveStats.WindowSize != 1 {
		t.Errorf("unexpected stats after eviction: %+v", res.LiveStats)
	}
	if !slices.Equal(res.LiveStats.Keys, []string{"0.0.0.1"}) {
		t.Errorf("Keys = %v", res.LiveStats.Keys)
	}
}

func TestCountDistinct(t *testing.T) {
	tests := []struct {
		in   []uint32
		want int
	}{
		{nil, 0},
		{[]uint32{4}, 1},
		{[]uint32{1, 1, 1}, 1},
		{[]uint32{1, 1, 2, 3, 3, 9}, 4},
	}
	for _, tt := range tests {
		if got := countDistinct(tt.in); got != tt.want {
			t.Errorf("countDistinct(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatPlain(t *testing.T) {
	res := output.NewJSONOutput("sort", time.Now())
	res.Sort = &output.SortResult{Input: "keys.txt", Format: "ipv4", Count: 2, Distinct: 2, Min: 1, Max: 3232235777}
	res.AddError("verify", "sorted output failed verification", 1)

	got := formatPlain(res)
	for _, want := range []string{"radixsort sort results", "0.0.0.1 .. 192.168.1.1", "Error:   [verify]"} {
		if !strings.Contains(got, want) {
			t.Errorf("plain output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "BENCHMARK") || strings.Contains(got, "DIGITS") {
		t.Errorf("absent sections should not be printed:\n%s", got)
	}
}
