package tui

import (
	"fmt"
	"strings"

	"github.com/ChristianF88/radixsort/ingestor"
	"github.com/ChristianF88/radixsort/output"
	"github.com/ChristianF88/radixsort/radix"
)

// Number of sorted keys shown in the preview panel
const previewLimit = 500

func buildSummaryText(res *output.JSONOutput) string {
	if res == nil || res.Sort == nil {
		return "[red]No results[white]"
	}
	s := res.Sort

	verified := "[dim]not checked[white]"
	if s.Verified != nil {
		if *s.Verified {
			verified = "[green]ok[white]"
		} else {
			verified = "[red]FAILED[white]"
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[white::b]radixsort inspect[white::-]  %s\n", s.Input)
	fmt.Fprintf(&b, "[dim]Keys:[white] %s   [dim]Distinct:[white] %s   [dim]Format:[white] %s\n",
		output.FormatNumber(s.Count), output.FormatNumber(s.Distinct), s.Format)
	if s.Count > 0 {
		f, _ := ingestor.ParseFormat(s.Format)
		fmt.Fprintf(&b, "[dim]Min:[white] %s   [dim]Max:[white] %s\n",
			ingestor.FormatKey(s.Min, f), ingestor.FormatKey(s.Max, f))
	}
	fmt.Fprintf(&b, "[dim]Read:[white] %d ms   [dim]Sort:[white] %d µs   [dim]Verified:[white] %s\n",
		s.ReadMS, s.DurationUS, verified)
	return b.String()
}

func buildRoundsText(h *radix.Histogram) string {
	if h == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[::b]%-6s %-8s %-7s %-14s %s[::-]\n", "Round", "Bits", "Used", "Largest", "Pass")
	for round := 0; round < radix.Rounds; round++ {
		digit, count := h.Max(round)
		pass := "[green]scatter[white]"
		if h.Skippable(round) {
			pass = "[yellow]copy only[white]"
		}
		fmt.Fprintf(&b, "%-6d %-8s %-7d 0x%02x × %-7s %s\n",
			round, fmt.Sprintf("%d-%d", 8*round, 8*round+7), h.Used(round), digit, output.FormatNumber(int(count)), pass)
	}
	return b.String()
}

func buildPreviewText(sorted []uint32, format ingestor.Format, limit int) string {
	if len(sorted) == 0 {
		return "[dim]No keys[white]"
	}

	shown := sorted
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	var b strings.Builder
	for i, k := range shown {
		fmt.Fprintf(&b, "[dim]%7d[white] %s\n", i, ingestor.FormatKey(k, format))
	}
	if len(shown) < len(sorted) {
		fmt.Fprintf(&b, "[dim]... %s more[white]\n", output.FormatNumber(len(sorted)-len(shown)))
	}
	return b.String()
}

func buildDiagnosticsText(res *output.JSONOutput) string {
	if res == nil || (len(res.Warnings) == 0 && len(res.Errors) == 0) {
		return "[green]No warnings or errors[white]"
	}

	var b strings.Builder
	for _, e := range res.Errors {
		fmt.Fprintf(&b, "[red]%s:[white] %s", e.Type, e.Message)
		if e.Count > 0 {
			fmt.Fprintf(&b, " (%d)", e.Count)
		}
		b.WriteString("\n")
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(&b, "[yellow]%s:[white] %s", w.Type, w.Message)
		if w.Count > 0 {
			fmt.Fprintf(&b, " (%d)", w.Count)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderDigitGrid draws the 256 buckets of round as a 16x16 grid, high nibble
// by row and low nibble by column, shaded relative to the largest bucket.
func renderDigitGrid(h *radix.Histogram, round int) string {
	if h == nil {
		return ""
	}
	_, maxCount := h.Max(round)

	var b strings.Builder
	b.WriteString("    ")
	for col := 0; col < 16; col++ {
		fmt.Fprintf(&b, " %X ", col)
	}
	b.WriteString("\n")

	for row := 0; row < 16; row++ {
		fmt.Fprintf(&b, " %X_ ", row)
		for col := 0; col < 16; col++ {
			count := h.Counts[round][row*16+col]
			intensity := 0.0
			if maxCount > 0 {
				intensity = float64(count) / float64(maxCount)
			}
			color, char := intensityColorAndChar(intensity)
			fmt.Fprintf(&b, "[%s]%s%s[white] ", color, char, char)
		}
		b.WriteString("\n")
	}

	digit, count := h.Max(round)
	fmt.Fprintf(&b, "\n[dim]Used buckets:[white] %d/%d   [dim]Largest:[white] 0x%02x (%s keys)\n",
		h.Used(round), radix.Buckets, digit, output.FormatNumber(int(count)))
	return b.String()
}

// intensityColorAndChar returns color and character for bucket intensity
// 10-level progression with 10% resolution: 0%, 10%, 20%, ..., 90%, 100%
func intensityColorAndChar(intensity float64) (string, string) {
	switch {
	case intensity >= 0.9:
		return "white", "█"
	case intensity >= 0.8:
		return "#E0E0E0", "█"
	case intensity >= 0.7:
		return "#C0C0C0", "█"
	case intensity >= 0.6:
		return "#A0A0A0", "█"
	case intensity >= 0.5:
		return "#808080", "█"
	case intensity >= 0.4:
		return "#606060", "█"
	case intensity >= 0.3:
		return "#505050", "█"
	case intensity >= 0.2:
		return "#404040", "█"
	case intensity >= 0.1:
		return "#303030", "█"
	case intensity > 0:
		return "#202020", "█"
	default:
		return "black", "·"
	}
}
