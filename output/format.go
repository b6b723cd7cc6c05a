package output

import (
	"strconv"

	"github.com/ChristianF88/radixsort/radix"
)

// FormatNumber renders n with comma thousands separators.
func FormatNumber(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	out := make([]byte, 0, len(s)+len(s)/3+1)
	if neg {
		out = append(out, '-')
	}
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	out = append(out, s[:lead]...)
	for i := lead; i < len(s); i += 3 {
		out = append(out, ',')
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// NewHistogramResult summarizes h for JSON output.
func NewHistogramResult(h *radix.Histogram) *HistogramResult {
	res := &HistogramResult{
		Total:  h.Total(),
		Rounds: make([]RoundStats, 0, radix.Rounds),
	}
	for round := 0; round < radix.Rounds; round++ {
		digit, count := h.Max(round)
		res.Rounds = append(res.Rounds, RoundStats{
			Round:     round,
			Used:      h.Used(round),
			MaxDigit:  digit,
			MaxCount:  count,
			Skippable: h.Skippable(round),
		})
	}
	return res
}
