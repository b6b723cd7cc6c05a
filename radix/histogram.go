package radix

// Histogram holds per-round digit counts of a key set:
// Counts[round][digit] is the number of keys whose byte round equals digit.
type Histogram struct {
	Counts [Rounds][Buckets]uint64
	n      uint64
}

// ComputeHistogram counts the digits of all four rounds in a single scan.
func ComputeHistogram(data []uint32) *Histogram {
	h := &Histogram{n: uint64(len(data))}
	for _, x := range data {
		for round := 0; round < Rounds; round++ {
			h.Counts[round][Digit(x, round)]++
		}
	}
	return h
}

// Total returns the number of keys the histogram was computed from.
func (h *Histogram) Total() uint64 {
	return h.n
}

// Skippable reports whether every key shares one digit in round, which makes
// that pass a plain copy.
func (h *Histogram) Skippable(round int) bool {
	if h.n == 0 {
		return true
	}
	for _, c := range h.Counts[round] {
		if c == h.n {
			return true
		}
		if c != 0 {
			return false
		}
	}
	return false
}

// Used returns the number of distinct digit values seen in round.
func (h *Histogram) Used(round int) int {
	used := 0
	for _, c := range h.Counts[round] {
		if c > 0 {
			used++
		}
	}
	return used
}

// Max returns the largest single bucket of round and its digit.
func (h *Histogram) Max(round int) (digit uint8, count uint64) {
	for d, c := range h.Counts[round] {
		if c > count {
			digit, count = uint8(d), c
		}
	}
	return digit, count
}
