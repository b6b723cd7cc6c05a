package radix

// Sorter sorts uint32 slices reusing its scratch buffer and counters between
// calls, so sorting batches of similar size allocates nothing after warmup.
// A Sorter is not safe for concurrent use.
type Sorter struct {
	scratch  []uint32
	counters [Buckets]int
}

// NewSorter returns a Sorter with scratch space preallocated for capacity keys.
func NewSorter(capacity int) *Sorter {
	if capacity < 0 {
		capacity = 0
	}
	return &Sorter{scratch: make([]uint32, 0, capacity)}
}

// Sort sorts data in ascending order. It has the same guarantees as SortUint32.
func (s *Sorter) Sort(data []uint32) {
	n := len(data)
	if n < 2 {
		return
	}

	// Grow scratch on demand, never shrink
	if cap(s.scratch) < n {
		s.scratch = make([]uint32, n)
	}
	s.scratch = s.scratch[:n]

	sortRounds(data, s.scratch, &s.counters)
}

// Cap returns how many keys the Sorter can sort without allocating.
func (s *Sorter) Cap() int {
	return cap(s.scratch)
}
