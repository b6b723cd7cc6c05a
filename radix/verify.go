package radix

// IsSorted reports whether data is in ascending order.
func IsSorted(data []uint32) bool {
	for i := 1; i < len(data); i++ {
		if data[i] < data[i-1] {
			return false
		}
	}
	return true
}

// SameMultiset reports whether a and b hold the same values with the same
// multiplicities. Neither slice is modified.
func SameMultiset(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}

	ca := make([]uint32, len(a))
	cb := make([]uint32, len(b))
	copy(ca, a)
	copy(cb, b)

	s := NewSorter(len(a))
	s.Sort(ca)
	s.Sort(cb)

	for i := range ca {
		if ca[i] != cb[i] {
			return false
		}
	}
	return true
}
