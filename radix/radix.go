// Package radix sorts uint32 keys with an LSD radix sort over 8-bit digits.
package radix

const (
	// Rounds is the number of 8-bit digits in a uint32 key.
	Rounds = 4
	// Buckets is the number of distinct digit values per round.
	Buckets = 256
)

// Digit returns byte round of x, least significant byte first.
func Digit(x uint32, round int) uint8 {
	return uint8(x >> (8 * uint(round)))
}

// SortUint32 sorts data in ascending order using a radix 256 LSD sort.
// It is O(n) vs sort.Slice's O(n log n) and avoids interface dispatch overhead.
//
// Uses 4 stable counting-sort passes, one per byte from least to most
// significant. Each pass reads one buffer and writes the other; since the
// pass count is even the result ends up back in data.
func SortUint32(data []uint32) {
	if len(data) < 2 {
		return
	}

	var counters [Buckets]int
	sortRounds(data, make([]uint32, len(data)), &counters)
}

// sortRounds drives the four passes. counters must be zeroed on entry and is
// zeroed again on return.
func sortRounds(data, scratch []uint32, counters *[Buckets]int) {
	src, dst := data, scratch
	for round := 0; round < Rounds; round++ {
		sortRound(src, dst, counters, round)
		src, dst = dst, src
	}

	if debugAssertions {
		assert(&src[0] == &data[0], "radix: result did not land in caller buffer")
	}
}

// sortRound performs one stable counting sort of src into dst keyed on byte
// round. counters must be zeroed on entry and is zeroed again on return.
func sortRound(src, dst []uint32, counters *[Buckets]int, round int) {
	if debugAssertions {
		assert(len(src) == len(dst), "radix: source and destination lengths differ")
		assert(round >= 0 && round < Rounds, "radix: round out of range")
		assert(*counters == [Buckets]int{}, "radix: counters not zeroed at pass entry")
	}

	for _, x := range src {
		counters[Digit(x, round)]++
	}

	// Inclusive prefix sum: counters[d] is the number of keys with digit <= d
	sum := 0
	for d := range counters {
		sum += counters[d]
		counters[d] = sum
	}

	// Walking backwards and decrementing before the store keeps equal digits
	// in source order.
	for i := len(src) - 1; i >= 0; i-- {
		x := src[i]
		d := Digit(x, round)
		counters[d]--
		dst[counters[d]] = x
	}

	*counters = [Buckets]int{}
}
