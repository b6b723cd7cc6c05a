// Package bench times the radix sorter against the standard library sorts on
// generated key sets.
package bench

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/ChristianF88/radixsort/keygen"
	"github.com/ChristianF88/radixsort/output"
	"github.com/ChristianF88/radixsort/pools"
	"github.com/ChristianF88/radixsort/radix"
)

// Algorithm is one sort implementation under test.
type Algorithm struct {
	Name string
	Sort func([]uint32)
}

// Algorithms returns the implementations compared by Run, radix first.
func Algorithms() []Algorithm {
	return []Algorithm{
		{Name: "radix", Sort: radix.SortUint32},
		{Name: "radix_pooled", Sort: pools.SortPooled},
		{Name: "slices.Sort", Sort: slices.Sort[[]uint32]},
		{Name: "sort.Slice", Sort: func(data []uint32) {
			sort.Slice(data, func(i, j int) bool { return data[i] < data[j] })
		}},
	}
}

// Run times every algorithm on each size. Each iteration sorts a fresh copy of
// the same generated input; the output of the last iteration is checked
// against the reference produced by slices.Sort.
func Run(sizes []int, iterations int, kind keygen.Kind, seed uint32) ([]output.BenchResult, error) {
	return RunAlgorithms(Algorithms(), sizes, iterations, kind, seed)
}

func RunAlgorithms(algorithms []Algorithm, sizes []int, iterations int, kind keygen.Kind, seed uint32) ([]output.BenchResult, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("iterations must be positive, got %d", iterations)
	}

	results := make([]output.BenchResult, 0, len(sizes)*len(algorithms))
	for _, size := range sizes {
		original, err := keygen.Generate(kind, size, seed)
		if err != nil {
			return nil, fmt.Errorf("generating %d keys: %w", size, err)
		}
		reference := slices.Clone(original)
		slices.Sort(reference)

		work := make([]uint32, size)
		for _, algo := range algorithms {
			var best, total time.Duration
			for i := 0; i < iterations; i++ {
				copy(work, original)
				start := time.Now()
				algo.Sort(work)
				elapsed := time.Since(start)

				total += elapsed
				if i == 0 || elapsed < best {
					best = elapsed
				}
			}

			res := output.BenchResult{
				Algorithm:  algo.Name,
				Size:       size,
				Iterations: iterations,
				BestNS:     best.Nanoseconds(),
				MeanNS:     total.Nanoseconds() / int64(iterations),
				Verified:   slices.Equal(work, reference),
			}
			if size > 0 {
				res.NSPerKey = float64(res.BestNS) / float64(size)
			}
			results = append(results, res)
		}
	}
	return results, nil
}

// Failed returns the results whose output did not match the reference.
func Failed(results []output.BenchResult) []output.BenchResult {
	var failed []output.BenchResult
	for _, r := range results {
		if !r.Verified {
			failed = append(failed, r)
		}
	}
	return failed
}

// Speedup returns how many times faster the radix sort was than other at
// size, comparing best times. It returns 0 if either result is missing.
func Speedup(results []output.BenchResult, size int, other string) float64 {
	var radixNS, otherNS int64
	for _, r := range results {
		if r.Size != size {
			continue
		}
		switch r.Algorithm {
		case "radix":
			radixNS = r.BestNS
		case other:
			otherNS = r.BestNS
		}
	}
	if radixNS == 0 || otherNS == 0 {
		return 0
	}
	return float64(otherNS) / float64(radixNS)
}
