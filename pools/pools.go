package pools

import (
	"sync"

	"github.com/ChristianF88/radixsort/radix"
)

// Slices larger than this are dropped instead of pooled to prevent memory bloat
const maxPooledKeys = 1 << 22

// GlobalPools provides centralized memory pooling for sorting hot paths
type GlobalPools struct {
	Sorters   sync.Pool
	KeySlices sync.Pool
}

// Pools is the global instance of memory pools
var Pools = &GlobalPools{
	Sorters: sync.Pool{
		New: func() interface{} {
			return radix.NewSorter(4096)
		},
	},
	KeySlices: sync.Pool{
		New: func() interface{} {
			slice := make([]uint32, 0, 4096)
			return &slice
		},
	},
}

// GetSorter gets a Sorter from the pool. Sorters are not safe for concurrent
// use; return it with ReturnSorter once done.
func (gp *GlobalPools) GetSorter() *radix.Sorter {
	return gp.Sorters.Get().(*radix.Sorter)
}

// ReturnSorter returns a Sorter to the pool
func (gp *GlobalPools) ReturnSorter(s *radix.Sorter) {
	if s.Cap() <= maxPooledKeys {
		gp.Sorters.Put(s)
	}
}

// GetKeySlice gets a key slice from the pool and resets it
func (gp *GlobalPools) GetKeySlice() []uint32 {
	slicePtr := gp.KeySlices.Get().(*[]uint32)
	*slicePtr = (*slicePtr)[:0] // Reset length while keeping capacity
	return *slicePtr
}

// ReturnKeySlice returns a key slice to the pool
func (gp *GlobalPools) ReturnKeySlice(slice []uint32) {
	if cap(slice) <= maxPooledKeys {
		emptySlice := slice[:0]
		gp.KeySlices.Put(&emptySlice)
	}
}

// Reset clears all pools (useful for testing)
func (gp *GlobalPools) Reset() {
	gp.Sorters = sync.Pool{New: gp.Sorters.New}
	gp.KeySlices = sync.Pool{New: gp.KeySlices.New}
}

// SortPooled sorts data with a pooled Sorter.
func SortPooled(data []uint32) {
	s := Pools.GetSorter()
	s.Sort(data)
	Pools.ReturnSorter(s)
}
