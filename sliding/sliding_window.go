package sliding

import (
	"time"

	"github.com/ChristianF88/radixsort/pools"
	"github.com/alphadose/haxmap"
)

// --- Sliding Window over received keys ---

type TimedKey struct {
	Key  uint32
	Time time.Time
}

// Window keeps the keys received within a time limit, capped at maxEntries.
// Per-key counts live in a haxmap so readers can query them while the window
// is being updated. Insert and Evict must be called from one goroutine.
type Window struct {
	Queue      []TimedKey
	Counts     *haxmap.Map[uint32, uint32]
	timeLimit  time.Duration
	maxEntries int
}

func NewWindow(timeLimit time.Duration, maxEntries int) *Window {
	return &Window{
		Queue:      make([]TimedKey, 0),
		Counts:     haxmap.New[uint32, uint32](1 << 16),
		timeLimit:  timeLimit,
		maxEntries: maxEntries,
	}
}

// haxmap.Get reports a deleted key with its last value and ok=false, so the
// value is only trusted when ok is set.
func increment(m *haxmap.Map[uint32, uint32], key uint32) {
	count, ok := m.Get(key)
	if !ok {
		count = 0
	}
	m.Set(key, count+1)
}

func decrement(m *haxmap.Map[uint32, uint32], key uint32) {
	count, exists := m.Get(key)
	if !exists {
		return
	}
	if count <= 1 {
		m.Del(key)
		return
	}
	m.Set(key, count-1)
}

// Insert appends keys received at time at.
func (w *Window) Insert(keys []uint32, at time.Time) {
	for _, k := range keys {
		w.Queue = append(w.Queue, TimedKey{Key: k, Time: at})
		increment(w.Counts, k)
	}
}

// Evict drops entries older than the time limit relative to now, then the
// oldest entries beyond maxEntries. It returns the number of evicted entries.
func (w *Window) Evict(now time.Time) int {
	// enforce time limit
	idx := 0
	if w.timeLimit > 0 {
		cutoff := now.Add(-w.timeLimit)
		for idx < len(w.Queue) && w.Queue[idx].Time.Before(cutoff) {
			decrement(w.Counts, w.Queue[idx].Key)
			idx++
		}
	}

	// enforce max entries
	remaining := len(w.Queue) - idx
	if w.maxEntries > 0 && remaining > w.maxEntries {
		toDelete := remaining - w.maxEntries
		for i := 0; i < toDelete; i++ {
			decrement(w.Counts, w.Queue[idx+i].Key)
		}
		idx += toDelete
	}

	if idx > 0 {
		// Efficient memory-releasing slice copy
		w.Queue = append([]TimedKey(nil), w.Queue[idx:]...)
	}
	return idx
}

// Update inserts keys and evicts stale entries in one step.
func (w *Window) Update(keys []uint32, now time.Time) int {
	w.Insert(keys, now)
	return w.Evict(now)
}

// Len returns the number of entries in the window, duplicates included.
func (w *Window) Len() int {
	return len(w.Queue)
}

// Distinct returns the number of distinct keys in the window.
func (w *Window) Distinct() int {
	return int(w.Counts.Len())
}

// Count returns how often key occurs in the window.
func (w *Window) Count(key uint32) uint32 {
	count, ok := w.Counts.Get(key)
	if !ok {
		return 0
	}
	return count
}

// SortedDistinct returns the distinct keys in ascending order. The slice comes
// from pools.Pools; callers done with it may hand it back with ReturnKeySlice.
func (w *Window) SortedDistinct() []uint32 {
	keys := pools.Pools.GetKeySlice()
	w.Counts.ForEach(func(k uint32, _ uint32) bool {
		keys = append(keys, k)
		return true
	})
	pools.SortPooled(keys)
	return keys
}

// Sorted returns every key in the window, duplicates included, in ascending
// order. Like SortedDistinct it returns a pooled slice.
func (w *Window) Sorted() []uint32 {
	keys := pools.Pools.GetKeySlice()
	for _, tk := range w.Queue {
		keys = append(keys, tk.Key)
	}
	pools.SortPooled(keys)
	return keys
}
