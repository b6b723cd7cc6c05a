package sliding

import (
	"testing"
	"time"

	"github.com/ChristianF88/radixsort/pools"
	"github.com/alphadose/haxmap"
)

func TestWindowInsert(t *testing.T) {
	tests := []struct {
		name         string
		keys         []uint32
		wantLen      int
		wantDistinct int
	}{
		{"Insert single key", []uint32{1}, 1, 1},
		{"Insert multiple unique keys", []uint32{1, 2}, 2, 2},
		{"Insert duplicate keys", []uint32{7, 7}, 2, 1},
		{"Insert no keys", []uint32{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(10*time.Second, 5)
			w.Insert(tt.keys, time.Now())

			if w.Len() != tt.wantLen {
				t.Errorf("expected length %d, got %d", tt.wantLen, w.Len())
			}
			if w.Distinct() != tt.wantDistinct {
				t.Errorf("expected %d distinct keys, got %d", tt.wantDistinct, w.Distinct())
			}
		})
	}
}

func TestWindowEvict_TimeLimit(t *testing.T) {
	w := NewWindow(time.Minute, 100)
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	w.Insert([]uint32{1, 2}, base)
	w.Insert([]uint32{2, 3}, base.Add(50*time.Second))

	evicted := w.Evict(base.Add(90 * time.Second))
	if evicted != 2 {
		t.Fatalf("expected 2 evicted entries, got %d", evicted)
	}
	if w.Count(1) != 0 {
		t.Errorf("key 1 should be gone, count %d", w.Count(1))
	}
	if w.Count(2) != 1 {
		t.Errorf("key 2 should have count 1, got %d", w.Count(2))
	}
	if w.Count(3) != 1 {
		t.Errorf("key 3 should have count 1, got %d", w.Count(3))
	}
}

func TestWindowEvict_MaxEntries(t *testing.T) {
	w := NewWindow(time.Hour, 3)
	now := time.Now()

	evicted := w.Update([]uint32{10, 20, 30, 40, 50}, now)
	if evicted != 2 {
		t.Fatalf("expected 2 evicted entries, got %d", evicted)
	}
	if w.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", w.Len())
	}
	if w.Queue[0].Key != 30 {
		t.Errorf("oldest entries should be evicted first, head is %d", w.Queue[0].Key)
	}
}

func TestWindowCount_AfterEviction(t *testing.T) {
	w := NewWindow(0, 2)
	now := time.Now()

	w.Update([]uint32{1, 2}, now)
	evicted := w.Update([]uint32{2, 3}, now)
	if evicted != 2 {
		t.Fatalf("expected 2 evicted entries, got %d", evicted)
	}
	if w.Count(1) != 0 {
		t.Errorf("evicted key 1 should have count 0, got %d", w.Count(1))
	}
	if w.Distinct() != 2 {
		t.Errorf("expected 2 distinct keys, got %d", w.Distinct())
	}

	// A key that comes back after eviction starts counting from zero
	w.Update([]uint32{1}, now)
	if w.Count(1) != 1 {
		t.Errorf("re-inserted key 1 should have count 1, got %d", w.Count(1))
	}
	if w.Count(2) != 0 {
		t.Errorf("key 2 should be evicted, got count %d", w.Count(2))
	}
}

func TestWindowSortedDistinct(t *testing.T) {
	w := NewWindow(0, 0)
	w.Insert([]uint32{500, 3, 0xFFFFFFFF, 3, 0, 500}, time.Now())

	got := w.SortedDistinct()
	want := []uint32{0, 3, 500, 0xFFFFFFFF}
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %d, got %d", i, want[i], got[i])
		}
	}

	all := w.Sorted()
	wantAll := []uint32{0, 3, 3, 500, 500, 0xFFFFFFFF}
	for i := range wantAll {
		if all[i] != wantAll[i] {
			t.Errorf("sorted index %d: expected %d, got %d", i, wantAll[i], all[i])
		}
	}
}

func TestWindowSorted_ReturnedSliceReused(t *testing.T) {
	pools.Pools.Reset()
	w := NewWindow(0, 0)
	w.Insert([]uint32{9, 1, 5, 1}, time.Now())

	for i := 0; i < 3; i++ {
		got := w.SortedDistinct()
		if len(got) != 3 || got[0] != 1 || got[1] != 5 || got[2] != 9 {
			t.Fatalf("iteration %d: unexpected distinct keys %v", i, got)
		}
		pools.Pools.ReturnKeySlice(got)

		all := w.Sorted()
		if len(all) != 4 || all[0] != 1 || all[1] != 1 || all[3] != 9 {
			t.Fatalf("iteration %d: unexpected keys %v", i, all)
		}
		pools.Pools.ReturnKeySlice(all)
	}
}

func TestWindowNoLimits(t *testing.T) {
	w := NewWindow(0, 0)
	w.Insert([]uint32{1, 2, 3}, time.Unix(0, 0))
	if evicted := w.Evict(time.Now()); evicted != 0 {
		t.Errorf("window without limits should not evict, got %d", evicted)
	}
}

func TestDecrement_MissingKey(t *testing.T) {
	m := haxmap.New[uint32, uint32](8)
	decrement(m, 42)
	if _, ok := m.Get(42); ok {
		t.Error("decrement must not create missing keys")
	}

	increment(m, 42)
	increment(m, 42)
	decrement(m, 42)
	if c, _ := m.Get(42); c != 1 {
		t.Errorf("expected count 1, got %d", c)
	}
	decrement(m, 42)
	if _, ok := m.Get(42); ok {
		t.Error("key should be deleted when its count drops to zero")
	}
}

func BenchmarkWindowUpdate(b *testing.B) {
	keys := make([]uint32, 100000)
	x := uint32(0)
	for i := range keys {
		x = x*22695477 + 1
		keys[i] = x % (1 << 16)
	}
	batchSize := 1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := NewWindow(10*time.Second, 50000)
		now := time.Now()
		for u := 0; u < len(keys); u += batchSize {
			w.Update(keys[u:u+batchSize], now)
		}
	}
}
