package wml

import (
	"math"
	"sort"

	"github.com/samber/lo"
)

//Heap keeps at most capacity (key, weight) pairs approximating the largest-magnitude
//weights it has been offered. Owners rewrite tracked weights in place (decay, resync), so
//no ordering is stored: it is derived from the map on demand.
type Heap struct {
	capacity int
	entries  map[int]float32
}

//NewHeap creates an empty tracker. A zero capacity tracker rejects everything.
func NewHeap(capacity int) *Heap {
	if capacity < 0 {
		capacity = 0
	}
	return &Heap{
		capacity: capacity,
		entries:  make(map[int]float32, capacity),
	}
}

//Capacity returns the maximum number of tracked entries.
func (h *Heap) Capacity() int {
	return h.capacity
}

//Len returns the number of tracked entries.
func (h *Heap) Len() int {
	return len(h.entries)
}

//Contains reports whether key is tracked.
func (h *Heap) Contains(key int) bool {
	_, ok := h.entries[key]
	return ok
}

//Get returns the weight of a tracked key. Callers must check Contains first.
func (h *Heap) Get(key int) float32 {
	weight, ok := h.entries[key]
	if !ok {
		panic("wml: Heap.Get on untracked key")
	}
	return weight
}

//ChangeVal overwrites the weight of a tracked key and does nothing for an untracked one.
func (h *Heap) ChangeVal(key int, weight float32) {
	if _, ok := h.entries[key]; ok {
		h.entries[key] = weight
	}
}

//InsertOrChange overwrites a tracked key, adds a new key while under capacity, and
//otherwise replaces the current minimum only when |weight| is strictly larger.
//Rejected candidates are dropped silently.
func (h *Heap) InsertOrChange(key int, weight float32) {
	if _, ok := h.entries[key]; ok {
		h.entries[key] = weight
		return
	}
	if len(h.entries) < h.capacity {
		h.entries[key] = weight
		return
	}
	minKey, minAbs, ok := h.minEntry()
	if !ok {
		return
	}
	if abs32(weight) > minAbs {
		delete(h.entries, minKey)
		h.entries[key] = weight
	}
}

//MinAbs returns the smallest tracked magnitude, false when nothing is tracked.
func (h *Heap) MinAbs() (float32, bool) {
	_, minAbs, ok := h.minEntry()
	return minAbs, ok
}

//minEntry scans every entry; ties go to the smallest key.
func (h *Heap) minEntry() (int, float32, bool) {
	if len(h.entries) == 0 {
		return 0, 0, false
	}
	minKey := 0
	minAbs := float32(math.MaxFloat32)
	found := false
	for key, weight := range h.entries {
		a := abs32(weight)
		if !found || a < minAbs || (a == minAbs && key < minKey) {
			minKey, minAbs, found = key, a, true
		}
	}
	return minKey, minAbs, true
}

//Items re-derives the ordering from the map and returns every tracked pair, ascending
//by magnitude.
func (h *Heap) Items() []Pair {
	items := lo.MapToSlice(h.entries, func(key int, weight float32) Pair {
		return Pair{Key: key, Weight: weight}
	})
	sort.Slice(items, func(i, j int) bool {
		ai, aj := abs32(items[i].Weight), abs32(items[j].Weight)
		if ai != aj {
			return ai < aj
		}
		return items[i].Key < items[j].Key
	})
	return items
}

//Keys returns the tracked keys in ascending order.
func (h *Heap) Keys() []int {
	keys := lo.Keys(h.entries)
	sort.Ints(keys)
	return keys
}
