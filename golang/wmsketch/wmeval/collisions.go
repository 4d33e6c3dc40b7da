package wmeval

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/tarstars/sketched_classification/golang/wmsketch/wml"
)

//CollisionReport describes how a dataset's features alias in a 2^width table.
type CollisionReport struct {
	Log2Width        int    `json:"log2_width"`
	Slots            uint64 `json:"slots"`
	DistinctFeatures uint64 `json:"distinct_features"`
	OccupiedSlots    uint64 `json:"occupied_slots"`
	//AliasedFeatures is the number of features that share a slot with an earlier one.
	AliasedFeatures uint64 `json:"aliased_features"`
}

//Collisions hashes every distinct feature of dataset into 2^width slots.
//Feature indices are assumed to fit in 32 bits.
func Collisions(dataset *wml.Dataset, width int, hash wml.HashFunc) CollisionReport {
	features := roaring.New()
	for _, example := range dataset.Examples {
		for _, f := range example.Features {
			features.Add(uint32(f.Index))
		}
	}

	slots := roaring.New()
	it := features.Iterator()
	for it.HasNext() {
		slots.Add(uint32(wml.SlotFor(hash, width, int(it.Next()))))
	}

	distinct := features.GetCardinality()
	occupied := slots.GetCardinality()
	return CollisionReport{
		Log2Width:        width,
		Slots:            uint64(1) << width,
		DistinctFeatures: distinct,
		OccupiedSlots:    occupied,
		AliasedFeatures:  distinct - occupied,
	}
}

//Aliases groups the given feature indices by slot and keeps only slots shared by at
//least two of them.
func Aliases(indices []int, width int, hash wml.HashFunc) map[int][]int {
	bySlot := make(map[int]*roaring.Bitmap)
	for _, index := range indices {
		slot := wml.SlotFor(hash, width, index)
		bm, ok := bySlot[slot]
		if !ok {
			bm = roaring.New()
			bySlot[slot] = bm
		}
		bm.Add(uint32(index))
	}
	aliases := make(map[int][]int)
	for slot, bm := range bySlot {
		if bm.GetCardinality() < 2 {
			continue
		}
		members := make([]int, 0, bm.GetCardinality())
		for _, v := range bm.ToArray() {
			members = append(members, int(v))
		}
		aliases[slot] = members
	}
	return aliases
}
