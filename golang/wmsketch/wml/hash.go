package wml

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-metro"
)

//HashFunc maps a feature index to a 64-bit hash. It must be deterministic for a run.
type HashFunc func(index int) uint64

const metroSeed = 1337

//HashXX hashes the little-endian 8-byte encoding of the index with xxhash64.
func HashXX(index int) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(index))
	return xxhash.Sum64(buf[:])
}

//HashMetro hashes the little-endian 8-byte encoding of the index with metro hash64, seed 1337.
func HashMetro(index int) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(index))
	return metro.Hash64(buf[:], metroSeed)
}

//Hashes lists the selectable slot hashes by configuration name.
var Hashes = map[string]HashFunc{
	"xxhash": HashXX,
	"metro":  HashMetro,
}

//slotOf reduces a hash to a slot of a 2^width table.
func slotOf(hash HashFunc, index int, mask uint64) int {
	return int(hash(index) & mask)
}

//SlotFor returns the slot of index in a 2^width table without allocating one.
func SlotFor(hash HashFunc, width, index int) int {
	return slotOf(hash, index, uint64(1)<<width-1)
}
