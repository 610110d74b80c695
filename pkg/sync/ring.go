package sync

import (
	"encoding/binary"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/spaolacci/murmur3"
)

// ring consistently maps keys onto a fixed set of stripe indices
type ring struct {
	points *treemap.Map // int64 hash -> int stripe

	// Cached since treemap.Map.Min() is O(log n)
	first int
}

// newRing places each of stripes on the ring replicas times
func newRing(stripes, replicas uint) *ring {
	points := treemap.NewWith(utils.Int64Comparator)

	var seed [8]byte
	var index [4]byte
	for stripe := 0; stripe < int(stripes); stripe++ {
		binary.LittleEndian.PutUint64(seed[:], uint64(stripe))
		base, _ := murmur3.Sum128(seed[:])
		binary.LittleEndian.PutUint64(seed[:], base)

		for i := 0; i < int(replicas); i++ {
			binary.LittleEndian.PutUint32(index[:], uint32(i))

			hasher := murmur3.New128()
			hasher.Write(seed[:])
			hasher.Write(index[:])
			point, _ := hasher.Sum128()
			points.Put(int64(point), stripe)
		}
	}

	r := &ring{points: points}
	if _, first := points.Min(); first != nil {
		r.first = first.(int)
	}
	return r
}

// stripe returns the stripe index owning key
func (r *ring) stripe(key []byte) int {
	raw, _ := murmur3.Sum128(key)
	_, stripe := r.points.Ceiling(int64(raw))
	if stripe != nil {
		return stripe.(int)
	}
	return r.first
}
