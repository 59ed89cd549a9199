package surface

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// DefaultDiffThreshold is the production depth-continuity threshold, in the
// same units as z.
const DefaultDiffThreshold = 4.0

// neighbourOffsets are the 4-connected lattice steps explored from each point.
var neighbourOffsets = [4][2]int64{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

// SegmentStats describes the most recent Segment call.
type SegmentStats struct {
	Points       int
	Components   uint32
	BorderPoints int
	Duplicates   int
}

// Segmenter labels connected, depth-continuous regions of a point lattice.
// Two lattice neighbours belong to the same region when their z values differ
// by at most DiffThreshold. A Segmenter is not safe for concurrent use; run
// one per independent dataset.
type Segmenter struct {
	DiffThreshold float64

	stats SegmentStats
}

// NewSegmenter returns a Segmenter using diff as its continuity threshold.
// The caller is responsible for rejecting negative thresholds.
func NewSegmenter(diff float64) *Segmenter {
	return &Segmenter{DiffThreshold: diff}
}

// Segment labels every point and returns the number of component ids minted.
// Ids are dense, start at 0 and follow seed discovery order; seeds are taken
// in ascending slice order. Points next to an empty lattice cell or across a
// depth step larger than DiffThreshold get the border flag.
//
// Existing labels are discarded. The slice must not be resized while Segment
// runs; traversal state refers to points by slice index only.
func (s *Segmenter) Segment(points []Point) uint32 {
	s.stats = SegmentStats{Points: len(points)}
	if len(points) == 0 {
		return 0
	}

	ResetLabels(points)
	idx := NewIndex(points)
	s.stats.Duplicates = idx.Duplicates()

	unvisited := roaring.New()
	unvisited.AddRange(0, uint64(len(points)))

	queue := make([]int, 0, 64)
	var next uint32

	for !unvisited.IsEmpty() {
		seed := int(unvisited.Minimum())
		c := next
		next++

		points[seed].Label = Label{ID: c, Visited: true}
		unvisited.Remove(uint32(seed))
		queue = append(queue[:0], seed)

		for head := 0; head < len(queue); head++ {
			cur := queue[head]
			k := KeyOf(points[cur])
			z := points[cur].Z

			for _, d := range neighbourOffsets {
				n, ok := idx.Lookup(k.Offset(d[0], d[1]))
				if !ok || math.Abs(points[n].Z-z) > s.DiffThreshold {
					points[cur].Label.Border = true
					continue
				}
				// First discoverer keeps the point.
				if points[n].Label.Visited {
					continue
				}
				points[n].Label = Label{ID: c, Visited: true}
				unvisited.Remove(uint32(n))
				queue = append(queue, n)
			}
		}
	}

	s.stats.Components = next
	for i := range points {
		if points[i].Label.Border {
			s.stats.BorderPoints++
		}
	}
	return next
}

// Stats returns statistics from the most recent Segment call.
func (s *Segmenter) Stats() SegmentStats {
	return s.stats
}

// Segment is shorthand for NewSegmenter(diff).Segment(points).
func Segment(points []Point, diff float64) uint32 {
	return NewSegmenter(diff).Segment(points)
}
