package surface

import "sort"

// Reduction defaults.
const (
	// DefaultErrorZFloor marks "no data" samples; loggers write -9999.99.
	DefaultErrorZFloor = -9000.0
	// DefaultMinorLabelThreshold is the smallest component size kept by
	// RemoveMinorLabels.
	DefaultMinorLabelThreshold = 5
	// DefaultThinoutWidth is the lattice pitch kept for interior points.
	DefaultThinoutWidth = 4
)

// Histogram holds the point count of each component id.
type Histogram []int

// CountLabels counts labelled points per component id. Ids at or beyond
// count and unvisited points are ignored.
func CountLabels(count uint32, points []Point) Histogram {
	hist := make(Histogram, count)
	for _, p := range points {
		if !p.Label.Visited || p.Label.ID >= count {
			continue
		}
		hist[p.Label.ID]++
	}
	return hist
}

// Size returns the count recorded for id, or 0 if id is out of range.
func (h Histogram) Size(id uint32) int {
	if int64(id) >= int64(len(h)) {
		return 0
	}
	return h[id]
}

// Total returns the number of points counted.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// Dominant returns the id with the largest count. Ties go to the lowest id.
// It reports false when no component has any points.
func (h Histogram) Dominant() (uint32, bool) {
	if len(h) == 0 {
		return 0, false
	}
	best := 0
	for id := 1; id < len(h); id++ {
		if h[id] > h[best] {
			best = id
		}
	}
	if h[best] == 0 {
		return 0, false
	}
	return uint32(best), true
}

// RemoveErrorPoints drops samples whose z is below floor. The slice is
// compacted in place and the shortened slice returned.
func RemoveErrorPoints(points []Point, floor float64) []Point {
	writeIdx := 0
	for readIdx := range points {
		if points[readIdx].Z < floor {
			continue
		}
		points[writeIdx] = points[readIdx]
		writeIdx++
	}
	return points[:writeIdx]
}

// RemoveTrivialSurface drops every point of the largest component, which is
// assumed to be background such as the ground plane. It returns the removed
// id and whether anything was selected.
func RemoveTrivialSurface(hist Histogram, points []Point) ([]Point, uint32, bool) {
	dominant, ok := hist.Dominant()
	if !ok {
		return points, 0, false
	}
	writeIdx := 0
	for readIdx := range points {
		l := points[readIdx].Label
		if l.Visited && l.ID == dominant {
			continue
		}
		points[writeIdx] = points[readIdx]
		writeIdx++
	}
	return points[:writeIdx], dominant, true
}

// RemoveMinorLabels drops points whose component count in hist is below
// threshold. hist is used as given; callers in the standard pipeline pass
// the histogram taken before RemoveTrivialSurface so components are judged by
// their original size. Unvisited points carry no component and are kept.
func RemoveMinorLabels(hist Histogram, points []Point, threshold int) []Point {
	writeIdx := 0
	for readIdx := range points {
		l := points[readIdx].Label
		if l.Visited && hist.Size(l.ID) < threshold {
			continue
		}
		points[writeIdx] = points[readIdx]
		writeIdx++
	}
	return points[:writeIdx]
}

// Thinout decimates interior points to a lattice of pitch width. Border
// points always survive; other points survive when both lattice coordinates
// are multiples of width. Survivors are left sorted in (x, y) lattice order.
// A width of 1 or less keeps every point.
func Thinout(points []Point, width int) []Point {
	if len(points) == 0 {
		return points
	}
	sort.SliceStable(points, func(i, j int) bool {
		a, b := KeyOf(points[i]), KeyOf(points[j])
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	if width <= 1 {
		return points
	}

	w := int64(width)
	writeIdx := 0
	for readIdx := range points {
		p := points[readIdx]
		k := KeyOf(p)
		if !p.Label.Border && (k.X%w != 0 || k.Y%w != 0) {
			continue
		}
		points[writeIdx] = p
		writeIdx++
	}
	return points[:writeIdx]
}
