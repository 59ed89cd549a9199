package surface

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ComponentSummary describes the size distribution of a histogram.
type ComponentSummary struct {
	Components int
	Points     int
	Mean       float64
	StdDev     float64
	Median     float64
	P95        float64
	Max        int
	Singletons int
}

// Summarize computes size statistics over hist. Empty components (possible
// after filtering) are included.
func Summarize(hist Histogram) ComponentSummary {
	s := ComponentSummary{Components: len(hist)}
	if len(hist) == 0 {
		return s
	}

	sizes := make([]float64, len(hist))
	for i, c := range hist {
		sizes[i] = float64(c)
		if c == 1 {
			s.Singletons++
		}
	}
	s.Points = int(floats.Sum(sizes))
	s.Max = int(floats.Max(sizes))
	if len(sizes) == 1 {
		s.Mean = sizes[0]
	} else {
		s.Mean, s.StdDev = stat.MeanStdDev(sizes, nil)
	}

	sort.Float64s(sizes)
	s.Median = stat.Quantile(0.5, stat.Empirical, sizes, nil)
	s.P95 = stat.Quantile(0.95, stat.Empirical, sizes, nil)
	return s
}

// Ranked returns component ids ordered by descending size, lowest id first
// among equals.
func (h Histogram) Ranked() []uint32 {
	ids := make([]uint32, len(h))
	for i := range ids {
		ids[i] = uint32(i)
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return h[ids[i]] > h[ids[j]]
	})
	return ids
}
