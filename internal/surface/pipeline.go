package surface

import (
	"time"

	"github.com/banshee-data/terrain.segment/internal/monitoring"
)

// PipelineParams configures one segmentation and reduction run.
type PipelineParams struct {
	DiffThreshold       float64
	ErrorZFloor         float64
	MinorLabelThreshold int
	ThinoutWidth        int
	RemoveDominant      bool
	Thinout             bool
}

// DefaultPipelineParams returns production defaults.
func DefaultPipelineParams() PipelineParams {
	return PipelineParams{
		DiffThreshold:       DefaultDiffThreshold,
		ErrorZFloor:         DefaultErrorZFloor,
		MinorLabelThreshold: DefaultMinorLabelThreshold,
		ThinoutWidth:        DefaultThinoutWidth,
		RemoveDominant:      true,
		Thinout:             true,
	}
}

// PipelineStats records how many points each stage consumed.
type PipelineStats struct {
	InputPoints           int
	ErrorPointsRemoved    int
	Components            uint32
	BorderPoints          int
	DuplicateKeys         int
	DominantID            uint32
	HasDominant           bool
	DominantPointsRemoved int
	MinorPointsRemoved    int
	ThinoutPointsRemoved  int
	OutputPoints          int
	Duration              time.Duration
}

// Disposition says what the reduction stages did with a component.
type Disposition string

const (
	DispositionKept     Disposition = "kept"
	DispositionDominant Disposition = "dominant"
	DispositionMinor    Disposition = "minor"
)

// Result is the output of Pipeline.Run.
type Result struct {
	Points    []Point
	Histogram Histogram
	Params    PipelineParams
	Stats     PipelineStats
}

// Disposition classifies component id against the stages that ran.
func (r *Result) Disposition(id uint32) Disposition {
	if r.Params.RemoveDominant && r.Stats.HasDominant && id == r.Stats.DominantID {
		return DispositionDominant
	}
	if r.Histogram.Size(id) < r.Params.MinorLabelThreshold {
		return DispositionMinor
	}
	return DispositionKept
}

// Pipeline runs the fixed stage order: error strip, segmentation, label
// count, dominant surface strip, minor label strip, thinout.
type Pipeline struct {
	params    PipelineParams
	segmenter *Segmenter
}

// NewPipeline returns a Pipeline using params.
func NewPipeline(params PipelineParams) *Pipeline {
	return &Pipeline{
		params:    params,
		segmenter: NewSegmenter(params.DiffThreshold),
	}
}

// Params returns the parameters the pipeline was built with.
func (p *Pipeline) Params() PipelineParams {
	return p.params
}

// Run consumes points and returns the survivors. The input slice is reused
// as the output backing array.
func (p *Pipeline) Run(points []Point) Result {
	start := time.Now()
	res := Result{Params: p.params}
	res.Stats.InputPoints = len(points)

	// Sentinel cells are stripped before segmentation so they never mint
	// components; their neighbours still get the border flag from the gap.
	before := len(points)
	points = RemoveErrorPoints(points, p.params.ErrorZFloor)
	res.Stats.ErrorPointsRemoved = before - len(points)
	monitoring.Logf("removed error: %d", res.Stats.ErrorPointsRemoved)

	count := p.segmenter.Segment(points)
	seg := p.segmenter.Stats()
	res.Stats.Components = count
	res.Stats.BorderPoints = seg.BorderPoints
	res.Stats.DuplicateKeys = seg.Duplicates
	if seg.Duplicates > 0 {
		monitoring.Logf("segment: %d points shadowed by duplicate lattice keys", seg.Duplicates)
	}

	// Counted once; the minor strip deliberately reuses this histogram.
	res.Histogram = CountLabels(count, points)

	if p.params.RemoveDominant {
		before = len(points)
		var dominant uint32
		var ok bool
		points, dominant, ok = RemoveTrivialSurface(res.Histogram, points)
		res.Stats.DominantID = dominant
		res.Stats.HasDominant = ok
		res.Stats.DominantPointsRemoved = before - len(points)
	}

	before = len(points)
	points = RemoveMinorLabels(res.Histogram, points, p.params.MinorLabelThreshold)
	res.Stats.MinorPointsRemoved = before - len(points)

	if p.params.Thinout {
		before = len(points)
		points = Thinout(points, p.params.ThinoutWidth)
		res.Stats.ThinoutPointsRemoved = before - len(points)
	}

	res.Points = points
	res.Stats.OutputPoints = len(points)
	res.Stats.Duration = time.Since(start)

	monitoring.Logf("segment: %d points -> %d components (%d border), dominant=%d removed=%d, minor removed=%d, thinned=%d, kept=%d in %v",
		res.Stats.InputPoints-res.Stats.ErrorPointsRemoved, count, res.Stats.BorderPoints,
		res.Stats.DominantID, res.Stats.DominantPointsRemoved, res.Stats.MinorPointsRemoved,
		res.Stats.ThinoutPointsRemoved, res.Stats.OutputPoints, res.Stats.Duration)

	return res
}
