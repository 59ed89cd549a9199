// Package batch drives the load, segment, reduce and write chain over one
// dataset or many independent files.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/terrain.segment/internal/dat"
	"github.com/banshee-data/terrain.segment/internal/db"
	"github.com/banshee-data/terrain.segment/internal/monitoring"
	"github.com/banshee-data/terrain.segment/internal/report"
	"github.com/banshee-data/terrain.segment/internal/surface"
	"github.com/banshee-data/terrain.segment/internal/vrml"
)

// ErrOutputCollision is returned by Run when two inputs map to the same
// output file.
var ErrOutputCollision = errors.New("output path collision")

// Options configures a Runner.
type Options struct {
	Params surface.PipelineParams
	// Workers bounds concurrent files in Run; 0 means runtime.NumCPU.
	Workers int
	// OutDir receives .wrl files in Run; empty writes next to each input.
	OutDir string
	// ChartsDir, when set, receives a PNG and HTML report per dataset.
	ChartsDir string
	// Store, when set, persists a run record per dataset.
	Store *db.RunStore
}

// Outcome summarises one processed dataset.
type Outcome struct {
	Source string
	Output string
	RunID  string
	Stats  surface.PipelineStats
	Charts report.Files
}

// Runner processes datasets with fixed options. Each dataset gets its own
// Pipeline, so a Runner is safe for concurrent use.
type Runner struct {
	opts Options
}

// NewRunner returns a Runner for opts.
func NewRunner(opts Options) *Runner {
	return &Runner{opts: opts}
}

// Process runs the pipeline over points and writes the survivors to output.
// Source names the dataset in logs, charts and run records.
func (r *Runner) Process(source string, points []surface.Point, output string) (Outcome, error) {
	res := surface.NewPipeline(r.opts.Params).Run(points)
	out := Outcome{Source: source, Output: output, Stats: res.Stats}

	var palette vrml.Palette
	if !r.opts.Params.RemoveDominant {
		if id, ok := res.Histogram.Dominant(); ok {
			palette = vrml.DominantPalette(id)
		}
	}
	if err := vrml.WriteFile(output, res.Points, palette); err != nil {
		return out, fmt.Errorf("%s: %w", source, err)
	}

	if r.opts.ChartsDir != "" {
		files, err := report.Write(r.opts.ChartsDir, source, &res)
		if err != nil {
			return out, fmt.Errorf("%s: %w", source, err)
		}
		out.Charts = files
	}

	if r.opts.Store != nil {
		run, rows := db.NewRun(source, &res)
		if err := r.opts.Store.Insert(run, rows); err != nil {
			return out, fmt.Errorf("%s: %w", source, err)
		}
		out.RunID = run.RunID
	}
	return out, nil
}

// ProcessFile loads one record file and processes it into OutputPath(path).
func (r *Runner) ProcessFile(path string) (Outcome, error) {
	points, err := dat.LoadFile(path)
	if err != nil {
		return Outcome{Source: path}, err
	}
	return r.Process(path, points, r.OutputPath(path))
}

// OutputPath returns the .wrl path written for input.
func (r *Runner) OutputPath(input string) string {
	dir := r.opts.OutDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, report.BaseName(input)+".wrl")
}

// checkCollisions rejects file sets where two datasets would write the same
// scene or chart files.
func (r *Runner) checkCollisions(files []string) error {
	outputs := make(map[string]string, len(files))
	charts := make(map[string]string, len(files))
	for _, f := range files {
		out := filepath.Clean(r.OutputPath(f))
		if prev, ok := outputs[out]; ok {
			return fmt.Errorf("%w: %s and %s both write %s", ErrOutputCollision, prev, f, out)
		}
		outputs[out] = f

		if r.opts.ChartsDir == "" {
			continue
		}
		name := report.BaseName(f)
		if prev, ok := charts[name]; ok {
			return fmt.Errorf("%w: %s and %s both write charts named %s", ErrOutputCollision, prev, f, name)
		}
		charts[name] = f
	}
	return nil
}

// Run processes every record file named by paths (directories expanded)
// as an independent dataset. Outcomes are returned in input order. Inputs
// that would overwrite each other's output fail with ErrOutputCollision
// before any file is processed. The first failure cancels files not yet
// started.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Outcome, error) {
	files, err := dat.Expand(paths)
	if err != nil {
		return nil, err
	}
	if err := r.checkCollisions(files); err != nil {
		return nil, err
	}

	workers := r.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	monitoring.Logf("batch: %d files, %d workers", len(files), workers)

	outcomes := make([]Outcome, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := r.ProcessFile(f)
			outcomes[i] = out
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}
