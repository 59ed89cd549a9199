package main

import (
	"github.com/spf13/cobra"

	"github.com/banshee-data/terrain.segment/internal/config"
	"github.com/banshee-data/terrain.segment/internal/surface"
)

// tuningFlags are per-command overrides of the tuning config. Only flags
// set on the command line take effect.
type tuningFlags struct {
	diff         float64
	errorFloor   float64
	minor        int
	width        int
	keepDominant bool
	noThinout    bool
}

func (f *tuningFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float64Var(&f.diff, "diff", surface.DefaultDiffThreshold, "Largest |dz| between 4-neighbours of one surface")
	fl.Float64Var(&f.errorFloor, "error-floor", surface.DefaultErrorZFloor, "Points with z below this are sensor errors")
	fl.IntVar(&f.minor, "minor", surface.DefaultMinorLabelThreshold, "Components smaller than this are dropped")
	fl.IntVar(&f.width, "width", surface.DefaultThinoutWidth, "Lattice pitch kept for interior points")
	fl.BoolVar(&f.keepDominant, "keep-dominant", false, "Keep the largest surface instead of stripping it")
	fl.BoolVar(&f.noThinout, "no-thinout", false, "Keep every interior point")
}

// apply copies changed flags onto cfg and validates the result.
func (f *tuningFlags) apply(cmd *cobra.Command, cfg *config.TuningConfig) (surface.PipelineParams, error) {
	fl := cmd.Flags()
	if fl.Changed("diff") {
		cfg.DiffThreshold = &f.diff
	}
	if fl.Changed("error-floor") {
		cfg.ErrorZFloor = &f.errorFloor
	}
	if fl.Changed("minor") {
		cfg.MinorLabelThreshold = &f.minor
	}
	if fl.Changed("width") {
		cfg.ThinoutWidth = &f.width
	}
	if fl.Changed("keep-dominant") {
		remove := !f.keepDominant
		cfg.RemoveDominant = &remove
	}
	if fl.Changed("no-thinout") {
		thin := !f.noThinout
		cfg.Thinout = &thin
	}
	if err := cfg.Validate(); err != nil {
		return surface.PipelineParams{}, err
	}
	return cfg.PipelineParams(), nil
}
