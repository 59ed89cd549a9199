package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"github.com/banshee-data/terrain.segment/internal/surface"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/tuning.defaults.json"

// Validation errors.
var (
	ErrNegativeThreshold = errors.New("threshold must be non-negative")
	ErrInvalidWidth      = errors.New("thinout_width must be at least 1")
	ErrNotANumber        = errors.New("value must be a number")
)

// TuningConfig holds the segmentation tuning parameters. Every field is
// optional; the Get* methods fall back to production defaults so partial
// files are safe.
type TuningConfig struct {
	// Segmentation
	DiffThreshold *float64 `json:"diff_threshold,omitempty"`

	// Reduction
	ErrorZFloor         *float64 `json:"error_z_floor,omitempty"`
	MinorLabelThreshold *int     `json:"minor_label_threshold,omitempty"`
	ThinoutWidth        *int     `json:"thinout_width,omitempty"`
	RemoveDominant      *bool    `json:"remove_dominant,omitempty"`
	Thinout             *bool    `json:"thinout,omitempty"`

	// Batch processing
	Workers *int `json:"workers,omitempty"`

	// Logging
	LogLevel    *string `json:"log_level,omitempty"`
	LogEncoding *string `json:"log_encoding,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field populated from
// the production defaults.
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		DiffThreshold:       ptrFloat64(surface.DefaultDiffThreshold),
		ErrorZFloor:         ptrFloat64(surface.DefaultErrorZFloor),
		MinorLabelThreshold: ptrInt(surface.DefaultMinorLabelThreshold),
		ThinoutWidth:        ptrInt(surface.DefaultThinoutWidth),
		RemoveDominant:      ptrBool(true),
		Thinout:             ptrBool(true),
		Workers:             ptrInt(runtime.NumCPU()),
		LogLevel:            ptrString("info"),
		LogEncoding:         ptrString("console"),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches the current directory and parent directories up to the repo root.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid. Negative
// thresholds are rejected here rather than inside the segmentation engine.
func (c *TuningConfig) Validate() error {
	if c.DiffThreshold != nil && math.IsNaN(*c.DiffThreshold) {
		return fmt.Errorf("diff_threshold: %w", ErrNotANumber)
	}
	if c.ErrorZFloor != nil && math.IsNaN(*c.ErrorZFloor) {
		return fmt.Errorf("error_z_floor: %w", ErrNotANumber)
	}
	if c.DiffThreshold != nil && *c.DiffThreshold < 0 {
		return fmt.Errorf("diff_threshold %f: %w", *c.DiffThreshold, ErrNegativeThreshold)
	}
	if c.MinorLabelThreshold != nil && *c.MinorLabelThreshold < 0 {
		return fmt.Errorf("minor_label_threshold %d: %w", *c.MinorLabelThreshold, ErrNegativeThreshold)
	}
	if c.ThinoutWidth != nil && *c.ThinoutWidth < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidWidth, *c.ThinoutWidth)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.LogEncoding != nil && *c.LogEncoding != "" && *c.LogEncoding != "console" && *c.LogEncoding != "json" {
		return fmt.Errorf("log_encoding must be console or json, got %q", *c.LogEncoding)
	}
	return nil
}

// GetDiffThreshold returns the diff_threshold value or the default.
func (c *TuningConfig) GetDiffThreshold() float64 {
	if c.DiffThreshold == nil {
		return surface.DefaultDiffThreshold
	}
	return *c.DiffThreshold
}

// GetErrorZFloor returns the error_z_floor value or the default.
func (c *TuningConfig) GetErrorZFloor() float64 {
	if c.ErrorZFloor == nil {
		return surface.DefaultErrorZFloor
	}
	return *c.ErrorZFloor
}

// GetMinorLabelThreshold returns the minor_label_threshold value or the default.
func (c *TuningConfig) GetMinorLabelThreshold() int {
	if c.MinorLabelThreshold == nil {
		return surface.DefaultMinorLabelThreshold
	}
	return *c.MinorLabelThreshold
}

// GetThinoutWidth returns the thinout_width value or the default.
func (c *TuningConfig) GetThinoutWidth() int {
	if c.ThinoutWidth == nil {
		return surface.DefaultThinoutWidth
	}
	return *c.ThinoutWidth
}

// GetRemoveDominant returns the remove_dominant value or the default.
func (c *TuningConfig) GetRemoveDominant() bool {
	if c.RemoveDominant == nil {
		return true
	}
	return *c.RemoveDominant
}

// GetThinout returns the thinout value or the default.
func (c *TuningConfig) GetThinout() bool {
	if c.Thinout == nil {
		return true
	}
	return *c.Thinout
}

// GetWorkers returns the workers value, or runtime.NumCPU() when unset or zero.
func (c *TuningConfig) GetWorkers() int {
	if c.Workers == nil || *c.Workers == 0 {
		return runtime.NumCPU()
	}
	return *c.Workers
}

// GetLogLevel returns the log_level value or the default.
func (c *TuningConfig) GetLogLevel() string {
	if c.LogLevel == nil || *c.LogLevel == "" {
		return "info"
	}
	return *c.LogLevel
}

// GetLogEncoding returns the log_encoding value or the default.
func (c *TuningConfig) GetLogEncoding() string {
	if c.LogEncoding == nil || *c.LogEncoding == "" {
		return "console"
	}
	return *c.LogEncoding
}

// PipelineParams converts the tuning values into segmentation parameters.
func (c *TuningConfig) PipelineParams() surface.PipelineParams {
	return surface.PipelineParams{
		DiffThreshold:       c.GetDiffThreshold(),
		ErrorZFloor:         c.GetErrorZFloor(),
		MinorLabelThreshold: c.GetMinorLabelThreshold(),
		ThinoutWidth:        c.GetThinoutWidth(),
		RemoveDominant:      c.GetRemoveDominant(),
		Thinout:             c.GetThinout(),
	}
}
