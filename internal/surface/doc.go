// Package surface owns the segmentation core of the terrain pipeline.
//
// Responsibilities: lattice indexing of grid-aligned samples, connected
// component labelling under a depth-continuity predicate, border detection,
// and the label-driven reduction stages that run after segmentation.
// Key types: Point, Label, Index, Segmenter, Histogram, Pipeline.
//
// Dependency rule: surface never performs file, database or network I/O.
// Loading and writing live in internal/dat and internal/vrml.
package surface
