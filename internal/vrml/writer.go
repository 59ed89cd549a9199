// Package vrml writes segmented points as a VRML 2.0 PointSet scene.
package vrml

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/banshee-data/terrain.segment/internal/monitoring"
	"github.com/banshee-data/terrain.segment/internal/surface"
)

// DefaultOutput is the file written when no output path is given.
const DefaultOutput = "out.wrl"

// Header is the first line of every VRML 2.0 file.
const Header = "#VRML V2.0 utf8"

// Color is an RGB triple in [0,1].
type Color struct{ R, G, B float64 }

// Scene colours.
var (
	BorderColor   = Color{1, 0, 0}
	InteriorColor = Color{1, 1, 1}
	DominantColor = Color{0.4, 0.4, 0.4}
)

// Palette selects the colour of each point.
type Palette func(p surface.Point) Color

// BorderPalette colours border points red and everything else white.
func BorderPalette(p surface.Point) Color {
	if p.Label.Border {
		return BorderColor
	}
	return InteriorColor
}

// DominantPalette greys out points of component id and falls back to
// BorderPalette for the rest. Used when the dominant surface is kept.
func DominantPalette(id uint32) Palette {
	return func(p surface.Point) Color {
		if p.Label.Visited && p.Label.ID == id {
			return DominantColor
		}
		return BorderPalette(p)
	}
}

// Writer renders points to a VRML stream.
type Writer struct {
	w       *bufio.Writer
	palette Palette
}

// NewWriter returns a Writer using BorderPalette when palette is nil.
func NewWriter(w io.Writer, palette Palette) *Writer {
	if palette == nil {
		palette = BorderPalette
	}
	return &Writer{w: bufio.NewWriter(w), palette: palette}
}

// Write emits a complete scene containing points and flushes.
func (vw *Writer) Write(points []surface.Point) error {
	w := vw.w
	fmt.Fprintln(w, Header)
	fmt.Fprintln(w, "Shape {")
	fmt.Fprintln(w, "  geometry PointSet {")
	fmt.Fprintln(w, "    coord Coordinate {")
	fmt.Fprintln(w, "      point [")
	for _, p := range points {
		fmt.Fprintf(w, "        %g %g %g,\n", p.X, p.Y, p.Z)
	}
	fmt.Fprintln(w, "      ]")
	fmt.Fprintln(w, "    }")
	fmt.Fprintln(w, "    color Color {")
	fmt.Fprintln(w, "      color [")
	for _, p := range points {
		c := vw.palette(p)
		fmt.Fprintf(w, "        %g %g %g,\n", c.R, c.G, c.B)
	}
	fmt.Fprintln(w, "      ]")
	fmt.Fprintln(w, "    }")
	fmt.Fprintln(w, "  }")
	fmt.Fprintln(w, "}")
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write vrml: %w", err)
	}
	return nil
}

// WriteFile writes points to path, replacing any existing file.
func WriteFile(path string, points []surface.Point, palette Palette) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create vrml output: %w", err)
	}
	if err := NewWriter(f, palette).Write(points); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close vrml output: %w", err)
	}
	monitoring.Logf("wrote %d points to %s", len(points), path)
	return nil
}
