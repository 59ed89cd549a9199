// Package report renders component-size charts for a pipeline result: a
// static PNG bar chart and an interactive HTML page.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/terrain.segment/internal/dat"
	"github.com/banshee-data/terrain.segment/internal/monitoring"
	"github.com/banshee-data/terrain.segment/internal/surface"
)

// MaxBars caps the number of components drawn in bar charts; the largest
// components are kept.
const MaxBars = 64

// Files lists the paths written by Write.
type Files struct {
	PNG  string
	HTML string
}

// bar is one ranked component in a size chart.
type bar struct {
	ID          uint32
	Points      int
	Disposition surface.Disposition
}

// rankedBars returns up to MaxBars components in descending size order.
func rankedBars(res *surface.Result) []bar {
	ids := res.Histogram.Ranked()
	if len(ids) > MaxBars {
		ids = ids[:MaxBars]
	}
	bars := make([]bar, len(ids))
	for i, id := range ids {
		bars[i] = bar{ID: id, Points: res.Histogram[id], Disposition: res.Disposition(id)}
	}
	return bars
}

// BaseName strips the directory and the record extension from a source
// path. A compression suffix is kept so that plain and compressed copies of
// one scan get distinct names: "scans/a.dat" becomes "a" and
// "scans/a.dat.gz" becomes "a.gz". Other paths lose their last extension.
func BaseName(source string) string {
	base := filepath.Base(source)
	lower := strings.ToLower(base)
	for _, suffix := range dat.CompressionSuffixes {
		ext := dat.Extension + suffix
		if len(base) > len(ext) && strings.HasSuffix(lower, ext) {
			return base[:len(base)-len(ext)] + base[len(base)-len(suffix):]
		}
	}
	if stem := strings.TrimSuffix(base, filepath.Ext(base)); stem != "" {
		return stem
	}
	return base
}

// Write renders both charts for res into dir, naming them after source.
func Write(dir, source string, res *surface.Result) (Files, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Files{}, fmt.Errorf("create report directory: %w", err)
	}
	base := BaseName(source)
	files := Files{
		PNG:  filepath.Join(dir, base+"_sizes.png"),
		HTML: filepath.Join(dir, base+".html"),
	}

	if err := writeFile(files.PNG, func(f *os.File) error { return WritePNG(f, source, res) }); err != nil {
		return Files{}, err
	}
	if err := writeFile(files.HTML, func(f *os.File) error { return WriteHTML(f, source, res) }); err != nil {
		return Files{}, err
	}
	monitoring.Logf("report: wrote %s and %s", files.PNG, files.HTML)
	return files, nil
}

func writeFile(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
