package report

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/terrain.segment/internal/surface"
)

var dispositionColors = map[surface.Disposition]color.RGBA{
	surface.DispositionKept:     {R: 31, G: 119, B: 180, A: 255},
	surface.DispositionDominant: {R: 127, G: 127, B: 127, A: 255},
	surface.DispositionMinor:    {R: 214, G: 39, B: 40, A: 255},
}

// WritePNG draws the ranked component sizes of res as a bar chart, one
// coloured series per disposition.
func WritePNG(w io.Writer, title string, res *surface.Result) error {
	p := plot.New()
	summary := surface.Summarize(res.Histogram)
	p.Title.Text = fmt.Sprintf("%s: %d components, median %.0f, p95 %.0f", title, summary.Components, summary.Median, summary.P95)
	p.X.Label.Text = "Rank"
	p.Y.Label.Text = "Points"

	bars := rankedBars(res)
	width := vg.Points(6)
	for _, d := range []surface.Disposition{surface.DispositionDominant, surface.DispositionKept, surface.DispositionMinor} {
		// Zero-height bars hold the rank slots of other dispositions.
		values := make(plotter.Values, len(bars))
		present := false
		for i, b := range bars {
			if b.Disposition == d {
				values[i] = float64(b.Points)
				present = true
			}
		}
		if !present {
			continue
		}
		chart, err := plotter.NewBarChart(values, width)
		if err != nil {
			return fmt.Errorf("create bar chart: %w", err)
		}
		chart.Color = dispositionColors[d]
		chart.LineStyle.Width = 0
		p.Add(chart)
		p.Legend.Add(string(d), chart)
	}
	p.Legend.Top = true

	wt, err := p.WriterTo(10*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
