package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/terrain.segment/internal/surface"
)

var dispositionHex = map[surface.Disposition]string{
	surface.DispositionKept:     "#1f77b4",
	surface.DispositionDominant: "#7f7f7f",
	surface.DispositionMinor:    "#d62728",
}

// WriteHTML renders a page with the component size bar chart and a top-down
// scatter of the surviving points coloured by component id.
func WriteHTML(w io.Writer, title string, res *surface.Result) error {
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(sizeBar(title, res), labelScatter(res))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func sizeBar(title string, res *surface.Result) *charts.Bar {
	bars := rankedBars(res)
	x := make([]string, len(bars))
	y := make([]opts.BarData, len(bars))
	for i, b := range bars {
		x[i] = fmt.Sprintf("#%d", b.ID)
		y[i] = opts.BarData{
			Name:      string(b.Disposition),
			Value:     b.Points,
			ItemStyle: &opts.ItemStyle{Color: dispositionHex[b.Disposition]},
		}
	}

	s := res.Stats
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("components=%d dominant=%d minor=%d thinned=%d kept=%d", s.Components, s.DominantPointsRemoved, s.MinorPointsRemoved, s.ThinoutPointsRemoved, s.OutputPoints),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Component"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Points"}),
	)
	bar.SetXAxis(x).AddSeries("points", y)
	return bar
}

func labelScatter(res *surface.Result) *charts.Scatter {
	data := make([]opts.ScatterData, 0, len(res.Points))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range res.Points {
		data = append(data, opts.ScatterData{Value: []interface{}{p.X, p.Y, p.Label.ID}})
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	scatter := charts.NewScatter()
	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Surviving points", Subtitle: fmt.Sprintf("points=%d", len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(max(1, int(res.Stats.Components)-1)),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#3e4989", "#26828e", "#35b779", "#b5de2b", "#fde725"}},
		}),
	}
	if len(data) > 0 {
		global = append(global,
			charts.WithXAxisOpts(opts.XAxis{Min: minX, Max: maxX, Name: "X", NameLocation: "middle", NameGap: 25}),
			charts.WithYAxisOpts(opts.YAxis{Min: minY, Max: maxY, Name: "Y", NameLocation: "middle", NameGap: 30}),
		)
	}
	scatter.SetGlobalOptions(global...)
	scatter.AddSeries("labels", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))
	return scatter
}
