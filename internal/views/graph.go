package views

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/KaramelBytes/inflammation-cli/internal/analysis"
)

// ChartOptions controls figure size.
type ChartOptions struct {
	// HeightIn is the figure height in inches; width scales with the number
	// of statistics. Zero means 3in.
	HeightIn float64
}

// Visualize renders one sub-plot per statistic, side by side, and writes the
// figure to path as PNG. Missing values are left out of the line.
func Visualize(path string, s analysis.Summary, opt ChartOptions) error {
	n := len(s.Series)
	if n == 0 {
		return fmt.Errorf("visualize: summary has no statistics")
	}
	height := opt.HeightIn
	if height <= 0 {
		height = 3
	}
	width := (3*float64(n) + 1) * height / 3

	plots := make([]*plot.Plot, n)
	for i, sr := range s.Series {
		p := plot.New()
		p.X.Label.Text = "day"
		p.Y.Label.Text = sr.Name

		pts := make(plotter.XYs, 0, len(sr.Values))
		for day, v := range sr.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(day), Y: v})
		}
		if len(pts) > 0 {
			line, err := plotter.NewLine(pts)
			if err != nil {
				return fmt.Errorf("visualize %s: %w", sr.Name, err)
			}
			line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
			line.Width = vg.Points(1)
			p.Add(line)
		}
		plots[i] = p
	}

	img := vgimg.New(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      n,
		PadX:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align([][]*plot.Plot{plots}, tiles, dc)
	for j, p := range plots {
		p.Draw(canvases[0][j])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write chart: %w", err)
	}
	return f.Close()
}

// VisualizeHTML writes an HTML page with one line chart per statistic.
// Missing values are rendered as gaps.
func VisualizeHTML(w io.Writer, s analysis.Summary) error {
	if len(s.Series) == 0 {
		return fmt.Errorf("visualize: summary has no statistics")
	}
	days := make([]string, s.Days())
	for i := range days {
		days[i] = strconv.Itoa(i)
	}

	page := components.NewPage()
	for _, sr := range s.Series {
		data := make([]opts.LineData, s.Days())
		for i := range data {
			v := sr.Values[i]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				data[i] = opts.LineData{Value: "-"}
				continue
			}
			data[i] = opts.LineData{Value: v}
		}
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{PageTitle: s.Source, Width: "480px", Height: "320px"}),
			charts.WithTitleOpts(opts.Title{Title: sr.Name, Subtitle: s.Source}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithXAxisOpts(opts.XAxis{Name: "day"}),
			charts.WithYAxisOpts(opts.YAxis{Name: sr.Name}),
		)
		line.SetXAxis(days).AddSeries(sr.Name, data)
		page.AddCharts(line)
	}
	return page.Render(w)
}
