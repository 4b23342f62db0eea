package sweep

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/scalebar/internal/fsutil"
	"github.com/banshee-data/scalebar/internal/monitoring"
)

// WritePlot saves a PNG of ratio and segment count against map length into
// dir and returns the path written.
func WritePlot(fsys fsutil.FileSystem, dir string, r Result) (string, error) {
	if len(r.Samples) == 0 {
		return "", fmt.Errorf("no samples to plot")
	}
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	base := r.Params.System.BaseUnit().Abbreviation()

	pRatio := plot.New()
	pRatio.Title.Text = fmt.Sprintf("Best length / max length (%s)", r.Params.System)
	pRatio.X.Label.Text = fmt.Sprintf("Max length (%s)", base)
	pRatio.Y.Label.Text = "Ratio"
	pRatio.X.Scale = plot.LogScale{}
	pRatio.X.Tick.Marker = plot.LogTicks{Prec: -1}
	pRatio.Y.Min = 0
	pRatio.Y.Max = 1

	pSeg := plot.New()
	pSeg.Title.Text = "Optimal segments"
	pSeg.X.Label.Text = pRatio.X.Label.Text
	pSeg.Y.Label.Text = "Segments"
	pSeg.X.Scale = plot.LogScale{}
	pSeg.X.Tick.Marker = plot.LogTicks{Prec: -1}

	ratioPts := make(plotter.XYs, 0, len(r.Samples))
	segPts := make(plotter.XYs, 0, len(r.Samples))
	for _, s := range r.Samples {
		ratioPts = append(ratioPts, plotter.XY{X: s.MaxLength, Y: s.Ratio})
		segPts = append(segPts, plotter.XY{X: s.MaxLength, Y: float64(s.Segments)})
	}

	ratioLine, err := plotter.NewLine(ratioPts)
	if err != nil {
		return "", fmt.Errorf("ratio line: %w", err)
	}
	ratioLine.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	pRatio.Add(ratioLine, plotter.NewGrid())

	segLine, err := plotter.NewLine(segPts)
	if err != nil {
		return "", fmt.Errorf("segments line: %w", err)
	}
	segLine.Color = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	pSeg.Add(segLine, plotter.NewGrid())

	var buf bytes.Buffer
	for _, p := range []*plot.Plot{pRatio, pSeg} {
		wt, err := p.WriterTo(10*vg.Inch, 4*vg.Inch, "png")
		if err != nil {
			return "", fmt.Errorf("plot writer: %w", err)
		}
		buf.Reset()
		if _, err := wt.WriteTo(&buf); err != nil {
			return "", fmt.Errorf("render plot: %w", err)
		}
		suffix := "ratio"
		if p == pSeg {
			suffix = "segments"
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", r.RunName(), suffix))
		if err := fsys.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		monitoring.Logf("sweep: wrote %s", path)
	}
	return filepath.Join(dir, r.RunName()+"_ratio.png"), nil
}

// WriteChart renders an interactive HTML page with the ratio and segment
// count charts.
func WriteChart(w io.Writer, r Result) error {
	ratio := make([]opts.LineData, 0, len(r.Samples))
	segments := make([]opts.LineData, 0, len(r.Samples))
	for _, s := range r.Samples {
		ratio = append(ratio, opts.LineData{Value: []interface{}{s.MaxLength, s.Ratio}, Name: s.Label})
		segments = append(segments, opts.LineData{Value: []interface{}{s.MaxLength, s.Segments}, Name: s.Label})
	}

	base := r.Params.System.BaseUnit().Abbreviation()
	xAxis := opts.XAxis{Type: "log", Name: fmt.Sprintf("Max length (%s)", base), NameLocation: "middle", NameGap: 25}

	ratioChart := charts.NewLine()
	ratioChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Scalebar sweep", Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Best length / max length",
			Subtitle: fmt.Sprintf("%s, min %.3f, mean %.3f", r.Params.System, r.MinRatio, r.MeanRatio),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(opts.YAxis{Name: "Ratio", Min: 0, Max: 1}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)
	ratioChart.AddSeries("ratio", ratio)

	segChart := charts.NewLine()
	segChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "320px"}),
		charts.WithTitleOpts(opts.Title{Title: "Optimal segments"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(opts.YAxis{Name: "Segments", Min: 0}),
	)
	segChart.AddSeries("segments", segments)

	page := components.NewPage()
	page.SetPageTitle("Scalebar sweep")
	page.AddCharts(ratioChart, segChart)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// WriteCSV writes one row per sample with a header row.
func WriteCSV(w io.Writer, r Result) error {
	cw := csv.NewWriter(w)
	header := []string{"max_length", "best", "ratio", "unit", "label", "multiplier", "segments"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range r.Samples {
		row := []string{
			strconv.FormatFloat(s.MaxLength, 'g', -1, 64),
			strconv.FormatFloat(s.Best, 'g', -1, 64),
			strconv.FormatFloat(s.Ratio, 'f', 6, 64),
			s.Unit,
			s.Label,
			strconv.FormatFloat(s.Multiplier, 'g', -1, 64),
			strconv.Itoa(s.Segments),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
