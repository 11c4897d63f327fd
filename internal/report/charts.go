package report

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	fullTraceColor = color.Gray{Y: 170}
	windowColor    = color.RGBA{B: 255, A: 255}
	boundColor     = color.RGBA{R: 255, A: 255}
	peakColor      = color.RGBA{R: 255, G: 165, A: 255}
)

// ForcePositionPlot renders the force-vs-position chart: full stroke in
// grey, analysis window emphasized, peak sample marked, and any configured
// force bounds as dashed lines.
func ForcePositionPlot(ctx *Context) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Force vs Position"
	p.X.Label.Text = "Position (mm)"
	p.Y.Label.Text = "Force (kg)"
	p.Add(plotter.NewGrid())

	full, err := plotter.NewLine(xyPoints(ctx.Chart.FullPositions, ctx.Chart.FullForces))
	if err != nil {
		return nil, fmt.Errorf("failed to create full trace line: %w", err)
	}
	full.Color = fullTraceColor
	p.Add(full)
	p.Legend.Add("Full stroke", full)

	window, err := plotter.NewLine(xyPoints(ctx.Chart.Positions, ctx.Chart.Forces))
	if err != nil {
		return nil, fmt.Errorf("failed to create window line: %w", err)
	}
	window.Color = windowColor
	window.LineStyle.Width = vg.Points(1.5)
	p.Add(window)
	p.Legend.Add("Analysis window", window)

	if len(ctx.Chart.FullPositions) > 0 {
		x0, x1 := minMax(ctx.Chart.FullPositions)
		if err := addForceBounds(p, x0, x1, ctx); err != nil {
			return nil, err
		}
		if idx := ctx.Chart.PeakIdx; idx < len(ctx.Chart.FullPositions) {
			peak, err := plotter.NewScatter(plotter.XYs{{X: ctx.Chart.FullPositions[idx], Y: ctx.Chart.FullForces[idx]}})
			if err != nil {
				return nil, fmt.Errorf("failed to create peak marker: %w", err)
			}
			peak.GlyphStyle.Color = peakColor
			peak.GlyphStyle.Radius = vg.Points(4)
			p.Add(peak)
			p.Legend.Add(fmt.Sprintf("Peak %.1f kg", ctx.PeakForce), peak)
		}
	}

	p.Legend.Top = true
	return renderPNG(p)
}

// ForceTimePlot renders force over elapsed time for the analysis window.
func ForceTimePlot(ctx *Context) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Force vs Time"
	p.X.Label.Text = "Elapsed (s)"
	p.Y.Label.Text = "Force (kg)"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(xyPoints(ctx.Chart.Times, ctx.Chart.Forces))
	if err != nil {
		return nil, fmt.Errorf("failed to create force line: %w", err)
	}
	line.Color = windowColor
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("Force", line)

	if len(ctx.Chart.Times) > 0 {
		x0, x1 := minMax(ctx.Chart.Times)
		if err := addForceBounds(p, x0, x1, ctx); err != nil {
			return nil, err
		}
	}

	p.Legend.Top = true
	return renderPNG(p)
}

// addForceBounds draws the configured force bounds as dashed horizontal
// lines across [x0, x1].
func addForceBounds(p *plot.Plot, x0, x1 float64, ctx *Context) error {
	for _, bound := range []struct {
		value *float64
		label string
	}{
		{ctx.Thresholds.ForceMin, "Force min"},
		{ctx.Thresholds.ForceMax, "Force max"},
	} {
		if bound.value == nil {
			continue
		}
		line, err := plotter.NewLine(plotter.XYs{{X: x0, Y: *bound.value}, {X: x1, Y: *bound.value}})
		if err != nil {
			return fmt.Errorf("failed to create bound line: %w", err)
		}
		line.Color = boundColor
		line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s %.1f kg", bound.label, *bound.value), line)
	}
	return nil
}

// xyPoints zips two slices into plot points, bounded by the shorter one.
func xyPoints(xs, ys []float64) plotter.XYs {
	n := min(len(xs), len(ys))
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	return pts
}

// minMax returns the smallest and largest value of a non-empty slice.
func minMax(s []float64) (float64, float64) {
	lo, hi := s[0], s[0]
	for _, v := range s[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// renderPNG rasterizes the plot at the standard report chart size.
func renderPNG(p *plot.Plot) ([]byte, error) {
	writer, err := p.WriterTo(vg.Points(800), vg.Points(400), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %w", err)
	}
	return buf.Bytes(), nil
}
