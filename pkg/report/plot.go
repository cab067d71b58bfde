package report

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/ja7ad/chipletpower/pkg/trace"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	plotWidth  = 10 * vg.Inch
	plotHeight = 5 * vg.Inch
)

// Plot draws tr as a post-step line, time on x and power on y, with a tick
// at every stage boundary.
func Plot(tr trace.Trace, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Power (W)"
	p.Add(plotter.NewGrid())

	times, powers := tr.Points()
	xys := make(plotter.XYs, len(times))
	for i := range times {
		xys[i].X = times[i]
		xys[i].Y = powers[i]
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("plot: line: %w", err)
	}
	line.StepStyle = plotter.PostStep
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = color.RGBA{B: 255, A: 255}
	p.Add(line)

	p.X.Tick.Marker = boundaryTicks(tr.Boundaries())
	return p, nil
}

// boundaryTicks labels each distinct boundary; zero-width stages would
// otherwise stack labels on the same spot.
func boundaryTicks(bs []float64) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, 0, len(bs))
	for i, b := range bs {
		if i > 0 && b == bs[i-1] {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: b, Label: fmt.Sprintf("%.3g", b)})
	}
	return ticks
}

// SavePlot writes the plot of tr to path. The format follows the file
// extension (png, svg, pdf, ...).
func SavePlot(tr trace.Trace, title, path string) error {
	p, err := Plot(tr, title)
	if err != nil {
		return err
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("plot: save %s: %w", path, err)
	}
	return nil
}

// PlotSVG returns the plot of tr as an SVG document.
func PlotSVG(tr trace.Trace, title string) ([]byte, error) {
	p, err := Plot(tr, title)
	if err != nil {
		return nil, err
	}
	wt, err := p.WriterTo(plotWidth, plotHeight, "svg")
	if err != nil {
		return nil, fmt.Errorf("plot: svg: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("plot: svg: %w", err)
	}
	return buf.Bytes(), nil
}
