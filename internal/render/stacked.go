package render

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vburojevic/eccstat/internal/domain"
)

// values returns one value per capacity, 0 where the ECC type has no row
func values(g *domain.Grid, ecc domain.ECCType, value func(domain.Row) float64) plotter.Values {
	vs := make(plotter.Values, len(g.Capacities))
	for c, capacity := range g.Capacities {
		if r, ok := g.Cell(ecc, capacity); ok {
			vs[c] = value(r)
		}
	}
	return vs
}

func stackedPanel(g *domain.Grid, ecc domain.ECCType, barWidth vg.Length) (*plot.Plot, error) {
	p := newPanel(string(ecc), "Memory Capacity", "Number of Errors")
	capacityAxis(p, g.Capacities)
	p.Y.Min = 0

	var below *plotter.BarChart
	layers := []struct {
		name  string
		m     metric
		color color.Color
	}{
		{"CE", metricCE, colorCE},
		{"UE", metricUE, colorUE},
		{"SDC", metricSDC, colorSDC},
	}
	for _, layer := range layers {
		bars, err := plotter.NewBarChart(values(g, ecc, layer.m.value), barWidth)
		if err != nil {
			return nil, err
		}
		bars.LineStyle.Width = 0
		bars.Color = layer.color
		if below != nil {
			bars.StackOn(below)
		}
		below = bars

		p.Add(bars)
		p.Legend.Add(layer.name, bars)
	}

	var (
		pts       plotter.XYs
		labels    []string
		thousands = message.NewPrinter(language.English)
	)
	for c, capacity := range g.Capacities {
		r, ok := g.Cell(ecc, capacity)
		if !ok || r.Total <= 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(c), Y: float64(r.Total)})
		labels = append(labels, thousands.Sprintf("%d", r.Total))
	}
	if len(pts) > 0 {
		totals, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
		if err != nil {
			return nil, err
		}
		centered(totals, vg.Points(2))
		p.Add(totals)
	}

	settle(p, 0.08)
	return p, nil
}

// drawStacked writes one stacked CE/UE/SDC bar panel per ECC type
func (r *Renderer) drawStacked(g *domain.Grid, path string) error {
	cols := len(g.ECCTypes)
	panelWidth := length(r.opts.Width, r.opts.DPI) / vg.Length(cols)
	barWidth := panelWidth * 0.6 / vg.Length(len(g.Capacities)+1)

	row := make([]*plot.Plot, 0, cols)
	for _, ecc := range g.ECCTypes {
		p, err := stackedPanel(g, ecc, barWidth)
		if err != nil {
			return err
		}
		row = append(row, p)
	}

	return r.save(figure{
		title:  "Error Distribution by ECC Type and Memory Capacity",
		panels: [][]*plot.Plot{row},
	}, path)
}
