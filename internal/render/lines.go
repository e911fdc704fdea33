package render

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/vburojevic/eccstat/internal/domain"
)

// metric selects one error class of a row
type metric struct {
	name   string
	title  string
	yLabel string
	value  func(domain.Row) float64
}

var (
	metricCE = metric{"CE", "Correctable Errors (CE)", "Number of CE",
		func(r domain.Row) float64 { return float64(r.CE) }}
	metricUE = metric{"UE", "Uncorrectable Errors (UE)", "Number of UE",
		func(r domain.Row) float64 { return float64(r.UE) }}
	metricSDC = metric{"SDC", "Silent Data Corruptions (SDC)", "Number of SDC",
		func(r domain.Row) float64 { return float64(r.SDC) }}
	metricTotal = metric{"Total", "Total Errors", "Total Number of Errors",
		func(r domain.Row) float64 { return float64(r.Total) }}
)

var panelMetrics = []metric{metricCE, metricUE, metricSDC, metricTotal}

// series returns the points of one ECC type; capacities without a row are
// left out
func series(g *domain.Grid, ecc domain.ECCType, value func(domain.Row) float64) plotter.XYs {
	var pts plotter.XYs
	for c, capacity := range g.Capacities {
		if r, ok := g.Cell(ecc, capacity); ok {
			pts = append(pts, plotter.XY{X: float64(c), Y: value(r)})
		}
	}
	return pts
}

// addSeries draws one line with markers per ECC type
func addSeries(p *plot.Plot, g *domain.Grid, shape int, points func(domain.ECCType) plotter.XYs) error {
	for i, ecc := range g.ECCTypes {
		pts := points(ecc)
		if len(pts) == 0 {
			continue
		}

		line, scatter, err := plotter.NewLinePoints(pts)
		if err != nil {
			return err
		}
		col := eccColor(ecc, i)
		line.Color = col
		line.Width = vg.Points(2)
		scatter.GlyphStyle.Color = col
		scatter.GlyphStyle.Shape = marker(shape)
		scatter.GlyphStyle.Radius = vg.Points(3)

		p.Add(line, scatter)
		p.Legend.Add(string(ecc), line, scatter)
	}
	return nil
}

func linePanel(g *domain.Grid, m metric, shape int) (*plot.Plot, error) {
	p := newPanel(m.title, "Memory Capacity", m.yLabel)
	capacityAxis(p, g.Capacities)
	p.Y.Min = 0

	err := addSeries(p, g, shape, func(ecc domain.ECCType) plotter.XYs {
		return series(g, ecc, m.value)
	})
	if err != nil {
		return nil, err
	}
	settle(p, 0.05)
	return p, nil
}

// drawByType writes a 2x2 grid of CE, UE, SDC and Total versus capacity
func (r *Renderer) drawByType(g *domain.Grid, path string) error {
	panels := make([][]*plot.Plot, 2)
	for i, m := range panelMetrics {
		p, err := linePanel(g, m, i)
		if err != nil {
			return err
		}
		panels[i/2] = append(panels[i/2], p)
	}

	return r.save(figure{
		title:  "FaultSim Error Statistics by Memory Capacity and ECC Type",
		panels: panels,
	}, path)
}
