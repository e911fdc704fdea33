package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/vburojevic/eccstat/internal/domain"
)

// cellGrid exposes one metric of a domain.Grid as a plotter.GridXYZ.
// Columns are capacities; rows are ECC types with the first type on top.
type cellGrid struct {
	g     *domain.Grid
	value func(domain.Row) float64
}

func (cg cellGrid) Dims() (c, r int) {
	return len(cg.g.Capacities), len(cg.g.ECCTypes)
}

func (cg cellGrid) eccAt(r int) domain.ECCType {
	return cg.g.ECCTypes[len(cg.g.ECCTypes)-1-r]
}

func (cg cellGrid) Z(c, r int) float64 {
	row, ok := cg.g.Cell(cg.eccAt(r), cg.g.Capacities[c])
	if !ok {
		return math.NaN()
	}
	return cg.value(row)
}

func (cg cellGrid) X(c int) float64 { return float64(c) }
func (cg cellGrid) Y(r int) float64 { return float64(r) }

func heatmapPanel(g *domain.Grid, m metric) (*plot.Plot, error) {
	pal, err := brewer.GetPalette(brewer.TypeSequential, "YlOrRd", 9)
	if err != nil {
		return nil, err
	}

	grid := cellGrid{g: g, value: m.value}
	hm := plotter.NewHeatMap(grid, pal)
	hm.NaN = color.White
	if math.IsInf(hm.Min, 0) || math.IsInf(hm.Max, 0) {
		hm.Min, hm.Max = 0, 1
	}
	if hm.Max <= hm.Min {
		// A flat grid still needs a non-empty value range
		hm.Max = hm.Min + 1
	}

	p := newPanel(m.name+" Distribution", "Memory Capacity", "ECC Type")
	p.Add(hm)
	capacityAxis(p, g.Capacities)

	cols, rows := grid.Dims()
	ticks := make([]plot.Tick, rows)
	for r := 0; r < rows; r++ {
		ticks[r] = plot.Tick{Value: float64(r), Label: string(grid.eccAt(r))}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Min = -0.5
	p.Y.Max = float64(rows) - 0.5

	var (
		pts    plotter.XYs
		labels []string
	)
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			z := grid.Z(c, r)
			if math.IsNaN(z) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(c), Y: float64(r)})
			labels = append(labels, fmt.Sprintf("%.0f", z))
		}
	}
	if len(pts) > 0 {
		annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
		if err != nil {
			return nil, err
		}
		for i := range annotations.TextStyle {
			annotations.TextStyle[i].XAlign = draw.XCenter
			annotations.TextStyle[i].YAlign = draw.YCenter
			annotations.TextStyle[i].Font.Size = vg.Points(8)
		}
		p.Add(annotations)
	}

	return p, nil
}

// drawHeatmap writes ECC type x capacity heatmaps of CE, UE, SDC and Total
func (r *Renderer) drawHeatmap(g *domain.Grid, path string) error {
	panels := make([][]*plot.Plot, 2)
	for i, m := range panelMetrics {
		p, err := heatmapPanel(g, m)
		if err != nil {
			return err
		}
		panels[i/2] = append(panels[i/2], p)
	}

	return r.save(figure{
		title:  "Error Distribution Heatmap",
		panels: panels,
	}, path)
}
