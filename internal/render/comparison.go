package render

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/vburojevic/eccstat/internal/domain"
)

// ReductionRate is the share of No ECC errors an ECC scheme removes, in
// percent. It is 0 when the No ECC total is 0.
func ReductionRate(noECCTotal, eccTotal int64) float64 {
	if noECCTotal == 0 {
		return 0
	}
	return float64(noECCTotal-eccTotal) / float64(noECCTotal) * 100
}

// reductionSeries returns the reduction rate of ecc per capacity. Capacities
// missing either the No ECC row or the ecc row are left out.
func reductionSeries(g *domain.Grid, ecc domain.ECCType) plotter.XYs {
	var pts plotter.XYs
	for c, capacity := range g.Capacities {
		base, ok := g.Cell(domain.ECCNone, capacity)
		if !ok {
			continue
		}
		r, ok := g.Cell(ecc, capacity)
		if !ok {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(c), Y: ReductionRate(base.Total, r.Total)})
	}
	return pts
}

func reductionPanel(g *domain.Grid) (*plot.Plot, error) {
	p := newPanel("Error Reduction Rate vs No ECC (%)", "Memory Capacity", "Improvement Rate (%)")
	capacityAxis(p, g.Capacities)

	err := addSeries(p, g, 0, func(ecc domain.ECCType) plotter.XYs {
		if ecc == domain.ECCNone {
			return nil
		}
		return reductionSeries(g, ecc)
	})
	if err != nil {
		return nil, err
	}

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = color.Gray{Y: 0x80}
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(zero)

	if p.Y.Min > 0 {
		p.Y.Min = 0
	}
	if p.Y.Max < 0 {
		p.Y.Max = 0
	}
	settle(p, 0.05)
	return p, nil
}

// drawComparison writes total errors per ECC type next to the reduction
// rate of each scheme against No ECC
func (r *Renderer) drawComparison(g *domain.Grid, path string) error {
	totals, err := linePanel(g, metric{
		name:   metricTotal.name,
		title:  "Total Errors by ECC Type",
		yLabel: metricTotal.yLabel,
		value:  metricTotal.value,
	}, 0)
	if err != nil {
		return err
	}

	reduction, err := reductionPanel(g)
	if err != nil {
		return err
	}

	return r.save(figure{
		title:  "ECC Effectiveness Comparison",
		panels: [][]*plot.Plot{{totals, reduction}},
	}, path)
}
