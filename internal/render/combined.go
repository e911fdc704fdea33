package render

import (
	"fmt"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vburojevic/eccstat/internal/domain"
)

const groupWidth = 0.8

var (
	// Grayscale stack, lightest at the bottom
	combinedCE  = drawing.ColorFromHex("F0F0F0")
	combinedUE  = drawing.ColorFromHex("A0A0A0")
	combinedSDC = drawing.ColorFromHex("404040")
)

// rateColor returns the marker color of an ECC type on the rate axis
func rateColor(ecc domain.ECCType, idx int) drawing.Color {
	switch ecc {
	case domain.ECCNone:
		return drawing.ColorFromHex("FF0000")
	case domain.ECCSECDED:
		return drawing.ColorFromHex("0000FF")
	case domain.ECCChipKill:
		return drawing.ColorFromHex("00AA00")
	default:
		r, g, b, _ := eccColor(ecc, idx).RGBA()
		return drawing.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
	}
}

// barX returns the center of the bar for ECC index e in capacity group c
func barX(c, e, n int) float64 {
	width := groupWidth / float64(n)
	return float64(c) + (float64(e)-float64(n-1)/2)*width
}

// barOutline traces one filled area over every bar of a stack layer. Points
// return to the baseline between bars so the fill leaves gaps.
func barOutline(g *domain.Grid, height func(domain.Row) float64) (xs, ys []float64) {
	n := len(g.ECCTypes)
	half := groupWidth / float64(n) / 2 * 0.95
	for c, capacity := range g.Capacities {
		for e, ecc := range g.ECCTypes {
			r, ok := g.Cell(ecc, capacity)
			if !ok {
				continue
			}
			x := barX(c, e, n)
			h := height(r)
			xs = append(xs, x-half, x-half, x+half, x+half)
			ys = append(ys, 0, h, h, 0)
		}
	}
	return xs, ys
}

// capacityTicks labels one tick per capacity group. The x range follows the
// ticks, so blank ticks half a group past each end keep the outer bars inside.
func capacityTicks(capacities []domain.Capacity) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(capacities)+2)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	for c, capacity := range capacities {
		ticks = append(ticks, chart.Tick{Value: float64(c), Label: capacity.Label})
	}
	return append(ticks, chart.Tick{Value: float64(len(capacities)) - 0.5})
}

// combinedChart builds the dual-axis chart: stacked error counts on the
// left axis and the critical error rate of every row on the right axis
func (r *Renderer) combinedChart(g *domain.Grid) chart.Chart {
	n := len(g.ECCTypes)
	thousands := message.NewPrinter(language.English)

	var maxTotal, maxRate float64
	for _, ecc := range g.ECCTypes {
		for _, row := range g.RowsFor(ecc) {
			maxTotal = max(maxTotal, float64(row.Total))
			maxRate = max(maxRate, row.CriticalErrorRate)
		}
	}
	if maxTotal <= 0 {
		maxTotal = 1
	}
	if maxRate <= 0 {
		maxRate = 1e-6
	}

	var series []chart.Series

	// Tallest layer first; each shorter layer paints over its lower part.
	layers := []struct {
		name   string
		color  drawing.Color
		height func(domain.Row) float64
	}{
		{"SDC", combinedSDC, func(row domain.Row) float64 { return float64(row.CE + row.UE + row.SDC) }},
		{"UE", combinedUE, func(row domain.Row) float64 { return float64(row.CE + row.UE) }},
		{"CE", combinedCE, func(row domain.Row) float64 { return float64(row.CE) }},
	}
	for _, layer := range layers {
		xs, ys := barOutline(g, layer.height)
		series = append(series, chart.ContinuousSeries{
			Name:    layer.name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				StrokeWidth: 0.5,
				FillColor:   layer.color,
			},
		})
	}

	var totals, rates []chart.Value2
	for e, ecc := range g.ECCTypes {
		var xs, ys []float64
		for c, capacity := range g.Capacities {
			row, ok := g.Cell(ecc, capacity)
			if !ok {
				continue
			}
			x := barX(c, e, n)
			xs = append(xs, x)
			ys = append(ys, row.CriticalErrorRate)
			totals = append(totals, chart.Value2{XValue: x, YValue: float64(row.Total), Label: thousands.Sprintf("%d", row.Total)})
			rates = append(rates, chart.Value2{XValue: x, YValue: row.CriticalErrorRate, Label: fmt.Sprintf("%.2e", row.CriticalErrorRate)})
		}
		if len(xs) == 0 {
			continue
		}

		col := rateColor(ecc, e)
		series = append(series, chart.ContinuousSeries{
			Name:    string(ecc) + " Error Rate",
			YAxis:   chart.YAxisSecondary,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    6,
				DotColor:    col,
			},
		})
	}

	series = append(series,
		chart.AnnotationSeries{Annotations: totals},
		chart.AnnotationSeries{YAxis: chart.YAxisSecondary, Annotations: rates},
	)

	order := ""
	for i, ecc := range g.ECCTypes {
		if i > 0 {
			order += ", "
		}
		order += string(ecc)
	}

	graph := chart.Chart{
		Title:  "FaultSim Error Counts and Critical Error Rate (bars: " + order + ")",
		Width:  r.opts.Width,
		Height: r.opts.Height,
		DPI:    float64(r.opts.DPI),
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Memory Capacity",
			Ticks: capacityTicks(g.Capacities),
		},
		YAxis: chart.YAxis{
			Name:  "Number of Errors",
			Range: &chart.ContinuousRange{Min: 0, Max: maxTotal * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return thousands.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		YAxisSecondary: chart.YAxis{
			Name:  "Critical Error Rate",
			Range: &chart.ContinuousRange{Min: 0, Max: maxRate * 1.25},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1e", f)
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph
}

// drawCombined writes the dual-axis summary chart
func (r *Renderer) drawCombined(g *domain.Grid, path string) (err error) {
	graph := r.combinedChart(g)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return graph.Render(chart.PNG, f)
}
