package render

import (
	"image/color"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/vburojevic/eccstat/internal/domain"
)

// figure is a grid of panels saved as one PNG with a centered title
type figure struct {
	title  string
	panels [][]*plot.Plot
}

// length converts a pixel count at dpi to a vg length
func length(px, dpi int) vg.Length {
	return vg.Length(px) / vg.Length(dpi) * vg.Inch
}

func (r *Renderer) save(fig figure, path string) (err error) {
	rows := len(fig.panels)
	cols := len(fig.panels[0])

	img := vgimg.NewWith(
		vgimg.UseWH(length(r.opts.Width, r.opts.DPI), length(r.opts.Height, r.opts.DPI)),
		vgimg.UseDPI(r.opts.DPI),
	)
	dc := draw.New(img)

	titleStyle := plot.New().Title.TextStyle
	titleStyle.Font.Size = vg.Points(16)
	titleStyle.XAlign = draw.XCenter
	titleStyle.YAlign = draw.YTop

	margin := vg.Points(6)
	dc.FillText(titleStyle, vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Max.Y - margin}, fig.title)

	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadTop:    titleStyle.Height(fig.title) + 2*margin,
		PadBottom: margin,
		PadLeft:   margin,
		PadRight:  margin,
		PadX:      vg.Points(18),
		PadY:      vg.Points(18),
	}
	canvases := plot.Align(fig.panels, tiles, dc)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			fig.panels[j][i].Draw(canvases[j][i])
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = vgimg.PngCanvas{Canvas: img}.WriteTo(f)
	return err
}

// newPanel creates a plot with the shared panel look
func newPanel(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.Padding = vg.Millimeter

	grid := plotter.NewGrid()
	grid.Vertical.Color = color.Gray{Y: 220}
	grid.Horizontal.Color = color.Gray{Y: 220}
	grid.Vertical.Width = 0
	p.Add(grid)

	return p
}

// capacityAxis labels the X axis with capacities at 0..n-1
func capacityAxis(p *plot.Plot, capacities []domain.Capacity) {
	names := make([]string, len(capacities))
	for i, c := range capacities {
		names[i] = c.Label
	}
	p.NominalX(names...)
	p.X.Min = -0.5
	p.X.Max = float64(len(capacities)) - 0.5
}

// settle makes the Y range drawable when a panel has no (or flat) data
func settle(p *plot.Plot, headroom float64) {
	if math.IsInf(p.Y.Min, 0) || math.IsNaN(p.Y.Min) {
		p.Y.Min = 0
	}
	if math.IsInf(p.Y.Max, 0) || math.IsNaN(p.Y.Max) || p.Y.Max <= p.Y.Min {
		p.Y.Max = p.Y.Min + 1
		return
	}
	p.Y.Max += (p.Y.Max - p.Y.Min) * headroom
}

// centered puts every label centered above its point
func centered(l *plotter.Labels, offset vg.Length) {
	for i := range l.TextStyle {
		l.TextStyle[i].XAlign = draw.XCenter
		l.TextStyle[i].YAlign = draw.YBottom
		l.TextStyle[i].Font.Size = vg.Points(7)
	}
	l.Offset = vg.Point{Y: offset}
}
