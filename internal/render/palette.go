package render

import (
	"image/color"

	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/vg/draw"

	"github.com/vburojevic/eccstat/internal/domain"
)

var (
	colorNoECC    = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	colorSECDED   = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	colorChipKill = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}

	// Stacked bars
	colorCE  = color.RGBA{R: 0xad, G: 0xd8, B: 0xe6, A: 0xff}
	colorUE  = color.RGBA{R: 0xff, G: 0xa5, B: 0x00, A: 0xff}
	colorSDC = color.RGBA{R: 0xe0, G: 0x20, B: 0x20, A: 0xff}
)

// extraColors serves ECC types outside the canonical three
var extraColors = func() []color.Color {
	p, err := brewer.GetPalette(brewer.TypeQualitative, "Dark2", 8)
	if err != nil {
		return []color.Color{color.Gray{Y: 0x60}}
	}
	return p.Colors()
}()

// eccColor returns the series color of an ECC type; idx is its position in
// the grid and picks a palette color for unknown types
func eccColor(ecc domain.ECCType, idx int) color.Color {
	switch ecc {
	case domain.ECCNone:
		return colorNoECC
	case domain.ECCSECDED:
		return colorSECDED
	case domain.ECCChipKill:
		return colorChipKill
	default:
		return extraColors[idx%len(extraColors)]
	}
}

var glyphs = []draw.GlyphDrawer{
	draw.CircleGlyph{},
	draw.SquareGlyph{},
	draw.PyramidGlyph{},
	draw.BoxGlyph{},
	draw.RingGlyph{},
	draw.CrossGlyph{},
	draw.PlusGlyph{},
}

// marker returns a glyph per metric panel so panels differ in print
func marker(i int) draw.GlyphDrawer {
	return glyphs[i%len(glyphs)]
}
