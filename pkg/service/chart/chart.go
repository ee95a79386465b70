package chart

import (
	"bytes"
	"image/color"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ContentType is the MIME type of rendered charts
const ContentType = "image/png"

const (
	width  = 6 * vg.Inch
	height = 6 * vg.Inch
)

var (
	colorLow    = color.RGBA{R: 0x2e, G: 0xa0, B: 0x43, A: 0xff}
	colorMedium = color.RGBA{R: 0xe3, G: 0xb3, B: 0x41, A: 0xff}
	colorHigh   = color.RGBA{R: 0xda, G: 0x36, B: 0x33, A: 0xff}
	colorGrid   = color.RGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff}
	colorFill   = color.RGBA{R: 0x1f, G: 0x6f, B: 0xeb, A: 0x40}
	colorEdge   = color.RGBA{R: 0x1f, G: 0x6f, B: 0xeb, A: 0xff}
	colorPast   = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xa0}
)

// LevelColor maps a risk level to its chart colour
func LevelColor(level types.RiskLevel) color.Color {
	switch level {
	case types.RiskLevelMedium:
		return colorMedium
	case types.RiskLevelHigh:
		return colorHigh
	default:
		return colorLow
	}
}

func renderPNG(p *plot.Plot) ([]byte, error) {
	canvas := vgimg.New(width, height)
	dc := draw.New(canvas)
	p.Draw(dc)

	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: canvas}
	if _, err := png.WriteTo(&buf); err != nil {
		return nil, goerr.Wrap(err, "failed to encode chart")
	}
	return buf.Bytes(), nil
}
