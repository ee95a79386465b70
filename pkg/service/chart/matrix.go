package chart

import (
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const matrixMax = 10.0

// MarkerRadius is the radius of the current assessment marker, which grows
// with severity.
func MarkerRadius(severity float64) vg.Length {
	return vg.Points(math.Max(3, severity*5/2))
}

// Matrix renders likelihood against impact. History entries are drawn as
// small markers under the current evaluation.
func Matrix(eval *model.Evaluation, history []*model.Assessment) ([]byte, error) {
	if eval == nil || eval.Score == nil {
		return nil, goerr.New("evaluation is required")
	}

	p := plot.New()
	p.Title.Text = "Risk Matrix"
	p.X.Label.Text = "Likelihood"
	p.Y.Label.Text = "Impact"
	p.X.Min, p.X.Max = 0, matrixMax
	p.Y.Min, p.Y.Max = 0, matrixMax
	p.Add(plotter.NewGrid())

	for _, th := range []float64{types.MediumThreshold, types.HighThreshold} {
		for _, seg := range []plotter.XYs{
			{{X: th, Y: 0}, {X: th, Y: matrixMax}},
			{{X: 0, Y: th}, {X: matrixMax, Y: th}},
		} {
			line, err := plotter.NewLine(seg)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to create threshold line")
			}
			line.Color = colorGrid
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
			p.Add(line)
		}
	}

	if len(history) > 0 {
		past := make(plotter.XYs, len(history))
		for i, a := range history {
			past[i] = plotter.XY{X: a.Likelihood, Y: a.Impact}
		}
		scatter, err := plotter.NewScatter(past)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create history points")
		}
		scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			return draw.GlyphStyle{
				Color:  colorPast,
				Radius: vg.Points(3),
				Shape:  draw.CircleGlyph{},
			}
		}
		p.Add(scatter)
		p.Legend.Add("History", scatter)
	}

	current, err := plotter.NewScatter(plotter.XYs{{X: eval.Score.Likelihood, Y: eval.Score.Impact}})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create current point")
	}
	current.GlyphStyle = draw.GlyphStyle{
		Color:  LevelColor(eval.SeverityLevel),
		Radius: MarkerRadius(eval.Score.Severity),
		Shape:  draw.CircleGlyph{},
	}
	p.Add(current)
	p.Legend.Add("Current", current)
	p.Legend.Top = true

	return renderPNG(p)
}
