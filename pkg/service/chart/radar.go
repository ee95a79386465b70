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

const radarRings = 4

// RadarRange returns the radial upper bound: at least 10, widened to the
// largest weighted score.
func RadarRange(weighted []int) float64 {
	r := 10.0
	for _, w := range weighted {
		r = math.Max(r, float64(w))
	}
	return r
}

// spoke returns the point at radius r on the i-th of n spokes, starting at
// twelve o'clock and running clockwise.
func spoke(i, n int, r float64) plotter.XY {
	theta := math.Pi/2 - 2*math.Pi*float64(i)/float64(n)
	return plotter.XY{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// Radar renders the weighted score of every factor on its own spoke.
func Radar(eval *model.Evaluation) ([]byte, error) {
	if eval == nil || len(eval.Factors) == 0 {
		return nil, goerr.New("evaluation is required")
	}

	n := len(eval.Factors)
	weighted := make([]int, n)
	for i, row := range eval.Factors {
		weighted[i] = row.WeightedScore
	}
	rMax := RadarRange(weighted)

	p := plot.New()
	p.Title.Text = "Weighted Factor Scores"
	p.HideAxes()
	p.X.Min, p.X.Max = -1.35*rMax, 1.35*rMax
	p.Y.Min, p.Y.Max = -1.25*rMax, 1.25*rMax

	for k := 1; k <= radarRings; k++ {
		r := rMax * float64(k) / radarRings
		ring := make(plotter.XYs, n+1)
		for i := 0; i <= n; i++ {
			ring[i] = spoke(i%n, n, r)
		}
		line, err := plotter.NewLine(ring)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create radar ring")
		}
		line.Color = colorGrid
		p.Add(line)
	}

	labelPts := make(plotter.XYs, n)
	names := make([]string, n)
	for i, row := range eval.Factors {
		axis, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, spoke(i, n, rMax)})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create radar axis")
		}
		axis.Color = colorGrid
		p.Add(axis)

		labelPts[i] = spoke(i, n, rMax*1.12)
		names[i] = row.Factor.Name
	}

	pts := make(plotter.XYs, n)
	for i, w := range weighted {
		pts[i] = spoke(i, n, float64(w))
	}

	area, err := plotter.NewPolygon(pts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create radar polygon")
	}
	area.Color = colorFill
	area.LineStyle.Color = colorEdge
	area.LineStyle.Width = vg.Points(1.5)
	p.Add(area)

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create radar points")
	}
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  LevelColor(types.Classify(float64(weighted[i]))),
			Radius: vg.Points(4),
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(scatter)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: labelPts, Labels: names})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create radar labels")
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)

	return renderPNG(p)
}
