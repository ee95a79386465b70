package chart_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
	"github.com/secmon-lab/owasprisk/pkg/service/chart"
	"gonum.org/v1/plot/vg"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func evaluate(t *testing.T, input model.Input) *model.Evaluation {
	t.Helper()
	eval, err := model.Evaluate(input)
	gt.NoError(t, err).Required()
	return eval
}

func maxInput() model.Input {
	input := model.NewInput()
	for _, f := range model.Factors() {
		input.Selection[f.ID] = f.Highest().Value
		input.Weights[f.ID] = model.MaxWeight
	}
	return input
}

func TestRadar(t *testing.T) {
	t.Run("renders PNG for default input", func(t *testing.T) {
		data, err := chart.Radar(evaluate(t, model.NewInput()))
		gt.NoError(t, err).Required()
		gt.Bool(t, bytes.HasPrefix(data, pngMagic)).True()
	})

	t.Run("renders PNG for maximum weights", func(t *testing.T) {
		data, err := chart.Radar(evaluate(t, maxInput()))
		gt.NoError(t, err).Required()
		gt.Bool(t, bytes.HasPrefix(data, pngMagic)).True()
	})

	t.Run("nil evaluation is rejected", func(t *testing.T) {
		_, err := chart.Radar(nil)
		gt.Error(t, err)
	})
}

func TestRadarRange(t *testing.T) {
	gt.Value(t, chart.RadarRange([]int{1, 2, 9})).Equal(10.0)
	gt.Value(t, chart.RadarRange([]int{1, 45, 9})).Equal(45.0)
	gt.Value(t, chart.RadarRange(nil)).Equal(10.0)
}

func TestMatrix(t *testing.T) {
	t.Run("renders PNG without history", func(t *testing.T) {
		data, err := chart.Matrix(evaluate(t, model.NewInput()), nil)
		gt.NoError(t, err).Required()
		gt.Bool(t, bytes.HasPrefix(data, pngMagic)).True()
	})

	t.Run("renders PNG with history", func(t *testing.T) {
		sessionID := types.NewSessionID()
		low := evaluate(t, model.NewInput())
		high := evaluate(t, maxInput())
		history := []*model.Assessment{
			model.NewAssessment(sessionID, low, time.Now()),
			model.NewAssessment(sessionID, high, time.Now()),
		}

		data, err := chart.Matrix(high, history)
		gt.NoError(t, err).Required()
		gt.Bool(t, bytes.HasPrefix(data, pngMagic)).True()
	})
}

func TestMarkerRadius(t *testing.T) {
	gt.Value(t, chart.MarkerRadius(0)).Equal(vg.Points(3))
	gt.Value(t, chart.MarkerRadius(9)).Equal(vg.Points(22.5))
}

func TestLevelColor(t *testing.T) {
	gt.Value(t, chart.LevelColor(types.RiskLevelLow)).NotEqual(chart.LevelColor(types.RiskLevelHigh))
	gt.Value(t, chart.LevelColor(types.RiskLevelMedium)).NotEqual(chart.LevelColor(types.RiskLevelHigh))
}
