package http_test

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/owasprisk/pkg/controller/http"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
)

func TestParseInput(t *testing.T) {
	first := model.LikelihoodFactors()[0]

	t.Run("fields overlay the base input", func(t *testing.T) {
		values := url.Values{}
		values.Set("factor."+first.ID.String(), "9")
		values.Set("weight."+first.ID.String(), " 3 ")
		values.Set("unrelated", "x")

		input, err := httpctrl.ParseInput(values, model.NewInput())
		gt.NoError(t, err).Required()
		gt.Value(t, input.Selection[first.ID]).Equal(9)
		gt.Value(t, input.Weights[first.ID]).Equal(3)
		gt.Value(t, len(input.Selection)).Equal(16)
	})

	t.Run("base input is not modified", func(t *testing.T) {
		base := model.NewInput()
		values := url.Values{"factor." + first.ID.String(): {"9"}}
		_, err := httpctrl.ParseInput(values, base)
		gt.NoError(t, err).Required()
		gt.Value(t, base.Selection[first.ID]).Equal(first.Default().Value)
	})

	t.Run("unknown factor is rejected", func(t *testing.T) {
		values := url.Values{"factor.no-such-factor": {"1"}}
		_, err := httpctrl.ParseInput(values, model.NewInput())
		gt.Error(t, err).Is(model.ErrUnknownFactor)
	})

	t.Run("non integer selection is rejected", func(t *testing.T) {
		values := url.Values{"factor." + first.ID.String(): {"high"}}
		_, err := httpctrl.ParseInput(values, model.NewInput())
		gt.Error(t, err).Is(model.ErrInvalidOption)
	})

	t.Run("non integer weight is rejected", func(t *testing.T) {
		values := url.Values{"weight." + first.ID.String(): {"1.5"}}
		_, err := httpctrl.ParseInput(values, model.NewInput())
		gt.Error(t, err).Is(model.ErrInvalidWeight)
	})

	t.Run("out of range values pass through to validation", func(t *testing.T) {
		values := url.Values{"weight." + first.ID.String(): {"6"}}
		input, err := httpctrl.ParseInput(values, model.NewInput())
		gt.NoError(t, err).Required()
		gt.Error(t, input.Validate()).Is(model.ErrInvalidWeight)
	})
}

func TestEncodeInputRoundTrip(t *testing.T) {
	input := model.NewInput()
	for _, f := range model.ImpactFactors() {
		input.Selection[f.ID] = f.Highest().Value
		input.Weights[f.ID] = 4
	}

	encoded := httpctrl.EncodeInput(input)
	values, err := url.ParseQuery(encoded)
	gt.NoError(t, err).Required()

	decoded, err := httpctrl.ParseInput(values, model.Input{})
	gt.NoError(t, err).Required()
	gt.Value(t, decoded.Selection).Equal(input.Selection)
	gt.Value(t, decoded.Weights).Equal(input.Weights)
	gt.Value(t, httpctrl.EncodeInput(decoded)).Equal(encoded)
}

func TestStatusOf(t *testing.T) {
	gt.Value(t, httpctrl.StatusOf(goerr.Wrap(model.ErrInvalidWeight, "x"))).Equal(http.StatusBadRequest)
	gt.Value(t, httpctrl.StatusOf(goerr.Wrap(model.ErrUnknownFactor, "x"))).Equal(http.StatusBadRequest)
	gt.Value(t, httpctrl.StatusOf(errors.New("backend down"))).Equal(http.StatusInternalServerError)
}
