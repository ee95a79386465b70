package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
)

// Form field prefixes. A field is named "<prefix><factor id>".
const (
	factorFieldPrefix = "factor."
	weightFieldPrefix = "weight."
)

// parseInput overlays the factor and weight fields of a form or query
// string onto base. Fields naming factors outside the catalog and values
// that are not integers are rejected; range checks are left to the score
// engine.
func parseInput(values url.Values, base model.Input) (model.Input, error) {
	input := base.Clone()
	if input.Selection == nil {
		input.Selection = model.Selection{}
	}
	if input.Weights == nil {
		input.Weights = model.Weights{}
	}

	for key, vs := range values {
		if len(vs) == 0 {
			continue
		}

		var (
			id       types.FactorID
			isWeight bool
		)
		switch {
		case strings.HasPrefix(key, factorFieldPrefix):
			id = types.FactorID(strings.TrimPrefix(key, factorFieldPrefix))
		case strings.HasPrefix(key, weightFieldPrefix):
			id = types.FactorID(strings.TrimPrefix(key, weightFieldPrefix))
			isWeight = true
		default:
			continue
		}

		if _, err := model.LookupFactor(id); err != nil {
			return model.Input{}, err
		}

		n, err := strconv.Atoi(strings.TrimSpace(vs[0]))
		if isWeight {
			if err != nil {
				return model.Input{}, goerr.Wrap(model.ErrInvalidWeight, "weight is not an integer",
					goerr.V(model.FactorIDKey, id), goerr.V(model.WeightKey, vs[0]))
			}
			input.Weights[id] = n
		} else {
			if err != nil {
				return model.Input{}, goerr.Wrap(model.ErrInvalidOption, "selection is not an integer",
					goerr.V(model.FactorIDKey, id), goerr.V(model.ValueKey, vs[0]))
			}
			input.Selection[id] = n
		}
	}

	return input, nil
}

// requestInput parses the input of a request, starting from the default
// input of a fresh form
func (s *Server) requestInput(r *http.Request) (model.Input, error) {
	if err := r.ParseForm(); err != nil {
		return model.Input{}, goerr.Wrap(errBadRequest, "failed to parse form", goerr.V("cause", err.Error()))
	}
	return parseInput(r.Form, s.assessmentUC.DefaultInput())
}

// encodeInput is the inverse of parseInput; its output is stable so that
// identical inputs give identical chart and report URLs
func encodeInput(input model.Input) string {
	values := url.Values{}
	for _, f := range model.Factors() {
		if v, ok := input.Selection[f.ID]; ok {
			values.Set(factorFieldPrefix+f.ID.String(), strconv.Itoa(v))
		}
		values.Set(weightFieldPrefix+f.ID.String(), strconv.Itoa(input.Weights.Of(f.ID)))
	}
	return values.Encode()
}
