package model

import (
	"maps"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
)

// Weight bounds. Weights must be at least MinWeight so that no factor group
// can sum to zero.
const (
	MinWeight     = 1
	MaxWeight     = 5
	DefaultWeight = 1
)

// Selection maps each factor to the value of its chosen option
type Selection map[types.FactorID]int

// Weights maps each factor to its user assigned importance
type Weights map[types.FactorID]int

// DefaultSelection selects the first listed option of every factor
func DefaultSelection() Selection {
	sel := make(Selection, len(catalog))
	for _, f := range catalog {
		sel[f.ID] = f.Default().Value
	}
	return sel
}

// DefaultWeights assigns DefaultWeight to every factor
func DefaultWeights() Weights {
	w := make(Weights, len(catalog))
	for _, f := range catalog {
		w[f.ID] = DefaultWeight
	}
	return w
}

// Of returns the weight of a factor, falling back to DefaultWeight when unset
func (w Weights) Of(id types.FactorID) int {
	if v, ok := w[id]; ok {
		return v
	}
	return DefaultWeight
}

// Input is a fully formed snapshot of what the user picked
type Input struct {
	Selection Selection
	Weights   Weights
}

// NewInput returns an input with default selections and weights
func NewInput() Input {
	return Input{
		Selection: DefaultSelection(),
		Weights:   DefaultWeights(),
	}
}

// Clone returns a deep copy of the input
func (x Input) Clone() Input {
	return Input{
		Selection: maps.Clone(x.Selection),
		Weights:   maps.Clone(x.Weights),
	}
}

// Validate checks that every catalog factor has a valid selection and that
// every given weight is within [MinWeight, MaxWeight]. Missing weights are
// treated as DefaultWeight.
func (x Input) Validate() error {
	for id := range x.Selection {
		if _, ok := catalogIndex[id]; !ok {
			return goerr.Wrap(ErrUnknownFactor, "selection for unknown factor", goerr.V(FactorIDKey, id))
		}
	}
	for id, w := range x.Weights {
		if _, ok := catalogIndex[id]; !ok {
			return goerr.Wrap(ErrUnknownFactor, "weight for unknown factor", goerr.V(FactorIDKey, id))
		}
		if w < MinWeight || w > MaxWeight {
			return goerr.Wrap(ErrInvalidWeight, "weight out of range",
				goerr.V(FactorIDKey, id), goerr.V(WeightKey, w))
		}
	}

	for i := range catalog {
		f := &catalog[i]
		v, ok := x.Selection[f.ID]
		if !ok {
			return goerr.Wrap(ErrMissingSelection, "selection not provided", goerr.V(FactorIDKey, f.ID))
		}
		if _, ok := f.Option(v); !ok {
			return goerr.Wrap(ErrInvalidOption, "selected value is not an option",
				goerr.V(FactorIDKey, f.ID), goerr.V(ValueKey, v))
		}
	}

	return nil
}
