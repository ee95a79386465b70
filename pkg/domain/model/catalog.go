package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
)

// Option is one selectable answer of a factor
type Option struct {
	Label string
	Value int
}

// Factor is one risk contributing attribute together with its ordered options
type Factor struct {
	ID      types.FactorID
	Name    string
	Group   types.FactorGroup
	Options []Option
}

// Option returns the option having value v
func (f *Factor) Option(v int) (Option, bool) {
	for _, opt := range f.Options {
		if opt.Value == v {
			return opt, true
		}
	}
	return Option{}, false
}

// Default returns the first listed option
func (f *Factor) Default() Option {
	return f.Options[0]
}

// Lowest returns the option with the smallest value
func (f *Factor) Lowest() Option {
	lowest := f.Options[0]
	for _, opt := range f.Options[1:] {
		if opt.Value < lowest.Value {
			lowest = opt
		}
	}
	return lowest
}

// Highest returns the option with the largest value
func (f *Factor) Highest() Option {
	highest := f.Options[0]
	for _, opt := range f.Options[1:] {
		if opt.Value > highest.Value {
			highest = opt
		}
	}
	return highest
}

// ErrUnknownFactor is returned when a factor ID is not part of the catalog
var ErrUnknownFactor = goerr.New("unknown factor")

// GroupSize is the number of factors in each of the likelihood and impact groups
const GroupSize = 8

var catalog = []Factor{
	// Threat agent factors
	{ID: "skill-level", Name: "Skill level", Group: types.FactorGroupLikelihood, Options: []Option{
		{"No skills (1)", 1}, {"Some skills (3)", 3}, {"Advanced user (6)", 6}, {"Pentester (9)", 9},
	}},
	{ID: "motive", Name: "Motive", Group: types.FactorGroupLikelihood, Options: []Option{
		{"Low/None (1)", 1}, {"Possible reward (4)", 4}, {"High reward (9)", 9},
	}},
	{ID: "opportunity", Name: "Opportunity", Group: types.FactorGroupLikelihood, Options: []Option{
		{"No access (0)", 0}, {"Some access (4)", 4}, {"Full access (9)", 9},
	}},
	{ID: "size", Name: "Size", Group: types.FactorGroupLikelihood, Options: []Option{
		{"Dev/Admin (2)", 2}, {"Internal (4)", 4}, {"Partners (6)", 6}, {"Public Users (9)", 9},
	}},

	// Vulnerability factors
	{ID: "ease-of-discovery", Name: "Ease of discovery", Group: types.FactorGroupLikelihood, Options: []Option{
		{"Impossible (1)", 1}, {"Difficult (3)", 3}, {"Automated tools (9)", 9},
	}},
	{ID: "ease-of-exploit", Name: "Ease of exploit", Group: types.FactorGroupLikelihood, Options: []Option{
		{"Theoretical (1)", 1}, {"Difficult (3)", 3}, {"Easy (9)", 9},
	}},
	{ID: "awareness", Name: "Awareness", Group: types.FactorGroupLikelihood, Options: []Option{
		{"Unknown (1)", 1}, {"Hidden (4)", 4}, {"Well-known (9)", 9},
	}},
	{ID: "intrusion-detection", Name: "Intrusion detection", Group: types.FactorGroupLikelihood, Options: []Option{
		{"Always detected (1)", 1}, {"Sometimes (4)", 4}, {"Never (9)", 9},
	}},

	// Technical and business impact factors
	{ID: "loss-of-confidentiality", Name: "Loss of confidentiality", Group: types.FactorGroupImpact, Options: []Option{
		{"Minimal (1)", 1}, {"Some data (5)", 5}, {"All data (9)", 9},
	}},
	{ID: "loss-of-integrity", Name: "Loss of integrity", Group: types.FactorGroupImpact, Options: []Option{
		{"Minimal (1)", 1}, {"Serious (5)", 5}, {"Total (9)", 9},
	}},
	{ID: "loss-of-availability", Name: "Loss of availability", Group: types.FactorGroupImpact, Options: []Option{
		{"Minimal (1)", 1}, {"Secondary (5)", 5}, {"All services (9)", 9},
	}},
	{ID: "loss-of-accountability", Name: "Loss of accountability", Group: types.FactorGroupImpact, Options: []Option{
		{"Traceable (1)", 1}, {"Possibly traceable (5)", 5}, {"Anonymous (9)", 9},
	}},
	{ID: "financial-damage", Name: "Financial damage", Group: types.FactorGroupImpact, Options: []Option{
		{"< Fix cost (1)", 1}, {"Significant (5)", 5}, {"Catastrophic (9)", 9},
	}},
	{ID: "reputation-damage", Name: "Reputation damage", Group: types.FactorGroupImpact, Options: []Option{
		{"Minimal (1)", 1}, {"Goodwill loss (5)", 5}, {"Brand damage (9)", 9},
	}},
	{ID: "non-compliance", Name: "Non-compliance", Group: types.FactorGroupImpact, Options: []Option{
		{"Minor (1)", 1}, {"Violation (5)", 5}, {"High violation (9)", 9},
	}},
	{ID: "privacy-violation", Name: "Privacy violation", Group: types.FactorGroupImpact, Options: []Option{
		{"One user (1)", 1}, {"Hundreds (5)", 5}, {"Millions (9)", 9},
	}},
}

var catalogIndex = func() map[types.FactorID]int {
	idx := make(map[types.FactorID]int, len(catalog))
	for i, f := range catalog {
		idx[f.ID] = i
	}
	return idx
}()

// Factors returns the 16 catalog factors in catalog order. The first
// GroupSize factors form the likelihood group, the rest the impact group.
func Factors() []Factor {
	result := make([]Factor, len(catalog))
	copy(result, catalog)
	return result
}

// LikelihoodFactors returns the threat agent and vulnerability factors
func LikelihoodFactors() []Factor {
	return Factors()[:GroupSize]
}

// ImpactFactors returns the technical and business impact factors
func ImpactFactors() []Factor {
	return Factors()[GroupSize:]
}

// LookupFactor returns the catalog factor with the given ID
func LookupFactor(id types.FactorID) (*Factor, error) {
	i, ok := catalogIndex[id]
	if !ok {
		return nil, goerr.Wrap(ErrUnknownFactor, "factor is not in catalog", goerr.V(FactorIDKey, id))
	}
	f := catalog[i]
	return &f, nil
}
