package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
)

// Score is the output of the score engine.
//
// WeightedScores are raw value*weight products and are not renormalised.
// Likelihood and Impact are weighted averages within their group, so they
// stay on the 0-9 scale. The two are different statistics and both are kept.
type Score struct {
	Scores         []int
	WeightedScores []int
	Likelihood     float64
	Impact         float64
	Severity       float64
}

// LikelihoodLevel classifies the likelihood
func (s *Score) LikelihoodLevel() types.RiskLevel {
	return types.Classify(s.Likelihood)
}

// ImpactLevel classifies the impact
func (s *Score) ImpactLevel() types.RiskLevel {
	return types.Classify(s.Impact)
}

// SeverityLevel classifies the severity
func (s *Score) SeverityLevel() types.RiskLevel {
	return types.Classify(s.Severity)
}

// Calculate runs the score engine over a validated input. It is a pure
// function and recomputes everything from scratch on each call.
func Calculate(input Input) (*Score, error) {
	if err := input.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid input")
	}

	n := len(catalog)
	scores := make([]int, n)
	weighted := make([]int, n)
	weights := make([]int, n)
	for i, f := range catalog {
		scores[i] = input.Selection[f.ID]
		weights[i] = input.Weights.Of(f.ID)
		weighted[i] = scores[i] * weights[i]
	}

	likelihood, err := weightedAverage(scores[:GroupSize], weights[:GroupSize])
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compute likelihood", goerr.V(GroupKey, types.FactorGroupLikelihood))
	}
	impact, err := weightedAverage(scores[GroupSize:], weights[GroupSize:])
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compute impact", goerr.V(GroupKey, types.FactorGroupImpact))
	}

	return &Score{
		Scores:         scores,
		WeightedScores: weighted,
		Likelihood:     likelihood,
		Impact:         impact,
		Severity:       (likelihood + impact) / 2,
	}, nil
}

// weightedAverage returns Σ(value·weight) / Σ(weight). A zero weight sum is
// rejected rather than divided by.
func weightedAverage(values, weights []int) (float64, error) {
	var sum, total int
	for i := range values {
		sum += values[i] * weights[i]
		total += weights[i]
	}
	if total == 0 {
		return 0, goerr.Wrap(ErrZeroWeight, "cannot average with zero total weight")
	}
	return float64(sum) / float64(total), nil
}
