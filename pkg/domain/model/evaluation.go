package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
)

// FactorResult is one row of the risk table
type FactorResult struct {
	Factor         Factor
	Selected       Option
	Weight         int
	Score          int
	WeightedScore  int
	Level          types.RiskLevel
	Recommendation string
}

// Evaluation bundles the score engine output with everything the
// presentation layers render: per factor rows, levels and guidance.
type Evaluation struct {
	Input           Input
	Score           *Score
	Factors         []FactorResult
	LikelihoodLevel types.RiskLevel
	ImpactLevel     types.RiskLevel
	SeverityLevel   types.RiskLevel
	Overall         string
}

// Evaluate validates the input, runs the score engine and derives the
// factor table. Factor levels classify the weighted score of each factor.
func Evaluate(input Input) (*Evaluation, error) {
	score, err := Calculate(input)
	if err != nil {
		return nil, err
	}

	rows := make([]FactorResult, len(catalog))
	for i, f := range catalog {
		selected, ok := f.Option(score.Scores[i])
		if !ok {
			return nil, goerr.Wrap(ErrInvalidOption, "selected value is not an option",
				goerr.V(FactorIDKey, f.ID), goerr.V(ValueKey, score.Scores[i]))
		}
		level := types.Classify(float64(score.WeightedScores[i]))
		rows[i] = FactorResult{
			Factor:         f,
			Selected:       selected,
			Weight:         input.Weights.Of(f.ID),
			Score:          score.Scores[i],
			WeightedScore:  score.WeightedScores[i],
			Level:          level,
			Recommendation: Recommend(f.Name, level),
		}
	}

	return &Evaluation{
		Input:           input.Clone(),
		Score:           score,
		Factors:         rows,
		LikelihoodLevel: score.LikelihoodLevel(),
		ImpactLevel:     score.ImpactLevel(),
		SeverityLevel:   score.SeverityLevel(),
		Overall:         OverallRecommendation(score.SeverityLevel()),
	}, nil
}
