package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
)

var levelColors = map[types.RiskLevel]*color.Color{
	types.RiskLevelLow:    color.New(color.FgGreen),
	types.RiskLevelMedium: color.New(color.FgYellow),
	types.RiskLevelHigh:   color.New(color.FgRed, color.Bold),
}

func colorLevel(level types.RiskLevel) string {
	if c, ok := levelColors[level]; ok {
		return c.Sprint(level.String())
	}
	return level.String()
}

// printEvaluation writes the risk table followed by the summary. The level
// column is last so that colour codes do not disturb the alignment.
func printEvaluation(w io.Writer, eval *model.Evaluation) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FACTOR\tSELECTION\tSCORE\tWEIGHT\tWEIGHTED\tLEVEL")
	for _, row := range eval.Factors {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			row.Factor.Name, row.Selected.Label, row.Score, row.Weight, row.WeightedScore, colorLevel(row.Level))
	}
	if err := tw.Flush(); err != nil {
		return goerr.Wrap(err, "failed to write risk table")
	}

	bold := color.New(color.Bold)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %.2f %s\n", bold.Sprint("Likelihood:"), eval.Score.Likelihood, colorLevel(eval.LikelihoodLevel))
	fmt.Fprintf(w, "%s %.2f %s\n", bold.Sprint("Impact:    "), eval.Score.Impact, colorLevel(eval.ImpactLevel))
	fmt.Fprintf(w, "%s %.2f %s\n", bold.Sprint("Severity:  "), eval.Score.Severity, colorLevel(eval.SeverityLevel))
	fmt.Fprintln(w)
	fmt.Fprintln(w, eval.Overall)

	return nil
}

type jsonResult struct {
	Likelihood      float64           `json:"likelihood"`
	Impact          float64           `json:"impact"`
	Severity        float64           `json:"severity"`
	LikelihoodLevel types.RiskLevel   `json:"likelihood_level"`
	ImpactLevel     types.RiskLevel   `json:"impact_level"`
	SeverityLevel   types.RiskLevel   `json:"severity_level"`
	Overall         string            `json:"overall"`
	Scores          []int             `json:"scores"`
	WeightedScores  []int             `json:"weighted_scores"`
	Recommendations map[string]string `json:"recommendations"`
}

func printEvaluationJSON(w io.Writer, eval *model.Evaluation) error {
	result := jsonResult{
		Likelihood:      eval.Score.Likelihood,
		Impact:          eval.Score.Impact,
		Severity:        eval.Score.Severity,
		LikelihoodLevel: eval.LikelihoodLevel,
		ImpactLevel:     eval.ImpactLevel,
		SeverityLevel:   eval.SeverityLevel,
		Overall:         eval.Overall,
		Scores:          eval.Score.Scores,
		WeightedScores:  eval.Score.WeightedScores,
		Recommendations: make(map[string]string, len(eval.Factors)),
	}
	for _, row := range eval.Factors {
		result.Recommendations[row.Factor.ID.String()] = row.Recommendation
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return goerr.Wrap(err, "failed to encode result")
	}
	return nil
}

// printFactors lists the catalog with the value of every option
func printFactors(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tGROUP\tNAME\tOPTIONS")
	for _, f := range model.Factors() {
		opts := ""
		for i, opt := range f.Options {
			if i > 0 {
				opts += ", "
			}
			opts += fmt.Sprintf("%d=%s", opt.Value, opt.Label)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.Group, f.Name, opts)
	}
	if err := tw.Flush(); err != nil {
		return goerr.Wrap(err, "failed to write factor table")
	}
	return nil
}
