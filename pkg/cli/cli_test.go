package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/owasprisk/pkg/cli"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
)

func init() {
	color.NoColor = true
}

func evaluate(t *testing.T, input model.Input) *model.Evaluation {
	t.Helper()
	eval, err := model.Evaluate(input)
	gt.NoError(t, err).Required()
	return eval
}

func TestPrintEvaluation(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, cli.PrintEvaluation(&buf, evaluate(t, model.NewInput()))).Required()

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	gt.String(t, lines[0]).HasPrefix("FACTOR")
	gt.String(t, out).Contains("Skill level")
	gt.String(t, out).Contains("Severity:")
	gt.String(t, out).Contains("Low Risk")
	gt.Number(t, len(lines)).GreaterOrEqual(17)
}

func TestPrintEvaluationJSON(t *testing.T) {
	input := model.NewInput()
	for _, f := range model.Factors() {
		input.Selection[f.ID] = f.Highest().Value
	}

	var buf bytes.Buffer
	gt.NoError(t, cli.PrintEvaluationJSON(&buf, evaluate(t, input))).Required()

	var result struct {
		Severity        float64           `json:"severity"`
		SeverityLevel   string            `json:"severity_level"`
		Recommendations map[string]string `json:"recommendations"`
	}
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &result)).Required()
	gt.Value(t, result.Severity).Equal(9.0)
	gt.Value(t, result.SeverityLevel).Equal("HIGH")
	gt.Value(t, len(result.Recommendations)).Equal(16)
	gt.String(t, result.Recommendations["skill-level"]).HasPrefix("(HIGH) ")
}

func TestPrintFactors(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, cli.PrintFactors(&buf)).Required()
	gt.String(t, buf.String()).Contains("skill-level")
	gt.String(t, buf.String()).Contains("9=Pentester (9)")
}

func TestGetIndexConfig(t *testing.T) {
	cfg := cli.GetIndexConfig()
	gt.Array(t, cfg.Collections).Length(1)
	gt.Value(t, cfg.Collections[0].Name).Equal("assessments")
}

func TestAssessCommand(t *testing.T) {
	dir := t.TempDir()
	scenario := filepath.Join(dir, "scenario.toml")
	gt.NoError(t, os.WriteFile(scenario, []byte(`
name = "test"
[selection]
skill-level = 9
`), 0600)).Required()
	output := filepath.Join(dir, "report.pdf")

	err := cli.Run(context.Background(), []string{
		"owasprisk", "--log-output", "stderr", "--log-level", "error",
		"assess", "--scenario", scenario, "--output", output, "--format", "json",
	}, "test")
	gt.NoError(t, err).Required()

	data, err := os.ReadFile(output)
	gt.NoError(t, err).Required()
	gt.Bool(t, bytes.HasPrefix(data, []byte("%PDF-"))).True()
}

func TestAssessCommandRejectsInvalidScenario(t *testing.T) {
	scenario := filepath.Join(t.TempDir(), "scenario.toml")
	gt.NoError(t, os.WriteFile(scenario, []byte("[weights]\nskill-level = 0\n"), 0600)).Required()

	err := cli.Run(context.Background(), []string{
		"owasprisk", "--log-output", "stderr", "--log-level", "error",
		"assess", "--scenario", scenario,
	}, "test")
	gt.Error(t, err).Is(model.ErrInvalidWeight)
}
