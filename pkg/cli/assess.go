package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/cli/config"
	"github.com/secmon-lab/owasprisk/pkg/repository/memory"
	"github.com/secmon-lab/owasprisk/pkg/usecase"
	"github.com/secmon-lab/owasprisk/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdAssess() *cli.Command {
	var scenarioPath string
	var outputPath string
	var format string
	var profileCfg config.Profile

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "scenario",
			Aliases:     []string{"f"},
			Usage:       "TOML scenario file; factors left out keep their default option",
			Destination: &scenarioPath,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Write the PDF report to this path",
			Destination: &outputPath,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "Result format (table, json)",
			Value:       "table",
			Destination: &format,
		},
	}
	flags = append(flags, profileCfg.Flags()...)

	return &cli.Command{
		Name:    "assess",
		Aliases: []string{"a"},
		Usage:   "Score a scenario and print the result",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			weights, err := profileCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load weight profile")
			}

			uc := usecase.New(memory.New(), usecase.WithDefaultWeights(weights))
			input := uc.Assessment.DefaultInput()

			if scenarioPath != "" {
				scenario, err := config.LoadScenario(scenarioPath)
				if err != nil {
					return err
				}
				input = scenario.ToInput(input)
				logging.Default().Debug("Scenario loaded", "name", scenario.Name, "path", scenarioPath)
			}

			eval, err := uc.Assessment.Evaluate(input)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			if w == nil {
				w = os.Stdout
			}
			switch format {
			case "table":
				if err := printEvaluation(w, eval); err != nil {
					return err
				}
			case "json":
				if err := printEvaluationJSON(w, eval); err != nil {
					return err
				}
			default:
				return goerr.New("unsupported output format", goerr.V("format", format))
			}

			if outputPath != "" {
				data, err := uc.Assessment.Report(ctx, nil, input)
				if err != nil {
					return err
				}
				if err := os.WriteFile(outputPath, data, 0600); err != nil {
					return goerr.Wrap(err, "failed to write report", goerr.V("path", outputPath))
				}
				logging.Default().Info("Report written", "path", outputPath, "bytes", len(data))
			}

			return nil
		},
	}
}

func cmdFactors() *cli.Command {
	return &cli.Command{
		Name:  "factors",
		Usage: "List risk factors and their option values",
		Action: func(ctx context.Context, c *cli.Command) error {
			w := c.Root().Writer
			if w == nil {
				w = os.Stdout
			}
			return printFactors(w)
		},
	}
}
