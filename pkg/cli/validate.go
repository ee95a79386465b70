package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/cli/config"
	"github.com/secmon-lab/owasprisk/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var profilePath string
	var scenarioPaths []string

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate weight profile and scenario files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "weight-profile",
				Usage:       "Weight profile to validate",
				Sources:     cli.EnvVars("OWASPRISK_WEIGHT_PROFILE"),
				Destination: &profilePath,
			},
			&cli.StringSliceFlag{
				Name:        "scenario",
				Aliases:     []string{"f"},
				Usage:       "Scenario file to validate (repeatable)",
				Destination: &scenarioPaths,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			if profilePath == "" && len(scenarioPaths) == 0 {
				return goerr.New("nothing to validate, give --weight-profile or --scenario")
			}

			if profilePath != "" {
				profile, err := config.LoadWeightProfile(profilePath)
				if err != nil {
					return err
				}
				logger.Info("Weight profile is valid", "path", profilePath, "weights", len(profile.Weights))
			}

			for _, path := range scenarioPaths {
				scenario, err := config.LoadScenario(path)
				if err != nil {
					return err
				}
				logger.Info("Scenario is valid", "path", path, "name", scenario.Name)
			}

			return nil
		},
	}
}
