package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// WeightProfile is a TOML file overriding the weight every factor starts
// with, e.g.
//
//	[weights]
//	skill-level = 3
//	financial-damage = 5
type WeightProfile struct {
	Weights map[string]int `toml:"weights"`
}

// Validate checks that every entry names a catalog factor and is in range
func (p *WeightProfile) Validate() error {
	for id, w := range p.Weights {
		if _, err := model.LookupFactor(types.FactorID(id)); err != nil {
			return goerr.Wrap(err, "invalid weight profile")
		}
		if w < model.MinWeight || w > model.MaxWeight {
			return goerr.Wrap(model.ErrInvalidWeight, "invalid weight profile",
				goerr.V(FactorIDKey, id), goerr.V(model.WeightKey, w))
		}
	}
	return nil
}

// ToWeights converts the profile to domain weights
func (p *WeightProfile) ToWeights() model.Weights {
	weights := make(model.Weights, len(p.Weights))
	for id, w := range p.Weights {
		weights[types.FactorID(id)] = w
	}
	return weights
}

// LoadWeightProfile loads and validates a weight profile
func LoadWeightProfile(path string) (*WeightProfile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read weight profile", goerr.V(ConfigPathKey, path))
	}

	var profile WeightProfile
	if err := toml.Unmarshal(data, &profile); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse weight profile",
			goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}

	if err := profile.Validate(); err != nil {
		return nil, goerr.Wrap(err, "weight profile validation failed", goerr.V(ConfigPathKey, path))
	}

	return &profile, nil
}

// Profile holds the CLI flag selecting a weight profile
type Profile struct {
	path string
}

func (x *Profile) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "weight-profile",
			Usage:       "TOML file with default factor weights",
			Sources:     cli.EnvVars("OWASPRISK_WEIGHT_PROFILE"),
			Destination: &x.path,
		},
	}
}

// Configure returns the default weights of the profile, or nil when no
// profile is configured
func (x *Profile) Configure() (model.Weights, error) {
	if x.path == "" {
		return nil, nil
	}

	profile, err := LoadWeightProfile(x.path)
	if err != nil {
		return nil, err
	}
	return profile.ToWeights(), nil
}
