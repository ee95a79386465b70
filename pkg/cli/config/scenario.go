package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
)

// Scenario is a TOML description of one assessment for the assess command.
// Factors left out keep their default option and weight.
//
//	name = "public login form"
//
//	[selection]
//	skill-level = 6
//	ease-of-discovery = 9
//
//	[weights]
//	financial-damage = 3
type Scenario struct {
	Name      string         `toml:"name"`
	Selection map[string]int `toml:"selection"`
	Weights   map[string]int `toml:"weights"`
}

// Validate checks factor names, option values and weight ranges
func (s *Scenario) Validate() error {
	for id, v := range s.Selection {
		f, err := model.LookupFactor(types.FactorID(id))
		if err != nil {
			return goerr.Wrap(err, "invalid scenario selection")
		}
		if _, ok := f.Option(v); !ok {
			return goerr.Wrap(model.ErrInvalidOption, "invalid scenario selection",
				goerr.V(FactorIDKey, id), goerr.V(model.ValueKey, v))
		}
	}

	profile := WeightProfile{Weights: s.Weights}
	if err := profile.Validate(); err != nil {
		return goerr.Wrap(err, "invalid scenario weights")
	}

	return nil
}

// ToInput overlays the scenario onto base
func (s *Scenario) ToInput(base model.Input) model.Input {
	input := base.Clone()
	if input.Selection == nil {
		input.Selection = model.Selection{}
	}
	if input.Weights == nil {
		input.Weights = model.Weights{}
	}

	for id, v := range s.Selection {
		input.Selection[types.FactorID(id)] = v
	}
	for id, w := range s.Weights {
		input.Weights[types.FactorID(id)] = w
	}
	return input
}

// LoadScenario loads and validates a scenario file
func LoadScenario(path string) (*Scenario, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read scenario", goerr.V(ConfigPathKey, path))
	}

	var scenario Scenario
	if err := toml.Unmarshal(data, &scenario); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse scenario",
			goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}

	if err := scenario.Validate(); err != nil {
		return nil, goerr.Wrap(err, "scenario validation failed", goerr.V(ConfigPathKey, path))
	}

	return &scenario, nil
}
