package config_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/owasprisk/pkg/cli/config"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadWeightProfile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name: "valid profile",
			content: `
[weights]
skill-level = 3
financial-damage = 5
`,
		},
		{
			name:    "empty profile",
			content: ``,
		},
		{
			name: "unknown factor",
			content: `
[weights]
no-such-factor = 2
`,
			wantErr: model.ErrUnknownFactor,
		},
		{
			name: "weight out of range",
			content: `
[weights]
skill-level = 6
`,
			wantErr: model.ErrInvalidWeight,
		},
		{
			name: "zero weight",
			content: `
[weights]
skill-level = 0
`,
			wantErr: model.ErrInvalidWeight,
		},
		{
			name:    "broken TOML",
			content: `[weights`,
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := config.LoadWeightProfile(writeFile(t, tt.content))
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, profile).NotNil()
		})
	}

	t.Run("weights are keyed by factor", func(t *testing.T) {
		profile, err := config.LoadWeightProfile(writeFile(t, "[weights]\nskill-level = 4\n"))
		gt.NoError(t, err).Required()
		gt.Value(t, profile.ToWeights()).Equal(model.Weights{types.FactorID("skill-level"): 4})
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadWeightProfile(filepath.Join(t.TempDir(), "missing.toml"))
		gt.Error(t, err)
	})
}

func TestLoadScenario(t *testing.T) {
	t.Run("overlays defaults", func(t *testing.T) {
		scenario, err := config.LoadScenario(writeFile(t, `
name = "login form"

[selection]
skill-level = 6

[weights]
financial-damage = 3
`))
		gt.NoError(t, err).Required()
		gt.Value(t, scenario.Name).Equal("login form")

		input := scenario.ToInput(model.NewInput())
		gt.Value(t, input.Selection["skill-level"]).Equal(6)
		gt.Value(t, input.Weights["financial-damage"]).Equal(3)
		gt.Value(t, len(input.Selection)).Equal(16)
		gt.NoError(t, input.Validate())
	})

	t.Run("value that is not an option", func(t *testing.T) {
		_, err := config.LoadScenario(writeFile(t, "[selection]\nskill-level = 2\n"))
		gt.Error(t, err).Is(model.ErrInvalidOption)
	})

	t.Run("unknown factor", func(t *testing.T) {
		_, err := config.LoadScenario(writeFile(t, "[selection]\nunknown = 1\n"))
		gt.Error(t, err).Is(model.ErrUnknownFactor)
	})

	t.Run("weight out of range", func(t *testing.T) {
		_, err := config.LoadScenario(writeFile(t, "[weights]\nmotive = 9\n"))
		gt.Error(t, err).Is(model.ErrInvalidWeight)
	})
}

func TestNewHandler(t *testing.T) {
	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		h, err := config.NewHandler(&buf, "info", "json")
		gt.NoError(t, err).Required()

		slog.New(h).Info("hello", "key", "value")
		gt.String(t, buf.String()).Contains(`"msg":"hello"`)
		gt.String(t, buf.String()).Contains(`"key":"value"`)
	})

	t.Run("level filters records", func(t *testing.T) {
		var buf bytes.Buffer
		h, err := config.NewHandler(&buf, "warn", "json")
		gt.NoError(t, err).Required()

		slog.New(h).Info("hidden")
		gt.Value(t, buf.Len()).Equal(0)
	})

	t.Run("credentials are redacted", func(t *testing.T) {
		type settings struct {
			DSN string
		}
		var buf bytes.Buffer
		h, err := config.NewHandler(&buf, "info", "json")
		gt.NoError(t, err).Required()

		slog.New(h).Info("settings", "settings", settings{DSN: "https://key@example.com/1"})
		gt.String(t, buf.String()).NotContains("https://key@example.com/1")
	})

	t.Run("console output", func(t *testing.T) {
		var buf bytes.Buffer
		h, err := config.NewHandler(&buf, "debug", "console")
		gt.NoError(t, err).Required()
		slog.New(h).Info("hello")
		gt.String(t, buf.String()).Contains("hello")
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := config.NewHandler(&bytes.Buffer{}, "verbose", "json")
		gt.Error(t, err).Is(config.ErrInvalidLogLevel)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := config.NewHandler(&bytes.Buffer{}, "info", "xml")
		gt.Error(t, err).Is(config.ErrInvalidFormat)
	})
}

func TestRepositoryConfigureRejectsUnknownBackend(t *testing.T) {
	var repo config.Repository
	_, err := repo.Configure(context.Background())
	gt.Error(t, err).Is(config.ErrInvalidBackend)
}
