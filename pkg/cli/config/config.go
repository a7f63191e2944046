package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/healthnav/healthnav/pkg/usecase"
)

// maxRecentLogLimit caps how many entries may be embedded in one prompt
const maxRecentLogLimit = 100

// AppConfig represents the optional application configuration file
type AppConfig struct {
	AppID          string `toml:"app_id"`
	Model          string `toml:"model"`
	RecentLogLimit int    `toml:"recent_log_limit"`
}

// Validate checks if the AppConfig is valid. Zero values mean defaults.
func (a *AppConfig) Validate() error {
	if a.AppID != "" && strings.ContainsAny(a.AppID, "/ ") {
		return goerr.Wrap(ErrInvalidConfig, "app_id must not contain slashes or spaces",
			goerr.V(FieldKey, "app_id"), goerr.V("app_id", a.AppID))
	}
	if a.RecentLogLimit < 0 || a.RecentLogLimit > maxRecentLogLimit {
		return goerr.Wrap(ErrInvalidConfig, "recent_log_limit is out of range",
			goerr.V(FieldKey, "recent_log_limit"),
			goerr.V("recent_log_limit", a.RecentLogLimit),
			goerr.V("max", maxRecentLogLimit))
	}
	return nil
}

// PromptLogLimit returns the number of recent logs embedded in a prompt
func (a *AppConfig) PromptLogLimit() int {
	if a == nil || a.RecentLogLimit == 0 {
		return usecase.DefaultRecentLogLimit
	}
	return a.RecentLogLimit
}

func (a AppConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("app_id", a.AppID),
		slog.String("model", a.Model),
		slog.Int("recent_log_limit", a.RecentLogLimit),
	)
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	decoder := toml.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&config); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// App holds the CLI flag pointing at the configuration file
type App struct {
	path string
}

// Flags returns CLI flags for the application configuration file
func (a *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the TOML configuration file (optional)",
			Sources:     cli.EnvVars("HEALTHNAV_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Path returns the configured file path
func (a *App) Path() string {
	return a.path
}

// Configure loads the configuration file, or returns defaults when no file
// is configured
func (a *App) Configure() (*AppConfig, error) {
	if a.path == "" {
		return &AppConfig{}, nil
	}
	return LoadAppConfiguration(a.path)
}
