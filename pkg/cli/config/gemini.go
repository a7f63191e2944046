package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	gollemgemini "github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"

	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/service/gemini"
)

// Gemini holds configuration for the model backend. An API key selects the
// Gemini API; a project selects Vertex AI.
type Gemini struct {
	apiKey    string
	projectID string
	location  string
	model     string
	baseURL   string
}

// Flags returns CLI flags for Gemini configuration
func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key",
			Category:    "Gemini",
			Sources:     cli.EnvVars("HEALTHNAV_GEMINI_API_KEY"),
			Destination: &g.apiKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini on Vertex AI",
			Category:    "Gemini",
			Sources:     cli.EnvVars("HEALTHNAV_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini on Vertex AI",
			Value:       "us-central1",
			Category:    "Gemini",
			Sources:     cli.EnvVars("HEALTHNAV_GEMINI_LOCATION"),
			Destination: &g.location,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Model name (overrides the config file)",
			Category:    "Gemini",
			Sources:     cli.EnvVars("HEALTHNAV_GEMINI_MODEL"),
			Destination: &g.model,
		},
		&cli.StringFlag{
			Name:        "gemini-base-url",
			Usage:       "Alternative Gemini API endpoint",
			Category:    "Gemini",
			Sources:     cli.EnvVars("HEALTHNAV_GEMINI_BASE_URL"),
			Destination: &g.baseURL,
		},
	}
}

// IsConfigured reports whether any backend is selected
func (g *Gemini) IsConfigured() bool {
	return g.apiKey != "" || g.projectID != ""
}

// LogAttrs returns log attributes for the Gemini configuration
func (g *Gemini) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Bool("api_key", g.apiKey != ""),
		slog.String("project_id", g.projectID),
		slog.String("location", g.location),
		slog.String("model", g.model),
	}
}

// Configure creates the content generator. model is used when the
// gemini-model flag is not set; empty means gemini.DefaultModel. Returns nil
// if no backend is configured.
func (g *Gemini) Configure(ctx context.Context, model string) (interfaces.ContentGenerator, error) {
	if g.model != "" {
		model = g.model
	}
	if model == "" {
		model = gemini.DefaultModel
	}

	switch {
	case g.apiKey != "":
		opts := []gemini.GenAIOption{gemini.WithGenAIModel(model)}
		if g.baseURL != "" {
			opts = append(opts, gemini.WithGenAIBaseURL(g.baseURL))
		}
		client, err := gemini.NewGenAI(ctx, g.apiKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini API client")
		}
		return client, nil

	case g.projectID != "":
		llm, err := gollemgemini.New(ctx, g.projectID, g.location, gollemgemini.WithModel(model))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Vertex AI Gemini client")
		}
		return gemini.NewVertex(llm), nil

	default:
		return nil, nil
	}
}
