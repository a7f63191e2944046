package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/healthnav/healthnav/pkg/cli/config"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/usecase"
	"github.com/healthnav/healthnav/pkg/utils/logging"
)

func cmdRecommend() *cli.Command {
	var identity string
	var appCfg config.App
	var repoCfg config.Repository
	var sessionCfg config.Session
	var geminiCfg config.Gemini
	var proxyCfg config.ProxyTarget

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "identity",
			Aliases:     []string{"i"},
			Usage:       "Identity whose records are used",
			Required:    true,
			Sources:     cli.EnvVars("HEALTHNAV_IDENTITY"),
			Destination: &identity,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, sessionCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, proxyCfg.Flags()...)

	return &cli.Command{
		Name:    "recommend",
		Aliases: []string{"r"},
		Usage:   "Generate recommendations for one identity and print them",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			id := model.Identity(identity)
			if err := id.Validate(); err != nil {
				return goerr.Wrap(err, "invalid identity")
			}

			app, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}

			repo, err := repoCfg.Configure(ctx, app.AppID)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			generator, err := geminiCfg.Configure(ctx, app.Model)
			if err != nil {
				return goerr.Wrap(err, "failed to configure model backend")
			}

			var issuer usecase.SessionUseCaseInterface
			if proxyCfg.IsRemote() {
				if issuer, err = sessionCfg.Configure(); err != nil {
					return goerr.Wrap(err, "failed to configure sessions")
				}
			}
			proxy, err := proxyCfg.Configure(generator, issuer)
			if err != nil {
				return goerr.Wrap(err, "failed to configure recommendation proxy")
			}
			if proxy == nil {
				return goerr.Wrap(config.ErrMissingCredential, "a model backend or proxy-url is required")
			}

			uc := usecase.New(repo,
				usecase.WithRecommendationProxy(proxy),
				usecase.WithPromptLogLimit(app.PromptLogLimit()),
			)

			profile, logs, err := uc.LoadRecommendationInput(ctx, id)
			if err != nil {
				return err
			}

			result, err := uc.Recommendation.Generate(ctx, id, profile, logs)
			if errors.Is(err, usecase.ErrInsufficientData) {
				fmt.Fprintln(os.Stderr, usecase.MessageInsufficientData)
				return err
			}
			if result != nil {
				printRecommendation(os.Stdout, result)
			}
			return err
		},
	}
}

// printRecommendation renders result with the alerts panel first when there
// is something to raise
func printRecommendation(w io.Writer, result *model.RecommendationResult) {
	heading := color.New(color.FgCyan, color.Bold)
	alert := color.New(color.FgRed, color.Bold)

	if result.HasAlerts() {
		_, _ = alert.Fprintln(w, "Health Alerts")
		fmt.Fprintf(w, "%s\n\n", result.HealthAlerts)
	}

	sections := []struct {
		title string
		body  string
	}{
		{"Dietary Recommendations", result.DietaryRecommendations},
		{"Exercise Recommendations", result.ExerciseRecommendations},
		{"Stress Management Techniques", result.StressManagementTechniques},
	}
	for _, s := range sections {
		_, _ = heading.Fprintln(w, s.title)
		fmt.Fprintf(w, "%s\n\n", s.body)
	}

	if !result.HasAlerts() {
		_, _ = color.New(color.FgGreen).Fprintln(w, "No health alerts.")
	}
}
