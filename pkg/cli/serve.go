package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/healthnav/healthnav/pkg/cli/config"
	httpctrl "github.com/healthnav/healthnav/pkg/controller/http"
	"github.com/healthnav/healthnav/pkg/usecase"
	"github.com/healthnav/healthnav/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var appCfg config.App
	var repoCfg config.Repository
	var sessionCfg config.Session
	var geminiCfg config.Gemini
	var proxyCfg config.ProxyTarget

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("HEALTHNAV_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, sessionCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, proxyCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the application API server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
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

			sessions, err := sessionCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure sessions")
			}
			if sessions.IsNoAuthn() {
				logging.Default().Warn("Running in no-authn mode (development only)", "session", sessionCfg)
			}

			// The model is only used when the proxy runs in process
			generator, err := geminiCfg.Configure(ctx, app.Model)
			if err != nil {
				return goerr.Wrap(err, "failed to configure model backend")
			}
			proxy, err := proxyCfg.Configure(generator, sessions)
			if err != nil {
				return goerr.Wrap(err, "failed to configure recommendation proxy")
			}

			ucOpts := []usecase.Option{
				usecase.WithSession(sessions),
				usecase.WithPromptLogLimit(app.PromptLogLimit()),
			}
			if proxy != nil {
				ucOpts = append(ucOpts, usecase.WithRecommendationProxy(proxy))
			} else {
				logging.Default().Warn("No model backend or proxy URL configured, recommendations are unavailable")
			}
			uc := usecase.New(repo, ucOpts...)

			httpOpts := []httpctrl.Options{
				httpctrl.WithUseCases(uc),
			}
			// Serve the callable too when the proxy runs in process
			if proxy != nil && !proxyCfg.IsRemote() {
				httpOpts = append(httpOpts, httpctrl.WithCallable(httpctrl.NewCallable(proxy, sessions)))
				logging.Default().Info("Recommendation proxy enabled in process", "gemini", geminiCfg.LogAttrs())
			}

			logging.Default().Info("Serve configuration",
				"app", app,
				"repository", repoCfg,
				"proxy", proxyCfg,
			)

			return runServer(ctx, addr, httpctrl.New(httpOpts...))
		},
	}
}
