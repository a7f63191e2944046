package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/healthnav/healthnav/pkg/cli/config"
	httpctrl "github.com/healthnav/healthnav/pkg/controller/http"
	"github.com/healthnav/healthnav/pkg/controller/lambda"
	"github.com/healthnav/healthnav/pkg/usecase"
	"github.com/healthnav/healthnav/pkg/utils/logging"
)

func cmdProxy() *cli.Command {
	var addr string
	var onLambda bool
	var appCfg config.App
	var sessionCfg config.Session
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8081",
			Sources:     cli.EnvVars("HEALTHNAV_PROXY_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "lambda",
			Usage:       "Serve invocations from the AWS Lambda runtime instead of HTTP",
			Sources:     cli.EnvVars("HEALTHNAV_PROXY_LAMBDA"),
			Destination: &onLambda,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, sessionCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:    "proxy",
		Aliases: []string{"p"},
		Usage:   "Start the recommendation proxy, the only component holding the model credential",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			app, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}

			sessions, err := sessionCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure sessions")
			}

			generator, err := geminiCfg.Configure(ctx, app.Model)
			if err != nil {
				return goerr.Wrap(err, "failed to configure model backend")
			}
			if generator == nil {
				return goerr.Wrap(config.ErrMissingCredential, "gemini-api-key or gemini-project is required")
			}

			callable := httpctrl.NewCallable(usecase.NewProxyUseCase(generator), sessions)
			logging.Default().Info("Proxy configuration",
				"gemini", geminiCfg.LogAttrs(),
				"session", sessionCfg,
				"lambda", onLambda,
			)

			if onLambda {
				lambda.NewProxyHandler(callable).Start()
				return nil
			}

			return runServer(ctx, addr, httpctrl.New(httpctrl.WithCallable(callable)))
		},
	}
}
