package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/service/proxy"
	"github.com/healthnav/healthnav/pkg/usecase"
)

// ProxyTarget selects where recommendation requests are sent: a remote
// proxy endpoint, or the in-process proxy when a model backend is set up.
type ProxyTarget struct {
	url string
}

// Flags returns CLI flags for proxy target configuration
func (p *ProxyTarget) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "proxy-url",
			Usage:       "URL of a remote recommendation proxy (e.g. https://example.com/generateHealthRecommendations)",
			Category:    "Recommendation",
			Sources:     cli.EnvVars("HEALTHNAV_PROXY_URL"),
			Destination: &p.url,
		},
	}
}

// IsRemote reports whether a remote proxy is configured
func (p *ProxyTarget) IsRemote() bool {
	return p.url != ""
}

func (p ProxyTarget) LogValue() slog.Value {
	return slog.GroupValue(slog.String("url", p.url))
}

// Configure returns the proxy to use. A remote proxy authenticates with
// tokens from issuer. Without a remote URL, generator backs an in-process
// proxy; nil generator means recommendations are unavailable.
func (p *ProxyTarget) Configure(generator interfaces.ContentGenerator, issuer proxy.TokenIssuer) (interfaces.RecommendationProxy, error) {
	if p.url != "" {
		client, err := proxy.New(p.url, issuer)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create proxy client")
		}
		return client, nil
	}

	if generator == nil {
		return nil, nil
	}
	return usecase.NewProxyUseCase(generator), nil
}
