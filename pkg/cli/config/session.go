package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/usecase"
)

// minSecretLength is the shortest accepted HS256 signing secret
const minSecretLength = 32

// Session holds CLI flags for anonymous session tokens
type Session struct {
	secret  string
	ttl     time.Duration
	noAuthn string
}

// Flags returns CLI flags for session configuration
func (s *Session) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "session-secret",
			Usage:       "Secret for signing session tokens, shared with the recommendation proxy",
			Category:    "Authentication",
			Sources:     cli.EnvVars("HEALTHNAV_SESSION_SECRET"),
			Destination: &s.secret,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Lifetime of issued session tokens",
			Value:       usecase.DefaultSessionTTL,
			Category:    "Authentication",
			Sources:     cli.EnvVars("HEALTHNAV_SESSION_TTL"),
			Destination: &s.ttl,
		},
		&cli.StringFlag{
			Name:        "no-authn",
			Usage:       "Skip authentication and act as the given identity (development only)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("HEALTHNAV_NO_AUTHN"),
			Destination: &s.noAuthn,
		},
	}
}

// IsNoAuthn reports whether authentication is disabled
func (s *Session) IsNoAuthn() bool {
	return s.noAuthn != ""
}

func (s Session) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("secret", s.secret != ""),
		slog.Duration("ttl", s.ttl),
		slog.String("no_authn", s.noAuthn),
	)
}

// Configure creates the session use case
func (s *Session) Configure() (usecase.SessionUseCaseInterface, error) {
	if s.noAuthn != "" {
		identity := model.Identity(s.noAuthn)
		if err := identity.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid no-authn identity", goerr.V("identity", s.noAuthn))
		}
		return usecase.NewNoAuthnSessionUseCase(identity), nil
	}

	if s.secret == "" {
		return nil, goerr.Wrap(ErrMissingCredential, "session-secret is required unless no-authn is set")
	}
	if len(s.secret) < minSecretLength {
		return nil, goerr.Wrap(ErrInvalidConfig, "session-secret is too short", goerr.V("min_length", minSecretLength))
	}

	var opts []usecase.SessionOption
	if s.ttl > 0 {
		opts = append(opts, usecase.WithSessionTTL(s.ttl))
	}
	return usecase.NewSessionUseCase([]byte(s.secret), opts...), nil
}
