package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/domain/model/auth"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
)

// SessionUseCaseInterface issues and verifies anonymous sessions
type SessionUseCaseInterface interface {
	// SignIn keeps the session of a still-valid presented token, or starts a
	// new anonymous one
	SignIn(ctx context.Context, presented string) (*auth.Session, error)
	// Issue signs a session token for an existing identity
	Issue(ctx context.Context, identity model.Identity) (*auth.Session, error)
	Verify(ctx context.Context, token string) (*auth.Session, error)
	IsNoAuthn() bool
}

const (
	DefaultSessionIssuer = "healthnav"
	DefaultSessionTTL    = 90 * 24 * time.Hour
)

// SessionUseCase issues HS256-signed session tokens whose subject is the identity
type SessionUseCase struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	cache  *sessionCache
}

var _ SessionUseCaseInterface = &SessionUseCase{}

// SessionOption is a functional option for SessionUseCase
type SessionOption func(*SessionUseCase)

// WithSessionTTL sets the lifetime of issued tokens
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(uc *SessionUseCase) {
		uc.ttl = ttl
	}
}

// WithSessionIssuer sets the issuer claim of issued tokens
func WithSessionIssuer(issuer string) SessionOption {
	return func(uc *SessionUseCase) {
		uc.issuer = issuer
	}
}

// WithSessionClock replaces the clock, for tests
func WithSessionClock(now func() time.Time) SessionOption {
	return func(uc *SessionUseCase) {
		uc.now = now
	}
}

// NewSessionUseCase creates a new SessionUseCase signing with secret
func NewSessionUseCase(secret []byte, opts ...SessionOption) *SessionUseCase {
	uc := &SessionUseCase{
		secret: secret,
		issuer: DefaultSessionIssuer,
		ttl:    DefaultSessionTTL,
		now:    time.Now,
		cache:  newSessionCache(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *SessionUseCase) SignIn(ctx context.Context, presented string) (*auth.Session, error) {
	if presented != "" {
		if session, err := uc.Verify(ctx, presented); err == nil {
			return session, nil
		}
	}
	return uc.Issue(ctx, model.NewIdentity())
}

func (uc *SessionUseCase) Issue(ctx context.Context, identity model.Identity) (*auth.Session, error) {
	if err := identity.Validate(); err != nil {
		return nil, goerr.Wrap(err, "cannot issue session for invalid identity")
	}

	now := uc.now()
	expiresAt := now.Add(uc.ttl)
	tok, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Issuer(uc.issuer).
		Subject(identity.String()).
		IssuedAt(now).
		Expiration(expiresAt).
		Build()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build session token")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, uc.secret))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to sign session token")
	}

	return &auth.Session{
		Identity:  identity,
		Token:     string(signed),
		ExpiresAt: expiresAt,
	}, nil
}

func (uc *SessionUseCase) Verify(ctx context.Context, token string) (*auth.Session, error) {
	if token == "" {
		return nil, goerr.Wrap(ErrNotAuthenticated, "session token is missing")
	}
	if session, ok := uc.cache.get(token, uc.now()); ok {
		return session, nil
	}

	tok, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, uc.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(uc.issuer),
		jwt.WithClock(jwt.ClockFunc(uc.now)),
	)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidSession, "failed to verify session token", goerr.V("cause", err.Error()))
	}

	identity := model.Identity(tok.Subject())
	if err := identity.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidSession, "session token has invalid subject", goerr.V("cause", err.Error()))
	}

	session := &auth.Session{
		Identity:  identity,
		Token:     token,
		ExpiresAt: tok.Expiration(),
	}
	uc.cache.set(session, uc.now())
	return session, nil
}

func (uc *SessionUseCase) IsNoAuthn() bool {
	return false
}
