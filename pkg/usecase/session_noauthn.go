package usecase

import (
	"context"
	"time"

	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/domain/model/auth"
)

// NoAuthnSessionUseCase binds every request to one fixed identity (for development/testing)
type NoAuthnSessionUseCase struct {
	identity model.Identity
}

var _ SessionUseCaseInterface = &NoAuthnSessionUseCase{}

// NewNoAuthnSessionUseCase creates a new NoAuthnSessionUseCase instance
func NewNoAuthnSessionUseCase(identity model.Identity) *NoAuthnSessionUseCase {
	return &NoAuthnSessionUseCase{identity: identity}
}

func (uc *NoAuthnSessionUseCase) session(identity model.Identity) *auth.Session {
	return &auth.Session{
		Identity:  identity,
		ExpiresAt: time.Now().Add(DefaultSessionTTL),
	}
}

// SignIn always returns the fixed identity
func (uc *NoAuthnSessionUseCase) SignIn(ctx context.Context, presented string) (*auth.Session, error) {
	return uc.session(uc.identity), nil
}

// Issue returns an unsigned session for identity
func (uc *NoAuthnSessionUseCase) Issue(ctx context.Context, identity model.Identity) (*auth.Session, error) {
	return uc.session(identity), nil
}

// Verify ignores the token and returns the fixed identity
func (uc *NoAuthnSessionUseCase) Verify(ctx context.Context, token string) (*auth.Session, error) {
	return uc.session(uc.identity), nil
}

// IsNoAuthn returns true for NoAuthnSessionUseCase
func (uc *NoAuthnSessionUseCase) IsNoAuthn() bool {
	return true
}
