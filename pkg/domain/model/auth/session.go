package auth

import (
	"context"
	"time"

	"github.com/healthnav/healthnav/pkg/domain/model"
)

// Session is an authenticated anonymous session
type Session struct {
	Identity  model.Identity `json:"identity"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

type ctxSessionKey struct{}

// ContextWithSession binds session to ctx
func ContextWithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, ctxSessionKey{}, session)
}

// SessionFromContext returns the session bound to ctx or nil
func SessionFromContext(ctx context.Context) *Session {
	session, _ := ctx.Value(ctxSessionKey{}).(*Session)
	return session
}

// IdentityFromContext returns the identity of the bound session, or an empty
// identity for unauthenticated callers
func IdentityFromContext(ctx context.Context) model.Identity {
	if session := SessionFromContext(ctx); session != nil {
		return session.Identity
	}
	return ""
}
