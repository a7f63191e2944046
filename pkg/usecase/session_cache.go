package usecase

import (
	"sync"
	"time"

	"github.com/healthnav/healthnav/pkg/domain/model/auth"
)

const (
	sessionCacheTTL = 5 * time.Minute
)

type cachedSession struct {
	session   *auth.Session
	expiresAt time.Time
}

// sessionCache keeps verified tokens so that every request does not re-verify
// the signature
type sessionCache struct {
	cache sync.Map
}

func newSessionCache() *sessionCache {
	return &sessionCache{}
}

func (c *sessionCache) get(token string, now time.Time) (*auth.Session, bool) {
	val, ok := c.cache.Load(token)
	if !ok {
		return nil, false
	}

	cached := val.(*cachedSession)
	if now.After(cached.expiresAt) {
		c.cache.Delete(token)
		return nil, false
	}

	return cached.session, true
}

func (c *sessionCache) set(session *auth.Session, now time.Time) {
	expiresAt := now.Add(sessionCacheTTL)
	if session.ExpiresAt.Before(expiresAt) {
		expiresAt = session.ExpiresAt
	}
	c.cache.Store(session.Token, &cachedSession{
		session:   session,
		expiresAt: expiresAt,
	})
}
