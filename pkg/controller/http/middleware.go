package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/healthnav/healthnav/pkg/domain/model/auth"
	"github.com/healthnav/healthnav/pkg/utils/logging"
)

// sessionCookieName holds the session token for browser clients
const sessionCookieName = "healthnav_session"

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// presentedToken returns the session token from the Authorization header,
// falling back to the session cookie
func presentedToken(r *http.Request) string {
	if token := bearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// authMiddleware binds the caller's session to the request context and
// rejects requests without a valid one
func authMiddleware(sessions SessionUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// NoAuthn mode resolves every request to the fixed identity
			if sessions.IsNoAuthn() {
				session, err := sessions.Verify(ctx, "")
				if err != nil {
					writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: "Authentication required"})
					return
				}
				next.ServeHTTP(w, r.WithContext(auth.ContextWithSession(ctx, session)))
				return
			}

			token := presentedToken(r)
			if token == "" {
				writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: "Authentication required"})
				return
			}

			session, err := sessions.Verify(ctx, token)
			if err != nil {
				logging.From(ctx).Debug("session rejected", "error", err.Error())
				writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: "Invalid session token"})
				return
			}

			ctx = logging.With(ctx, logging.From(ctx).With("identity", session.Identity))
			next.ServeHTTP(w, r.WithContext(auth.ContextWithSession(ctx, session)))
		})
	}
}
