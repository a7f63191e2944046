package http

import (
	"net/http"
	"time"

	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/domain/model/auth"
	"github.com/healthnav/healthnav/pkg/usecase"
	"github.com/healthnav/healthnav/pkg/utils/errutil"
)

type SessionUseCase = usecase.SessionUseCaseInterface

type sessionResponse struct {
	Identity  model.Identity `json:"identity"`
	Token     string         `json:"token,omitempty"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

// sessionSignInHandler starts an anonymous session, or keeps the one the
// caller already holds
func sessionSignInHandler(sessions SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		session, err := sessions.SignIn(ctx, presentedToken(r))
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}

		if session.Token != "" {
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    session.Token,
				Path:     "/",
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
				Expires:  session.ExpiresAt,
			})
		}

		writeJSON(ctx, w, http.StatusOK, sessionResponse{
			Identity:  session.Identity,
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
		})
	}
}

// sessionMeHandler returns the identity bound to the request
func sessionMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := auth.SessionFromContext(r.Context())
		writeJSON(r.Context(), w, http.StatusOK, sessionResponse{
			Identity:  session.Identity,
			ExpiresAt: session.ExpiresAt,
		})
	}
}

// sessionSignOutHandler clears the session cookie
func sessionSignOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}
