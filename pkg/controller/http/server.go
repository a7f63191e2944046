package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/healthnav/healthnav/pkg/usecase"
)

type Server struct {
	router   *chi.Mux
	useCases *usecase.UseCases
	sessions SessionUseCase
	callable *Callable
}

type Options func(*Server)

// WithUseCases mounts the application API backed by uc. Its session use
// case authenticates API requests.
func WithUseCases(uc *usecase.UseCases) Options {
	return func(s *Server) {
		s.useCases = uc
		if uc.Session != nil {
			s.sessions = uc.Session
		}
	}
}

// WithSession overrides the session use case
func WithSession(sessions SessionUseCase) Options {
	return func(s *Server) {
		s.sessions = sessions
	}
}

// WithCallable mounts the recommendation proxy endpoint
func WithCallable(callable *Callable) Options {
	return func(s *Server) {
		s.callable = callable
	}
}

func New(opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	if s.callable != nil {
		r.Post(CallablePath, s.callable.ServeHTTP)
	}

	if s.useCases != nil && s.sessions != nil {
		uc := s.useCases
		r.Route("/api", func(r chi.Router) {
			r.Post("/session", sessionSignInHandler(s.sessions))

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware(s.sessions))

				r.Get("/session", sessionMeHandler())
				r.Delete("/session", sessionSignOutHandler())

				r.Get("/profile", getProfileHandler(uc.HealthRecord))
				r.Patch("/profile", patchProfileHandler(uc.HealthRecord))
				r.Get("/profile/stream", streamProfileHandler(uc.HealthRecord))

				r.Get("/logs", listLogsHandler(uc.HealthRecord))
				r.Post("/logs", appendLogHandler(uc.HealthRecord))
				r.Get("/logs/stream", streamLogsHandler(uc.HealthRecord))

				r.Get("/recommendations", getRecommendationHandler(uc))
				r.Post("/recommendations", generateRecommendationHandler(uc))
				r.Get("/recommendations/stream", streamRecommendationHandler(uc))
			})
		})
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, struct {
		Status string `json:"status"`
	}{Status: "ok"})
}
