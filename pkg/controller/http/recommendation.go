package http

import (
	"errors"
	"net/http"

	"github.com/healthnav/healthnav/pkg/domain/model/auth"
	"github.com/healthnav/healthnav/pkg/usecase"
	"github.com/healthnav/healthnav/pkg/utils/errutil"
)

func getRecommendationHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		writeJSON(ctx, w, http.StatusOK, uc.Recommendation.State(auth.IdentityFromContext(ctx)))
	}
}

// generateRecommendationHandler loads the caller's current records and starts
// a generation in the background. Progress is reported through the state
// endpoints. Empty records are rejected right away.
func generateRecommendationHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		identity := auth.IdentityFromContext(ctx)

		profile, logs, err := uc.LoadRecommendationInput(ctx, identity)
		if errors.Is(err, usecase.ErrNotAuthenticated) {
			writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: usecase.MessageNotAuthenticated})
			return
		}
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, statusOf(err))
			return
		}

		if profile.IsEmpty() && len(logs) == 0 {
			// records the error in the state without calling the proxy
			_, err := uc.Recommendation.Generate(ctx, identity, profile, logs)
			writeJSON(ctx, w, statusOf(err), errorResponse{Error: usecase.MessageInsufficientData})
			return
		}

		uc.Recommendation.GenerateAsync(ctx, identity, profile, logs)
		writeJSON(ctx, w, http.StatusAccepted, struct {
			Status string `json:"status"`
		}{Status: "accepted"})
	}
}

func streamRecommendationHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		streamSubscription(w, r, "recommendation", uc.Recommendation.WatchState(ctx, auth.IdentityFromContext(ctx)))
	}
}
