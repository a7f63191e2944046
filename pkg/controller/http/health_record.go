package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/domain/model/auth"
	"github.com/healthnav/healthnav/pkg/usecase"
	"github.com/healthnav/healthnav/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

type healthLogsResponse struct {
	Logs []*model.HealthLog `json:"logs"`
}

// healthLogRequest is the body of POST /api/logs. The ID is always assigned
// by the store.
type healthLogRequest struct {
	Date            *civil.Date `json:"date"`
	HeartRate       *int        `json:"heartRate,omitempty"`
	SleepHours      *float64    `json:"sleepHours,omitempty"`
	ActivityMinutes *int        `json:"activityMinutes,omitempty"`
	Mood            string      `json:"mood,omitempty"`
	Symptoms        string      `json:"symptoms,omitempty"`
	Timestamp       *time.Time  `json:"timestamp,omitempty"`
}

func (x *healthLogRequest) toModel() *model.HealthLog {
	entry := &model.HealthLog{
		Date:            x.Date,
		HeartRate:       x.HeartRate,
		SleepHours:      x.SleepHours,
		ActivityMinutes: x.ActivityMinutes,
		Mood:            x.Mood,
		Symptoms:        x.Symptoms,
	}
	if x.Timestamp != nil {
		entry.Timestamp = *x.Timestamp
	}
	return entry
}

// statusOf maps use case errors onto HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrNotAuthenticated), errors.Is(err, usecase.ErrInvalidSession):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrInvalidHealthLog), errors.Is(err, usecase.ErrInvalidLimit):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrWriteFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func getProfileHandler(uc *usecase.HealthRecordUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		profile, err := uc.CurrentProfile(ctx, auth.IdentityFromContext(ctx))
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, statusOf(err))
			return
		}
		writeJSON(ctx, w, http.StatusOK, profile)
	}
}

func patchProfileHandler(uc *usecase.HealthRecordUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		identity := auth.IdentityFromContext(ctx)

		var patch model.ProfilePatch
		if err := decodeJSON(r, &patch); err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
			return
		}

		if err := uc.UpdateProfile(ctx, identity, &patch); err != nil {
			errutil.HandleHTTP(ctx, w, err, statusOf(err))
			return
		}

		profile, err := uc.CurrentProfile(ctx, identity)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, statusOf(err))
			return
		}
		writeJSON(ctx, w, http.StatusOK, profile)
	}
}

func streamProfileHandler(uc *usecase.HealthRecordUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		streamSubscription(w, r, "profile", uc.SubscribeProfile(ctx, auth.IdentityFromContext(ctx)))
	}
}

// listLogsHandler returns every entry, or the most recent ones when a
// positive limit query parameter is given
func listLogsHandler(uc *usecase.HealthRecordUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		identity := auth.IdentityFromContext(ctx)

		var (
			logs []*model.HealthLog
			err  error
		)
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, convErr := strconv.Atoi(raw)
			if convErr != nil || limit <= 0 {
				errutil.HandleHTTP(ctx, w, goerr.New("limit must be a positive integer", goerr.V("limit", raw)), http.StatusBadRequest)
				return
			}
			logs, err = uc.RecentLogs(ctx, identity, limit)
		} else {
			logs, err = uc.CurrentLogs(ctx, identity)
		}
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, statusOf(err))
			return
		}

		if logs == nil {
			logs = []*model.HealthLog{}
		}
		writeJSON(ctx, w, http.StatusOK, healthLogsResponse{Logs: logs})
	}
}

func appendLogHandler(uc *usecase.HealthRecordUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req healthLogRequest
		if err := decodeJSON(r, &req); err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
			return
		}

		created, err := uc.AppendLog(ctx, auth.IdentityFromContext(ctx), req.toModel())
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, statusOf(err))
			return
		}
		writeJSON(ctx, w, http.StatusCreated, created)
	}
}

func streamLogsHandler(uc *usecase.HealthRecordUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		streamSubscription(w, r, "logs", uc.SubscribeLogs(ctx, auth.IdentityFromContext(ctx)))
	}
}
