package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/domain/types"
	"github.com/healthnav/healthnav/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func okResult() *model.RecommendationResult {
	return &model.RecommendationResult{
		DietaryRecommendations:     "Eat more vegetables",
		ExerciseRecommendations:    "Walk daily",
		StressManagementTechniques: "Meditate",
		HealthAlerts:               model.NoHealthAlerts,
	}
}

func TestRecommendation_Generate(t *testing.T) {
	t.Run("profile and log are embedded in the request", func(t *testing.T) {
		proxy := &mockProxy{fn: func(ctx context.Context, identity model.Identity, req *model.GenerationRequest) (*model.RecommendationResult, error) {
			return okResult(), nil
		}}
		uc := usecase.NewRecommendationUseCase(proxy)
		identity := model.NewIdentity()

		profile := &model.Profile{Goals: "lose weight"}
		logs := []*model.HealthLog{{
			Date:      datePtr(2024, time.March, 1),
			HeartRate: intPtr(80),
		}}

		result, err := uc.Generate(context.Background(), identity, profile, logs)
		gt.NoError(t, err).Required()
		gt.Value(t, result).Equal(okResult())

		gt.Value(t, proxy.callCount()).Equal(1)
		req := proxy.calls[0]
		gt.String(t, req.Prompt).Contains("lose weight")
		gt.String(t, req.Prompt).Contains("80")
		gt.Value(t, req.GenerationConfig).Equal(model.RecommendationConfig())

		state := uc.State(identity)
		gt.Bool(t, state.Loading).False()
		gt.Value(t, state.Error).Equal("")
		gt.Value(t, state.Advice).Equal(okResult().Advice())
		gt.Value(t, *state.HealthAlerts).Equal(model.NoHealthAlerts)
	})

	t.Run("empty profile and logs never call the proxy", func(t *testing.T) {
		proxy := &mockProxy{fn: func(ctx context.Context, identity model.Identity, req *model.GenerationRequest) (*model.RecommendationResult, error) {
			t.Fatal("proxy must not be called")
			return nil, nil
		}}
		uc := usecase.NewRecommendationUseCase(proxy)
		identity := model.NewIdentity()

		result, err := uc.Generate(context.Background(), identity, &model.Profile{}, nil)
		gt.Value(t, result).Nil()
		gt.Bool(t, errors.Is(err, usecase.ErrInsufficientData)).True()
		gt.Value(t, proxy.callCount()).Equal(0)
		gt.Value(t, uc.State(identity).Error).Equal(usecase.MessageInsufficientData)
	})

	t.Run("missing identity never calls the proxy", func(t *testing.T) {
		proxy := &mockProxy{fn: func(ctx context.Context, identity model.Identity, req *model.GenerationRequest) (*model.RecommendationResult, error) {
			t.Fatal("proxy must not be called")
			return nil, nil
		}}
		uc := usecase.NewRecommendationUseCase(proxy)

		_, err := uc.Generate(context.Background(), "", &model.Profile{Goals: "x"}, nil)
		gt.Bool(t, errors.Is(err, usecase.ErrNotAuthenticated)).True()
		gt.Value(t, proxy.callCount()).Equal(0)
	})

	t.Run("proxy failure yields fallback result and error", func(t *testing.T) {
		proxy := &mockProxy{fn: func(ctx context.Context, identity model.Identity, req *model.GenerationRequest) (*model.RecommendationResult, error) {
			return nil, model.NewProxyError(types.ErrorKindInternal, "model is down", "503")
		}}
		uc := usecase.NewRecommendationUseCase(proxy)
		identity := model.NewIdentity()

		result, err := uc.Generate(context.Background(), identity, &model.Profile{Goals: "x"}, nil)
		gt.Bool(t, errors.Is(err, usecase.ErrRecommendationFailed)).True()
		gt.Value(t, model.ProxyErrorKind(err)).Equal(types.ErrorKindInternal)

		gt.Value(t, result).NotNil()
		gt.Bool(t, result.DietaryRecommendations != "").True()
		gt.Bool(t, result.ExerciseRecommendations != "").True()
		gt.Bool(t, result.StressManagementTechniques != "").True()
		gt.String(t, result.HealthAlerts).Contains("model is down")

		state := uc.State(identity)
		gt.Bool(t, state.Loading).False()
		gt.Value(t, state.Error).Equal(usecase.MessageRecommendationFailed)
		gt.Value(t, state.Advice).Equal(result.Advice())
	})

	t.Run("only the seven most recent logs are sent", func(t *testing.T) {
		proxy := &mockProxy{fn: func(ctx context.Context, identity model.Identity, req *model.GenerationRequest) (*model.RecommendationResult, error) {
			return okResult(), nil
		}}
		uc := usecase.NewRecommendationUseCase(proxy)

		var logs []*model.HealthLog
		for day := 10; day >= 1; day-- {
			logs = append(logs, &model.HealthLog{Date: datePtr(2024, time.May, day)})
		}

		_, err := uc.Generate(context.Background(), model.NewIdentity(), nil, logs)
		gt.NoError(t, err).Required()

		prompt := proxy.calls[0].Prompt
		gt.Value(t, strings.Count(prompt, "- Date: ")).Equal(7)
		gt.String(t, prompt).Contains("2024-05-10")
		gt.String(t, prompt).Contains("2024-05-04")
		gt.Bool(t, strings.Contains(prompt, "2024-05-03")).False()
	})

	t.Run("stale response is not applied to state", func(t *testing.T) {
		release := make(chan struct{})
		proxy := &mockProxy{fn: func(ctx context.Context, identity model.Identity, req *model.GenerationRequest) (*model.RecommendationResult, error) {
			if strings.Contains(req.Prompt, "slow") {
				<-release
				return &model.RecommendationResult{
					DietaryRecommendations:     "stale",
					ExerciseRecommendations:    "stale",
					StressManagementTechniques: "stale",
					HealthAlerts:               "stale",
				}, nil
			}
			return okResult(), nil
		}}
		uc := usecase.NewRecommendationUseCase(proxy)
		identity := model.NewIdentity()
		ctx := context.Background()

		slowDone := make(chan *model.RecommendationResult, 1)
		go func() {
			r, _ := uc.Generate(ctx, identity, &model.Profile{Goals: "slow"}, nil)
			slowDone <- r
		}()

		// wait until the slow request is in flight
		gt.Bool(t, waitFor(func() bool { return proxy.callCount() == 1 })).True()

		_, err := uc.Generate(ctx, identity, &model.Profile{Goals: "fast"}, nil)
		gt.NoError(t, err).Required()

		close(release)
		slow := <-slowDone
		gt.Value(t, slow.DietaryRecommendations).Equal("stale")

		state := uc.State(identity)
		gt.Value(t, state.Advice).Equal(okResult().Advice())
		gt.Value(t, state.Sequence).Equal(uint64(2))
	})
}

func TestRecommendation_WatchState(t *testing.T) {
	proxy := &mockProxy{fn: func(ctx context.Context, identity model.Identity, req *model.GenerationRequest) (*model.RecommendationResult, error) {
		return okResult(), nil
	}}
	uc := usecase.NewRecommendationUseCase(proxy)
	identity := model.NewIdentity()

	sub := uc.WatchState(context.Background(), identity)
	defer sub.Cancel()

	initial, ok := receive(t, sub.Updates())
	gt.Bool(t, ok).True()
	gt.Value(t, initial.Advice).Nil()
	gt.Value(t, initial.HealthAlerts).Nil()

	uc.GenerateAsync(context.Background(), identity, &model.Profile{Goals: "x"}, nil)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case s, ok := <-sub.Updates():
			gt.Bool(t, ok).True()
			if !s.Loading && s.Advice != nil {
				gt.Value(t, s.Advice).Equal(okResult().Advice())
				return
			}
		case <-deadline:
			t.Fatal("state did not settle")
		}
	}
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}
