package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/domain/types"
	"github.com/healthnav/healthnav/pkg/repository/memory"
	"github.com/healthnav/healthnav/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestUseCases_LoadRecommendationInput(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()
	identity := model.NewIdentity()

	gt.NoError(t, uc.HealthRecord.UpdateProfile(ctx, identity, &model.ProfilePatch{
		Goals: strPtr("lose weight"),
	})).Required()
	_, err := uc.HealthRecord.AppendLog(ctx, identity, &model.HealthLog{
		Date:      datePtr(2024, time.March, 1),
		HeartRate: intPtr(80),
	})
	gt.NoError(t, err).Required()

	profile, logs, err := uc.LoadRecommendationInput(ctx, identity)
	gt.NoError(t, err).Required()
	gt.Value(t, profile.Goals).Equal("lose weight")
	gt.Array(t, logs).Length(1)
}

func TestUseCases_WithoutProxy(t *testing.T) {
	uc := usecase.New(memory.New())

	_, err := uc.Recommendation.Generate(context.Background(), model.NewIdentity(), &model.Profile{Goals: "x"}, nil)
	gt.Bool(t, errors.Is(err, usecase.ErrRecommendationFailed)).True()
	gt.Value(t, model.ProxyErrorKind(err)).Equal(types.ErrorKindInternal)
}

func TestUseCases_ScenarioLoseWeight(t *testing.T) {
	proxy := &mockProxy{fn: func(ctx context.Context, identity model.Identity, req *model.GenerationRequest) (*model.RecommendationResult, error) {
		return okResult(), nil
	}}
	uc := usecase.New(memory.New(), usecase.WithRecommendationProxy(proxy))
	ctx := context.Background()
	identity := model.NewIdentity()

	gt.NoError(t, uc.HealthRecord.UpdateProfile(ctx, identity, &model.ProfilePatch{
		Goals: strPtr("lose weight"),
	})).Required()
	_, err := uc.HealthRecord.AppendLog(ctx, identity, &model.HealthLog{
		Date:      datePtr(2024, time.March, 1),
		HeartRate: intPtr(80),
	})
	gt.NoError(t, err).Required()

	profile, logs, err := uc.LoadRecommendationInput(ctx, identity)
	gt.NoError(t, err).Required()

	result, err := uc.Recommendation.Generate(ctx, identity, profile, logs)
	gt.NoError(t, err).Required()
	gt.Value(t, result.HealthAlerts).Equal(model.NoHealthAlerts)

	gt.Value(t, proxy.callCount()).Equal(1)
	gt.String(t, proxy.calls[0].Prompt).Contains("lose weight")
	gt.String(t, proxy.calls[0].Prompt).Contains("Heart Rate: 80 bpm")
}
