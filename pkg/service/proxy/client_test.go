package proxy_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	httpctrl "github.com/healthnav/healthnav/pkg/controller/http"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/domain/types"
	"github.com/healthnav/healthnav/pkg/service/proxy"
	"github.com/healthnav/healthnav/pkg/usecase"
	"github.com/m-mizutani/gt"
)

type mockGenerator struct {
	raw string
	err error
}

func (m *mockGenerator) GenerateJSON(ctx context.Context, prompt string, config *model.GenerationConfig) (string, error) {
	return m.raw, m.err
}

func newRemote(t *testing.T, gen *mockGenerator) (*proxy.Client, func()) {
	t.Helper()

	sessions := usecase.NewSessionUseCase([]byte("shared-secret"))
	srv := httpctrl.New(httpctrl.WithCallable(httpctrl.NewCallable(usecase.NewProxyUseCase(gen), sessions)))
	ts := httptest.NewServer(srv)

	client, err := proxy.New(ts.URL+httpctrl.CallablePath, sessions)
	gt.NoError(t, err).Required()
	return client, ts.Close
}

func request() *model.GenerationRequest {
	return &model.GenerationRequest{
		Prompt:           "advise me",
		GenerationConfig: model.RecommendationConfig(),
	}
}

func kindOf(err error) types.ErrorKind {
	var pe *model.ProxyError
	if !errors.As(err, &pe) {
		return ""
	}
	return pe.Kind
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("result is returned", func(t *testing.T) {
		client, done := newRemote(t, &mockGenerator{
			raw: `{"dietaryRecommendations":"a","exerciseRecommendations":"b","stressManagementTechniques":"c","healthAlerts":"None identified."}`,
		})
		defer done()

		result, err := client.GenerateRecommendations(ctx, model.NewIdentity(), request())
		gt.NoError(t, err).Required()
		gt.Value(t, result.ExerciseRecommendations).Equal("b")
		gt.Bool(t, result.HasAlerts()).False()
	})

	t.Run("empty identity is unauthenticated", func(t *testing.T) {
		client, done := newRemote(t, &mockGenerator{})
		defer done()

		_, err := client.GenerateRecommendations(ctx, "", request())
		gt.Value(t, kindOf(err)).Equal(types.ErrorKindUnauthenticated)
	})

	t.Run("invalid request is invalid argument", func(t *testing.T) {
		client, done := newRemote(t, &mockGenerator{})
		defer done()

		_, err := client.GenerateRecommendations(ctx, model.NewIdentity(), &model.GenerationRequest{})
		gt.Value(t, kindOf(err)).Equal(types.ErrorKindInvalidArgument)
	})

	t.Run("model failure is internal", func(t *testing.T) {
		client, done := newRemote(t, &mockGenerator{err: errors.New("boom")})
		defer done()

		_, err := client.GenerateRecommendations(ctx, model.NewIdentity(), request())
		gt.Value(t, kindOf(err)).Equal(types.ErrorKindInternal)
	})

	t.Run("non callable response is internal", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}))
		defer ts.Close()

		client, err := proxy.New(ts.URL, usecase.NewSessionUseCase([]byte("s")))
		gt.NoError(t, err).Required()

		_, err = client.GenerateRecommendations(ctx, model.NewIdentity(), request())
		gt.Value(t, kindOf(err)).Equal(types.ErrorKindInternal)
	})

	t.Run("unreachable proxy is internal", func(t *testing.T) {
		client, err := proxy.New("http://127.0.0.1:1/generateHealthRecommendations", usecase.NewSessionUseCase([]byte("s")))
		gt.NoError(t, err).Required()

		_, err = client.GenerateRecommendations(ctx, model.NewIdentity(), request())
		gt.Value(t, kindOf(err)).Equal(types.ErrorKindInternal)
	})
}
