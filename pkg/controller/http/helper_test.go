package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

type mockGenerator struct {
	GenerateJSONFn func(ctx context.Context, prompt string, config *model.GenerationConfig) (string, error)
}

func (m *mockGenerator) GenerateJSON(ctx context.Context, prompt string, config *model.GenerationConfig) (string, error) {
	if m.GenerateJSONFn != nil {
		return m.GenerateJSONFn(ctx, prompt, config)
	}
	return validRecommendationJSON, nil
}

const validRecommendationJSON = `{
	"dietaryRecommendations": "Eat more vegetables",
	"exerciseRecommendations": "Walk daily",
	"stressManagementTechniques": "Meditate",
	"healthAlerts": "None identified."
}`

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &v)).Required()
	return v
}
