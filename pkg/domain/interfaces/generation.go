package interfaces

import (
	"context"

	"github.com/healthnav/healthnav/pkg/domain/model"
)

// ContentGenerator sends one prompt to a generative model and returns the raw
// text of its first candidate, constrained to cfg.
type ContentGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, cfg *model.GenerationConfig) (string, error)
}

// RecommendationProxy is the authenticated server-side endpoint the
// orchestrator calls on behalf of identity. Failures are *model.ProxyError.
type RecommendationProxy interface {
	GenerateRecommendations(ctx context.Context, identity model.Identity, req *model.GenerationRequest) (*model.RecommendationResult, error)
}
