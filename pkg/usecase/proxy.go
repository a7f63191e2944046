package usecase

import (
	"context"

	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/domain/types"
	"github.com/healthnav/healthnav/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Messages returned to callers of the recommendation proxy
const (
	ProxyMessageUnauthenticated = "The function must be called while authenticated."
	ProxyMessageInvalidArgument = `The function must be called with a "prompt" and "generationConfig".`
	ProxyMessageInternal        = "Failed to generate recommendations due to an internal server error. Please try again."
)

// ProxyUseCase is the stateless boundary between callers and the generative
// model. It holds no data between invocations.
type ProxyUseCase struct {
	generator interfaces.ContentGenerator
}

var _ interfaces.RecommendationProxy = &ProxyUseCase{}

// NewProxyUseCase creates a new ProxyUseCase instance
func NewProxyUseCase(generator interfaces.ContentGenerator) *ProxyUseCase {
	return &ProxyUseCase{generator: generator}
}

// GenerateRecommendations forwards req to the model on behalf of identity
// and strictly parses the answer. Every failure carries a *model.ProxyError.
func (uc *ProxyUseCase) GenerateRecommendations(ctx context.Context, identity model.Identity, req *model.GenerationRequest) (*model.RecommendationResult, error) {
	if identity.IsEmpty() {
		return nil, goerr.Wrap(model.NewProxyError(types.ErrorKindUnauthenticated, ProxyMessageUnauthenticated, ""),
			"caller is not authenticated")
	}
	if err := req.Validate(); err != nil {
		return nil, goerr.Wrap(model.NewProxyError(types.ErrorKindInvalidArgument, ProxyMessageInvalidArgument, err.Error()),
			"invalid generation request", goerr.V(IdentityKey, identity))
	}

	logger := logging.From(ctx).With(IdentityKey, identity)

	raw, err := uc.generator.GenerateJSON(ctx, req.Prompt, req.GenerationConfig)
	if err != nil {
		logger.Error("model call failed", "error", err)
		return nil, goerr.Wrap(model.NewProxyError(types.ErrorKindInternal, ProxyMessageInternal, err.Error()),
			"model call failed", goerr.V(IdentityKey, identity))
	}

	result, err := model.ParseRecommendation(raw)
	if err != nil {
		logger.Error("model returned malformed document", "error", err, "raw", raw)
		return nil, goerr.Wrap(model.NewProxyError(types.ErrorKindInternal, ProxyMessageInternal, err.Error()),
			"malformed model output", goerr.V(IdentityKey, identity))
	}

	return result, nil
}
