package usecase

import (
	"context"

	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

type UseCases struct {
	repo           interfaces.Repository
	proxy          interfaces.RecommendationProxy
	recentLogLimit int

	HealthRecord   *HealthRecordUseCase
	Recommendation *RecommendationUseCase
	Session        SessionUseCaseInterface
}

type Option func(*UseCases)

// WithRecommendationProxy sets the proxy the orchestrator calls
func WithRecommendationProxy(proxy interfaces.RecommendationProxy) Option {
	return func(uc *UseCases) {
		uc.proxy = proxy
	}
}

// WithSession sets the session issuer/verifier
func WithSession(session SessionUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Session = session
	}
}

// WithPromptLogLimit sets how many recent logs are embedded in a prompt
func WithPromptLogLimit(n int) Option {
	return func(uc *UseCases) {
		uc.recentLogLimit = n
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:           repo,
		proxy:          unavailableProxy{},
		recentLogLimit: DefaultRecentLogLimit,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.HealthRecord = NewHealthRecordUseCase(repo)
	uc.Recommendation = NewRecommendationUseCase(uc.proxy, WithRecentLogLimit(uc.recentLogLimit))

	return uc
}

// LoadRecommendationInput reads the current profile and all health logs of
// identity concurrently
func (uc *UseCases) LoadRecommendationInput(ctx context.Context, identity model.Identity) (*model.Profile, []*model.HealthLog, error) {
	var profile *model.Profile
	var logs []*model.HealthLog

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		profile, err = uc.HealthRecord.CurrentProfile(ctx, identity)
		return err
	})
	eg.Go(func() error {
		var err error
		logs, err = uc.HealthRecord.CurrentLogs(ctx, identity)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load recommendation input", goerr.V(IdentityKey, identity))
	}

	return profile, logs, nil
}

// unavailableProxy is used when no recommendation proxy is configured
type unavailableProxy struct{}

func (unavailableProxy) GenerateRecommendations(ctx context.Context, identity model.Identity, req *model.GenerationRequest) (*model.RecommendationResult, error) {
	return nil, model.NewProxyError(types.ErrorKindInternal, ProxyMessageInternal, "recommendation proxy is not configured")
}
