package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/utils/async"
	"github.com/healthnav/healthnav/pkg/utils/logging"
	"github.com/healthnav/healthnav/pkg/utils/notify"
	"github.com/m-mizutani/goerr/v2"
)

// RecommendationUseCase composes a profile and health logs into one request,
// sends it through the recommendation proxy and keeps the outcome as
// observable per-identity state.
type RecommendationUseCase struct {
	proxy          interfaces.RecommendationProxy
	recentLogLimit int

	mu     sync.Mutex
	states map[model.Identity]*model.RecommendationState
	hub    *notify.Hub[model.Identity]
}

// RecommendationOption is a functional option for RecommendationUseCase
type RecommendationOption func(*RecommendationUseCase)

// WithRecentLogLimit sets how many of the most recent logs go into a prompt
func WithRecentLogLimit(n int) RecommendationOption {
	return func(uc *RecommendationUseCase) {
		if n > 0 {
			uc.recentLogLimit = n
		}
	}
}

// NewRecommendationUseCase creates a new RecommendationUseCase instance
func NewRecommendationUseCase(proxy interfaces.RecommendationProxy, opts ...RecommendationOption) *RecommendationUseCase {
	uc := &RecommendationUseCase{
		proxy:          proxy,
		recentLogLimit: DefaultRecentLogLimit,
		states:         make(map[model.Identity]*model.RecommendationState),
		hub:            notify.NewHub[model.Identity](),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Generate requests recommendations for identity. logs must be in display
// order (see SubscribeLogs).
//
// On proxy failure a fallback result is returned together with an error
// wrapping ErrRecommendationFailed, and both are reflected in the state. A
// response that arrives after a newer Generate call for the same identity is
// returned to its caller but not applied to the state.
func (uc *RecommendationUseCase) Generate(ctx context.Context, identity model.Identity, profile *model.Profile, logs []*model.HealthLog) (*model.RecommendationResult, error) {
	if identity.IsEmpty() {
		return nil, goerr.Wrap(ErrNotAuthenticated, "identity is required to generate recommendations")
	}
	if profile.IsEmpty() && len(logs) == 0 {
		uc.update(identity, func(s *model.RecommendationState) {
			s.Error = MessageInsufficientData
		})
		return nil, goerr.Wrap(ErrInsufficientData, "profile and health logs are both empty", goerr.V(IdentityKey, identity))
	}

	seq := uc.begin(identity)
	logger := logging.From(ctx).With(IdentityKey, identity, SequenceKey, seq)

	result, err := uc.request(ctx, identity, profile, logs)
	if err != nil {
		logger.Warn("failed to generate recommendations", "error", err)

		fallback := model.FallbackRecommendation(failureDetail(err))
		if !uc.finish(identity, seq, fallback, MessageRecommendationFailed) {
			logger.Debug("discarded stale recommendation failure")
		}
		return fallback, goerr.Wrap(errors.Join(ErrRecommendationFailed, err), "recommendation request failed",
			goerr.V(IdentityKey, identity),
			goerr.V(SequenceKey, seq))
	}

	if !uc.finish(identity, seq, result, "") {
		logger.Debug("discarded stale recommendation result")
	}
	return result, nil
}

// GenerateAsync runs Generate in the background, detached from the
// cancellation of ctx. Progress is observable through State and WatchState.
func (uc *RecommendationUseCase) GenerateAsync(ctx context.Context, identity model.Identity, profile *model.Profile, logs []*model.HealthLog) {
	async.Dispatch(ctx, func(ctx context.Context) error {
		_, err := uc.Generate(ctx, identity, profile, logs)
		if errors.Is(err, ErrRecommendationFailed) || errors.Is(err, ErrInsufficientData) {
			// already reflected in the state
			return nil
		}
		return err
	})
}

func (uc *RecommendationUseCase) request(ctx context.Context, identity model.Identity, profile *model.Profile, logs []*model.HealthLog) (*model.RecommendationResult, error) {
	prompt, err := buildRecommendationPrompt(profile, logs, uc.recentLogLimit)
	if err != nil {
		return nil, err
	}

	req := &model.GenerationRequest{
		Prompt:           prompt,
		GenerationConfig: model.RecommendationConfig(),
	}
	result, err := uc.proxy.GenerateRecommendations(ctx, identity, req)
	if err != nil {
		return nil, goerr.Wrap(err, "recommendation proxy failed")
	}
	return result, nil
}

// failureDetail is the text put into the alerts field of a fallback result
func failureDetail(err error) string {
	var pe *model.ProxyError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}

// State returns a copy of the current state of identity
func (uc *RecommendationUseCase) State(identity model.Identity) model.RecommendationState {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if s, ok := uc.states[identity]; ok {
		return *s
	}
	return model.RecommendationState{}
}

// WatchState streams the state of identity, starting with the current one
func (uc *RecommendationUseCase) WatchState(ctx context.Context, identity model.Identity) *Subscription[model.RecommendationState] {
	if identity.IsEmpty() {
		return closedSubscription[model.RecommendationState]()
	}

	open := func(ctx context.Context) (snapshotWatcher[model.RecommendationState], error) {
		return &stateWatcher{
			w: notify.NewWatcher(ctx, uc.hub, identity, func() model.RecommendationState {
				return uc.State(identity)
			}),
		}, nil
	}
	empty := func() model.RecommendationState { return model.RecommendationState{} }
	passThrough := func(s model.RecommendationState) model.RecommendationState { return s }

	return subscribe(ctx, "recommendation", open, empty, passThrough)
}

type stateWatcher struct {
	w *notify.Watcher[model.Identity, model.RecommendationState]
}

func (x *stateWatcher) Next() (model.RecommendationState, error) {
	s, err := x.w.Next()
	if errors.Is(err, notify.ErrStopped) {
		return s, model.ErrWatchStopped
	}
	return s, err
}

func (x *stateWatcher) Stop() {
	x.w.Stop()
}

func (uc *RecommendationUseCase) update(identity model.Identity, fn func(s *model.RecommendationState)) {
	uc.mu.Lock()
	s, ok := uc.states[identity]
	if !ok {
		s = &model.RecommendationState{}
		uc.states[identity] = s
	}
	fn(s)
	uc.mu.Unlock()

	uc.hub.Notify(identity)
}

// begin clears the previous outcome, marks a request in flight and returns
// its sequence number
func (uc *RecommendationUseCase) begin(identity model.Identity) uint64 {
	var seq uint64
	uc.update(identity, func(s *model.RecommendationState) {
		seq = s.Sequence + 1
		*s = model.RecommendationState{
			Loading:  true,
			Sequence: seq,
		}
	})
	return seq
}

// finish applies an outcome if seq is still the latest request of identity.
// It reports whether the outcome was applied.
func (uc *RecommendationUseCase) finish(identity model.Identity, seq uint64, result *model.RecommendationResult, errMsg string) bool {
	uc.mu.Lock()
	s, ok := uc.states[identity]
	if !ok || s.Sequence != seq {
		uc.mu.Unlock()
		return false
	}

	alerts := result.HealthAlerts
	s.Advice = result.Advice()
	s.HealthAlerts = &alerts
	s.Loading = false
	s.Error = errMsg
	uc.mu.Unlock()

	uc.hub.Notify(identity)
	return true
}
