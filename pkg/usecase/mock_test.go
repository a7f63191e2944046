package usecase_test

import (
	"context"
	"sync"

	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/domain/model"
)

type mockProxy struct {
	mu    sync.Mutex
	calls []*model.GenerationRequest
	fn    func(ctx context.Context, identity model.Identity, req *model.GenerationRequest) (*model.RecommendationResult, error)
}

func (m *mockProxy) GenerateRecommendations(ctx context.Context, identity model.Identity, req *model.GenerationRequest) (*model.RecommendationResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	return m.fn(ctx, identity, req)
}

func (m *mockProxy) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockGenerator struct {
	fn func(ctx context.Context, prompt string, cfg *model.GenerationConfig) (string, error)

	mu    sync.Mutex
	calls int
}

func (m *mockGenerator) GenerateJSON(ctx context.Context, prompt string, cfg *model.GenerationConfig) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.fn(ctx, prompt, cfg)
}

// failingRepository simulates an unavailable document store
type failingRepository struct {
	watchErr error
	nextErr  error
	writeErr error
}

func (r *failingRepository) Profile() interfaces.ProfileRepository     { return &failingProfileRepository{r} }
func (r *failingRepository) HealthLog() interfaces.HealthLogRepository { return &failingHealthLogRepository{r} }
func (r *failingRepository) Close() error                              { return nil }

type failingProfileRepository struct{ r *failingRepository }

func (x *failingProfileRepository) Watch(ctx context.Context, identity model.Identity) (interfaces.ProfileWatcher, error) {
	if x.r.watchErr != nil {
		return nil, x.r.watchErr
	}
	return &failingWatcher[*model.Profile]{err: x.r.nextErr}, nil
}

func (x *failingProfileRepository) Merge(ctx context.Context, identity model.Identity, patch *model.ProfilePatch) error {
	return x.r.writeErr
}

type failingHealthLogRepository struct{ r *failingRepository }

func (x *failingHealthLogRepository) Watch(ctx context.Context, identity model.Identity) (interfaces.HealthLogWatcher, error) {
	if x.r.watchErr != nil {
		return nil, x.r.watchErr
	}
	return &failingWatcher[[]*model.HealthLog]{err: x.r.nextErr}, nil
}

func (x *failingHealthLogRepository) Append(ctx context.Context, identity model.Identity, log *model.HealthLog) (*model.HealthLog, error) {
	return nil, x.r.writeErr
}

func (x *failingHealthLogRepository) ListRecent(ctx context.Context, identity model.Identity, limit int) ([]*model.HealthLog, error) {
	return nil, x.r.nextErr
}

type failingWatcher[T any] struct {
	err error
}

func (w *failingWatcher[T]) Next() (T, error) {
	var zero T
	return zero, w.err
}

func (w *failingWatcher[T]) Stop() {}
