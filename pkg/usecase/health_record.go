package usecase

import (
	"context"
	"errors"

	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// HealthRecordUseCase is the data-access layer for profiles and health logs
type HealthRecordUseCase struct {
	repo interfaces.Repository
}

// NewHealthRecordUseCase creates a new HealthRecordUseCase instance
func NewHealthRecordUseCase(repo interfaces.Repository) *HealthRecordUseCase {
	return &HealthRecordUseCase{repo: repo}
}

func emptyProfile() *model.Profile {
	return &model.Profile{}
}

func emptyHealthLogs() []*model.HealthLog {
	return []*model.HealthLog{}
}

// SubscribeProfile streams the profile of identity. A missing document is
// emitted as an empty profile. Store failures are logged and end the stream
// after one empty emission. An empty identity yields a closed subscription.
func (uc *HealthRecordUseCase) SubscribeProfile(ctx context.Context, identity model.Identity) *Subscription[*model.Profile] {
	if identity.IsEmpty() {
		return closedSubscription[*model.Profile]()
	}

	open := func(ctx context.Context) (snapshotWatcher[*model.Profile], error) {
		return uc.repo.Profile().Watch(ctx, identity)
	}
	passThrough := func(p *model.Profile) *model.Profile { return p }

	return subscribe(ctx, "profile", open, emptyProfile, passThrough)
}

// SubscribeLogs streams every health log of identity sorted newest date
// first, entries without a date last.
func (uc *HealthRecordUseCase) SubscribeLogs(ctx context.Context, identity model.Identity) *Subscription[[]*model.HealthLog] {
	if identity.IsEmpty() {
		return closedSubscription[[]*model.HealthLog]()
	}

	open := func(ctx context.Context) (snapshotWatcher[[]*model.HealthLog], error) {
		return uc.repo.HealthLog().Watch(ctx, identity)
	}
	sorted := func(logs []*model.HealthLog) []*model.HealthLog {
		if logs == nil {
			return emptyHealthLogs()
		}
		model.SortHealthLogs(logs)
		return logs
	}

	return subscribe(ctx, "healthLogs", open, emptyHealthLogs, sorted)
}

// CurrentProfile reads the profile once
func (uc *HealthRecordUseCase) CurrentProfile(ctx context.Context, identity model.Identity) (*model.Profile, error) {
	if identity.IsEmpty() {
		return nil, goerr.Wrap(ErrNotAuthenticated, "identity is required to read profile")
	}
	return first(ctx, uc.SubscribeProfile(ctx, identity), emptyProfile)
}

// CurrentLogs reads all health logs once, in display order
func (uc *HealthRecordUseCase) CurrentLogs(ctx context.Context, identity model.Identity) ([]*model.HealthLog, error) {
	if identity.IsEmpty() {
		return nil, goerr.Wrap(ErrNotAuthenticated, "identity is required to read health logs")
	}
	return first(ctx, uc.SubscribeLogs(ctx, identity), emptyHealthLogs)
}

// RecentLogs returns at most limit dated entries in display order
func (uc *HealthRecordUseCase) RecentLogs(ctx context.Context, identity model.Identity, limit int) ([]*model.HealthLog, error) {
	if identity.IsEmpty() {
		return nil, goerr.Wrap(ErrNotAuthenticated, "identity is required to read health logs")
	}
	if limit <= 0 {
		return nil, goerr.Wrap(ErrInvalidLimit, "failed to list recent health logs", goerr.V("limit", limit))
	}

	logs, err := uc.repo.HealthLog().ListRecent(ctx, identity, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list recent health logs", goerr.V(IdentityKey, identity))
	}
	return logs, nil
}

// UpdateProfile merge-writes the present fields of patch. Absent fields keep
// their stored value. An empty patch is a successful no-op.
func (uc *HealthRecordUseCase) UpdateProfile(ctx context.Context, identity model.Identity, patch *model.ProfilePatch) error {
	if identity.IsEmpty() {
		return goerr.Wrap(ErrNotAuthenticated, "identity is required to update profile")
	}
	if patch.IsEmpty() {
		return nil
	}

	if err := uc.repo.Profile().Merge(ctx, identity, patch); err != nil {
		return goerr.Wrap(errors.Join(ErrWriteFailed, err), "failed to update profile", goerr.V(IdentityKey, identity))
	}
	return nil
}

// AppendLog validates and appends a new health log entry. The stored entry
// with its assigned ID is returned.
func (uc *HealthRecordUseCase) AppendLog(ctx context.Context, identity model.Identity, entry *model.HealthLog) (*model.HealthLog, error) {
	if identity.IsEmpty() {
		return nil, goerr.Wrap(ErrNotAuthenticated, "identity is required to append health log")
	}
	if entry == nil {
		return nil, goerr.Wrap(ErrInvalidHealthLog, "health log is missing")
	}
	if err := entry.Validate(); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidHealthLog, err), "health log is invalid")
	}

	created, err := uc.repo.HealthLog().Append(ctx, identity, entry)
	if err != nil {
		return nil, goerr.Wrap(errors.Join(ErrWriteFailed, err), "failed to append health log", goerr.V(IdentityKey, identity))
	}
	return created, nil
}
