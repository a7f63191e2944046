package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/utils/notify"
	"github.com/m-mizutani/goerr/v2"
)

type profileRepository struct {
	mu       sync.RWMutex
	profiles map[model.Identity]map[string]string
	hub      *notify.Hub[model.Identity]
}

func newProfileRepository() *profileRepository {
	return &profileRepository{
		profiles: make(map[model.Identity]map[string]string),
		hub:      notify.NewHub[model.Identity](),
	}
}

func (r *profileRepository) Watch(ctx context.Context, identity model.Identity) (interfaces.ProfileWatcher, error) {
	if err := identity.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid identity for profile watch")
	}

	return newWatcher(ctx, r.hub, identity, func() *model.Profile {
		return r.get(identity)
	}), nil
}

func (r *profileRepository) get(identity model.Identity) *model.Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return model.ProfileFromFields(r.profiles[identity])
}

func (r *profileRepository) Merge(ctx context.Context, identity model.Identity, patch *model.ProfilePatch) error {
	if err := identity.Validate(); err != nil {
		return goerr.Wrap(err, "invalid identity for profile merge")
	}

	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}

	r.mu.Lock()
	current, ok := r.profiles[identity]
	if !ok {
		current = make(map[string]string, len(fields))
		r.profiles[identity] = current
	}
	maps.Copy(current, fields)
	r.mu.Unlock()

	r.hub.Notify(identity)
	return nil
}
