package memory

import (
	"context"
	"sync"
	"time"

	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/utils/notify"
	"github.com/m-mizutani/goerr/v2"
)

type healthLogRepository struct {
	mu   sync.RWMutex
	logs map[model.Identity][]*model.HealthLog
	hub  *notify.Hub[model.Identity]
}

func newHealthLogRepository() *healthLogRepository {
	return &healthLogRepository{
		logs: make(map[model.Identity][]*model.HealthLog),
		hub:  notify.NewHub[model.Identity](),
	}
}

// copyHealthLog creates a deep copy of a health log
func copyHealthLog(log *model.HealthLog) *model.HealthLog {
	copied := *log
	if log.Date != nil {
		d := *log.Date
		copied.Date = &d
	}
	if log.HeartRate != nil {
		v := *log.HeartRate
		copied.HeartRate = &v
	}
	if log.SleepHours != nil {
		v := *log.SleepHours
		copied.SleepHours = &v
	}
	if log.ActivityMinutes != nil {
		v := *log.ActivityMinutes
		copied.ActivityMinutes = &v
	}
	return &copied
}

func (r *healthLogRepository) Watch(ctx context.Context, identity model.Identity) (interfaces.HealthLogWatcher, error) {
	if err := identity.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid identity for health log watch")
	}

	return newWatcher(ctx, r.hub, identity, func() []*model.HealthLog {
		return r.list(identity)
	}), nil
}

func (r *healthLogRepository) list(identity model.Identity) []*model.HealthLog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.logs[identity]
	logs := make([]*model.HealthLog, 0, len(stored))
	for _, log := range stored {
		logs = append(logs, copyHealthLog(log))
	}
	return logs
}

func (r *healthLogRepository) Append(ctx context.Context, identity model.Identity, log *model.HealthLog) (*model.HealthLog, error) {
	if err := identity.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid identity for health log append")
	}
	if err := log.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid health log")
	}

	created := copyHealthLog(log)
	if created.ID == "" {
		created.ID = model.NewHealthLogID()
	}
	if created.Timestamp.IsZero() {
		created.Timestamp = time.Now().UTC()
	}

	r.mu.Lock()
	r.logs[identity] = append(r.logs[identity], created)
	r.mu.Unlock()

	r.hub.Notify(identity)
	return copyHealthLog(created), nil
}

func (r *healthLogRepository) ListRecent(ctx context.Context, identity model.Identity, limit int) ([]*model.HealthLog, error) {
	if err := identity.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid identity for health log list")
	}

	var dated []*model.HealthLog
	for _, log := range r.list(identity) {
		if log.Date != nil {
			dated = append(dated, log)
		}
	}
	model.SortHealthLogs(dated)
	return model.RecentHealthLogs(dated, limit), nil
}
