package interfaces

import (
	"context"

	"github.com/healthnav/healthnav/pkg/domain/model"
)

// HealthLogRepository defines the interface for the append-only health log collection
type HealthLogRepository interface {
	// Watch starts observing all logs of identity. The first Next returns the
	// current set; later calls block until the collection changes.
	Watch(ctx context.Context, identity model.Identity) (HealthLogWatcher, error)

	// Append stores a new entry and returns it with the assigned ID and timestamp
	Append(ctx context.Context, identity model.Identity, log *model.HealthLog) (*model.HealthLog, error)

	// ListRecent returns at most limit dated entries in display order. Entries
	// without a date are not included.
	ListRecent(ctx context.Context, identity model.Identity, limit int) ([]*model.HealthLog, error)
}

// HealthLogWatcher yields full snapshots of the collection in no particular order
type HealthLogWatcher interface {
	Next() ([]*model.HealthLog, error)
	Stop()
}
