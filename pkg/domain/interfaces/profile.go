package interfaces

import (
	"context"

	"github.com/healthnav/healthnav/pkg/domain/model"
)

// ProfileRepository defines the interface for the per-identity profile document
type ProfileRepository interface {
	// Watch starts observing the profile of identity. The first Next returns
	// the current state; later calls block until the document changes.
	Watch(ctx context.Context, identity model.Identity) (ProfileWatcher, error)

	// Merge writes the present fields of patch, leaving other fields untouched.
	// The document is created if it does not exist.
	Merge(ctx context.Context, identity model.Identity, patch *model.ProfilePatch) error
}

// ProfileWatcher yields profile snapshots. A missing document yields an empty
// Profile, never nil.
type ProfileWatcher interface {
	// Next blocks for the next snapshot. It returns model.ErrWatchStopped after
	// Stop or once the watch context ended.
	Next() (*model.Profile, error)
	Stop()
}
