package memory

import (
	"context"
	"errors"

	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/utils/notify"
	"github.com/m-mizutani/goerr/v2"
)

// watcher adapts notify.Watcher to the repository watch contract
type watcher[T any] struct {
	w *notify.Watcher[model.Identity, T]
}

func newWatcher[T any](ctx context.Context, hub *notify.Hub[model.Identity], identity model.Identity, snapshot func() T) *watcher[T] {
	return &watcher[T]{w: notify.NewWatcher(ctx, hub, identity, snapshot)}
}

func (x *watcher[T]) Next() (T, error) {
	v, err := x.w.Next()
	if err != nil {
		if errors.Is(err, notify.ErrStopped) {
			return v, goerr.Wrap(errors.Join(model.ErrWatchStopped, err), "memory watch ended")
		}
		return v, goerr.Wrap(err, "memory watch failed")
	}
	return v, nil
}

func (x *watcher[T]) Stop() {
	x.w.Stop()
}
