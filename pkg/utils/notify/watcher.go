package notify

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned by Watcher.Next after Stop or once its context ended
var ErrStopped = errors.New("watcher stopped")

// Watcher yields the current state of one key once, then again after every
// change signal for that key.
type Watcher[K comparable, T any] struct {
	ctx      context.Context
	listener *Listener[K]
	snapshot func() T

	mu      sync.Mutex
	started bool
	stop    chan struct{}
	once    sync.Once
}

// NewWatcher registers a listener for key on h. snapshot reads the current state.
func NewWatcher[K comparable, T any](ctx context.Context, h *Hub[K], key K, snapshot func() T) *Watcher[K, T] {
	return &Watcher[K, T]{
		ctx:      ctx,
		listener: h.Listen(key),
		snapshot: snapshot,
		stop:     make(chan struct{}),
	}
}

// Next returns the current state on the first call and blocks for a change
// on later calls.
func (w *Watcher[K, T]) Next() (T, error) {
	var zero T

	select {
	case <-w.stop:
		return zero, ErrStopped
	case <-w.ctx.Done():
		return zero, errors.Join(ErrStopped, w.ctx.Err())
	default:
	}

	w.mu.Lock()
	first := !w.started
	w.started = true
	w.mu.Unlock()

	if first {
		// changes before the first snapshot are already part of it
		select {
		case <-w.listener.C():
		default:
		}
		return w.snapshot(), nil
	}

	select {
	case <-w.listener.C():
		return w.snapshot(), nil
	case <-w.stop:
		return zero, ErrStopped
	case <-w.ctx.Done():
		return zero, errors.Join(ErrStopped, w.ctx.Err())
	}
}

// Stop unregisters the watcher. It is safe to call more than once.
func (w *Watcher[K, T]) Stop() {
	w.once.Do(func() {
		close(w.stop)
		w.listener.Close()
	})
}
