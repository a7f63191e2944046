package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Subscription delivers snapshots of one live source until it is canceled.
// The Updates channel is closed when the subscription ends.
type Subscription[T any] struct {
	updates chan T
	done    chan struct{}
	cancel  context.CancelFunc
	once    sync.Once
}

// Updates returns the snapshot channel
func (s *Subscription[T]) Updates() <-chan T {
	return s.updates
}

// Done is closed once the subscription released its watch
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Cancel stops emissions and waits until the underlying watch is released.
// It is safe to call more than once.
func (s *Subscription[T]) Cancel() {
	s.once.Do(s.cancel)
	<-s.done
}

// closedSubscription returns a subscription that never emits
func closedSubscription[T any]() *Subscription[T] {
	s := &Subscription[T]{
		updates: make(chan T),
		done:    make(chan struct{}),
		cancel:  func() {},
	}
	close(s.updates)
	close(s.done)
	return s
}

type snapshotWatcher[T any] interface {
	Next() (T, error)
	Stop()
}

// subscribe runs open in a goroutine and forwards every snapshot through
// transform. A failing store emits empty() once and ends the stream.
func subscribe[T any](
	ctx context.Context,
	name string,
	open func(ctx context.Context) (snapshotWatcher[T], error),
	empty func() T,
	transform func(T) T,
) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription[T]{
		updates: make(chan T),
		done:    make(chan struct{}),
		cancel:  cancel,
	}

	send := func(v T) bool {
		select {
		case s.updates <- v:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(s.done)
		defer close(s.updates)
		logger := logging.From(ctx).With("subscription", name)

		w, err := open(ctx)
		if err != nil {
			logger.Warn("failed to start watch", "error", err)
			send(empty())
			return
		}
		defer w.Stop()

		for {
			v, err := w.Next()
			if err != nil {
				if errors.Is(err, model.ErrWatchStopped) {
					return
				}
				logger.Warn("watch failed", "error", err)
				send(empty())
				return
			}
			if !send(transform(v)) {
				return
			}
		}
	}()

	return s
}

// first takes the first emission of s and cancels it
func first[T any](ctx context.Context, s *Subscription[T], empty func() T) (T, error) {
	defer s.Cancel()

	select {
	case v, ok := <-s.Updates():
		if !ok {
			return empty(), nil
		}
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, goerr.Wrap(ctx.Err(), "canceled while waiting for snapshot")
	}
}
