// Package notify provides keyed change notifications. Listeners receive a
// signal that something changed and re-read the current state themselves, so
// bursts of changes coalesce into a single wake-up.
package notify

import "sync"

// Hub fans change signals out to the listeners registered for a key.
type Hub[K comparable] struct {
	mu        sync.Mutex
	listeners map[K]map[*Listener[K]]struct{}
}

// NewHub creates an empty Hub
func NewHub[K comparable]() *Hub[K] {
	return &Hub[K]{
		listeners: make(map[K]map[*Listener[K]]struct{}),
	}
}

// Listener receives change signals for one key until closed.
type Listener[K comparable] struct {
	hub  *Hub[K]
	key  K
	ch   chan struct{}
	once sync.Once
}

// Listen registers a new listener for key.
func (h *Hub[K]) Listen(key K) *Listener[K] {
	l := &Listener[K]{
		hub: h,
		key: key,
		ch:  make(chan struct{}, 1),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.listeners[key]; !ok {
		h.listeners[key] = make(map[*Listener[K]]struct{})
	}
	h.listeners[key][l] = struct{}{}

	return l
}

// Notify signals every listener of key. It never blocks.
func (h *Hub[K]) Notify(key K) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for l := range h.listeners[key] {
		select {
		case l.ch <- struct{}{}:
		default:
			// a signal is already pending
		}
	}
}

// Count returns the number of open listeners for key.
func (h *Hub[K]) Count(key K) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners[key])
}

// C returns the signal channel. It is never closed.
func (l *Listener[K]) C() <-chan struct{} {
	return l.ch
}

// Close unregisters the listener. Calling it more than once is safe.
func (l *Listener[K]) Close() {
	l.once.Do(func() {
		h := l.hub
		h.mu.Lock()
		defer h.mu.Unlock()

		delete(h.listeners[l.key], l)
		if len(h.listeners[l.key]) == 0 {
			delete(h.listeners, l.key)
		}
	})
}
