package event

import (
	"slices"
	"sync"
)

// Emitter is a minimal typed publish/subscribe hub. Publish runs
// synchronously against a snapshot of the subscriber list, so a
// handler may unsubscribe (itself or others) without corrupting the
// iteration. The zero value is ready to use.
type Emitter[T any] struct {
	mu   sync.Mutex
	next int
	subs map[int]func(T)
}

// Subscribe registers fn and returns its unsubscribe handle. Calling
// the handle more than once is harmless.
func (e *Emitter[T]) Subscribe(fn func(T)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.subs == nil {
		e.subs = make(map[int]func(T))
	}
	id := e.next
	e.next++
	e.subs[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

// Publish delivers v to every subscriber registered at the time of the
// call, in subscription order.
func (e *Emitter[T]) Publish(v T) {
	e.mu.Lock()
	ids := make([]int, 0, len(e.subs))
	for id := range e.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	snapshot := make([]func(T), len(ids))
	for i, id := range ids {
		snapshot[i] = e.subs[id]
	}
	e.mu.Unlock()

	for _, fn := range snapshot {
		fn(v)
	}
}
