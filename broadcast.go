package authclient

import (
	"sort"
	"sync"
)

// broadcaster delivers state snapshots to subscribers one at a time, in the
// order they were staged. A snapshot staged while a delivery is running is
// picked up by the goroutine already delivering, so subscribers always end on
// the latest state. Intermediate snapshots may be coalesced.
//
// Owners call stage while holding their own lock and flush after releasing it.
type broadcaster[T any] struct {
	mu         sync.Mutex
	listeners  map[int]func(T)
	nextID     int
	pending    T
	hasPending bool
	delivering bool
}

func (b *broadcaster[T]) subscribe(l func(T)) func() {
	if l == nil {
		return func() {}
	}

	b.mu.Lock()
	if b.listeners == nil {
		b.listeners = map[int]func(T){}
	}
	id := b.nextID
	b.nextID++
	b.listeners[id] = l
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// active reports whether anyone is subscribed, so owners can skip building
// snapshots nobody reads.
func (b *broadcaster[T]) active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners) > 0
}

// stage replaces the pending snapshot with v.
func (b *broadcaster[T]) stage(v T) {
	b.mu.Lock()
	b.pending = v
	b.hasPending = true
	b.mu.Unlock()
}

// flush delivers pending snapshots unless another goroutine is already doing so.
func (b *broadcaster[T]) flush() {
	b.mu.Lock()
	if b.delivering {
		b.mu.Unlock()
		return
	}
	b.delivering = true

	// a panicking listener must not leave the broadcaster stuck delivering
	completed := false
	defer func() {
		if !completed {
			b.mu.Lock()
			b.delivering = false
			b.mu.Unlock()
		}
	}()

	for {
		// checked and cleared under one lock so a concurrent stage is never stranded
		if !b.hasPending {
			b.delivering = false
			completed = true
			b.mu.Unlock()
			return
		}

		snapshot := b.pending
		var zero T
		b.pending, b.hasPending = zero, false
		listeners := b.snapshotLocked()
		b.mu.Unlock()

		for _, l := range listeners {
			l(snapshot)
		}

		b.mu.Lock()
	}
}

// reset drops every subscriber and any pending snapshot.
func (b *broadcaster[T]) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	var zero T
	b.listeners = map[int]func(T){}
	b.pending, b.hasPending = zero, false
}

func (b *broadcaster[T]) snapshotLocked() []func(T) {
	if len(b.listeners) == 0 {
		return nil
	}
	ids := make([]int, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]func(T), 0, len(ids))
	for _, id := range ids {
		out = append(out, b.listeners[id])
	}
	return out
}
