package tui

import (
	"context"
	"sync/atomic"
)

// relay hands controller snapshots to the program. push never blocks, so a
// slow UI cannot stall the event loop; only the newest snapshot is kept.
type relay[T any] struct {
	latest atomic.Pointer[T]
	notify chan struct{}
}

func newRelay[T any]() *relay[T] {
	return &relay[T]{notify: make(chan struct{}, 1)}
}

func (r *relay[T]) push(v T) {
	r.latest.Store(&v)
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

func (r *relay[T]) forward(ctx context.Context, send func(T)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.notify:
			if v := r.latest.Load(); v != nil {
				send(*v)
			}
		}
	}
}
