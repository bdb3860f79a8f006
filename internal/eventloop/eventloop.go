// Package eventloop runs controller events one at a time on a single
// goroutine. UI input, timers, sensor callbacks and finished network calls
// are all posted here, so state owned by the loop is never mutated
// concurrently.
package eventloop

import (
	"context"
	"log/slog"
	"sync"
)

const defaultQueueSize = 64

type event struct {
	source string
	fn     func()
	drop   func()
}

type Loop struct {
	queue   chan event
	stopped chan struct{}
	logger  *slog.Logger

	mu      sync.Mutex
	closed  bool
	senders sync.WaitGroup
}

func New(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		queue:   make(chan event, defaultQueueSize),
		stopped: make(chan struct{}),
		logger:  logger,
	}
}

// Post enqueues fn under the name of the source that produced it. It reports
// false once the loop has stopped; fn is then never run. Post must not be
// called from inside a running event.
func (l *Loop) Post(source string, fn func()) bool {
	return l.PostOrDrop(source, fn, nil)
}

// PostOrDrop is Post with a fallback: exactly one of fn and drop runs. drop
// runs when the loop is already stopped, or when it stops with the event
// still queued.
func (l *Loop) PostOrDrop(source string, fn, drop func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		runDrop(drop)
		return false
	}
	l.senders.Add(1)
	l.mu.Unlock()
	defer l.senders.Done()

	select {
	case l.queue <- event{source: source, fn: fn, drop: drop}:
		return true
	case <-l.stopped:
		runDrop(drop)
		return false
	}
}

// Run processes events until ctx is done. Events still queued at that point
// are dropped, not run.
func (l *Loop) Run(ctx context.Context) error {
	defer l.shutdown()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-l.queue:
			if ctx.Err() != nil {
				l.discard(ev)
				return nil
			}
			l.logger.Debug("event", "source", ev.source)
			ev.fn()
		}
	}
}

func (l *Loop) shutdown() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.stopped)
	l.mu.Unlock()

	// Posters that got in before the close either enqueue or see stopped.
	l.senders.Wait()
	for {
		select {
		case ev := <-l.queue:
			l.discard(ev)
		default:
			return
		}
	}
}

func (l *Loop) discard(ev event) {
	l.logger.Debug("event dropped", "source", ev.source)
	runDrop(ev.drop)
}

func runDrop(drop func()) {
	if drop != nil {
		drop()
	}
}

// Stopped is closed when Run returns.
func (l *Loop) Stopped() <-chan struct{} {
	return l.stopped
}
