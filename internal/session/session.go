// Package session wires the article controllers for one interactive run.
// Every input source (UI, debounce timer, shake sensor, finished requests)
// feeds the same event loop, so controller state is only ever touched from
// one goroutine.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/DuongDinhDang/newsapp/internal/eventloop"
	"github.com/DuongDinhDang/newsapp/internal/gesture"
	"golang.org/x/sync/errgroup"
)

// Remote is the feed client surface both controllers need.
type Remote interface {
	TopFetcher
	ArticleSearcher
}

type Options struct {
	Cache    ArticleCache
	Remote   Remote
	Debounce time.Duration
	// Sensor is optional; without it there is no shake-to-refresh.
	Sensor gesture.Sensor
	Shake  gesture.Options
	Logger *slog.Logger
}

type Session struct {
	Sync   *Controller
	Search *Search

	loop   *eventloop.Loop
	shake  *gesture.Trigger
	sensor gesture.Sensor
	logger *slog.Logger
}

func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loop := eventloop.New(logger.With("component", "eventloop"))
	s := &Session{
		loop:   loop,
		Sync:   NewController(loop, opts.Cache, opts.Remote, logger.With("component", "sync")),
		Search: NewSearch(loop, opts.Remote, opts.Debounce, logger.With("component", "search")),
		sensor: opts.Sensor,
		logger: logger,
	}
	if opts.Sensor != nil {
		s.shake = gesture.NewTrigger(s.refreshDone, opts.Shake, logger.With("component", "gesture"))
	}
	return s
}

// refreshDone adapts ForceRefresh to the gesture trigger's completion signal.
func (s *Session) refreshDone(ctx context.Context) <-chan struct{} {
	states := s.Sync.ForceRefresh(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-states:
		case <-ctx.Done():
		}
	}()
	return done
}

// Run drives the session until ctx ends. The sensor subscription, when
// configured, is released before Run returns.
func (s *Session) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.loop.Run(gctx)
	})
	if s.shake != nil {
		g.Go(func() error {
			if err := s.shake.Run(gctx, s.sensor); err != nil {
				s.logger.Warn("shake refresh disabled", "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}
