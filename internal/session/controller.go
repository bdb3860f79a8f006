package session

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/DuongDinhDang/newsapp/internal/cache"
	"github.com/DuongDinhDang/newsapp/internal/errkind"
	"github.com/DuongDinhDang/newsapp/internal/eventloop"
)

type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// State is what the UI renders for the headline list.
type State struct {
	Status   Status
	Articles []cache.Article
	Err      errkind.Kind
}

// ArticleCache is the local persistence the controller reads first.
type ArticleCache interface {
	Get() ([]cache.Article, error)
	Set([]cache.Article) error
	Clear() error
}

// TopFetcher loads the current headlines from the remote feed.
type TopFetcher interface {
	TopArticles(ctx context.Context) ([]cache.Article, error)
}

// Controller owns the headline list. State changes happen only on the event
// loop, and at most one remote fetch is in flight at a time.
type Controller struct {
	loop   *eventloop.Loop
	cache  ArticleCache
	remote TopFetcher
	logger *slog.Logger

	// loop-owned
	state     State
	observers []func(State)

	snapshot atomic.Pointer[State]
}

func NewController(loop *eventloop.Loop, c ArticleCache, remote TopFetcher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	ctrl := &Controller{loop: loop, cache: c, remote: remote, logger: logger}
	ctrl.snapshot.Store(&State{})
	return ctrl
}

// State returns the latest state.
func (c *Controller) State() State {
	return *c.snapshot.Load()
}

// Observe registers fn to receive every state change, starting with the
// current state. fn runs on the event loop and must not block for long.
func (c *Controller) Observe(fn func(State)) {
	c.loop.Post("sync.observe", func() {
		c.observers = append(c.observers, fn)
		fn(c.state)
	})
}

// LoadArticles serves the cached list when there is one and only goes to the
// remote feed on a miss. The returned channel yields the resulting state, or
// is closed without a value if the loop stops first.
func (c *Controller) LoadArticles(ctx context.Context) <-chan State {
	done := make(chan State, 1)
	c.loop.PostOrDrop("sync.load", func() {
		if c.state.Status == Loading {
			c.logger.Debug("load dropped, fetch in flight")
			c.resolve(done)
			return
		}
		c.setState(State{Status: Loading})

		list, err := c.cache.Get()
		if err != nil {
			c.logger.Warn("cache read failed, treating as miss", "error", err)
		} else if len(list) > 0 {
			c.logger.Debug("serving cached articles", "count", len(list))
			c.setState(State{Status: Ready, Articles: list})
			c.resolve(done)
			return
		}
		c.fetch(ctx, done)
	}, func() { close(done) })
	return done
}

// ForceRefresh bypasses the cache and always asks the remote feed. It is
// what pull-to-refresh, the retry action and the shake gesture call.
// The cache is deliberately not cleared up front: a failed refresh keeps
// the last good list, and a successful one overwrites it.
func (c *Controller) ForceRefresh(ctx context.Context) <-chan State {
	done := make(chan State, 1)
	c.loop.PostOrDrop("sync.refresh", func() {
		if c.state.Status == Loading {
			c.logger.Debug("refresh dropped, fetch in flight")
			c.resolve(done)
			return
		}
		c.setState(State{Status: Loading})
		c.fetch(ctx, done)
	}, func() { close(done) })
	return done
}

// fetch runs the remote call off the loop and posts the outcome back.
func (c *Controller) fetch(ctx context.Context, done chan State) {
	go func() {
		list, err := c.remote.TopArticles(ctx)
		c.loop.PostOrDrop("sync.fetched", func() {
			c.complete(list, err)
			c.resolve(done)
		}, func() { close(done) })
	}()
}

func (c *Controller) complete(list []cache.Article, err error) {
	if err != nil {
		kind := errkind.Of(err)
		c.logger.Warn("fetching articles failed", "kind", kind.String(), "error", err)
		c.setState(State{Status: Error, Err: kind})
		return
	}
	if err := c.cache.Set(list); err != nil {
		c.logger.Warn("caching articles failed", "error", err)
	}
	c.logger.Info("articles fetched", "count", len(list))
	c.setState(State{Status: Ready, Articles: list})
}

func (c *Controller) resolve(done chan State) {
	done <- c.state
	close(done)
}

func (c *Controller) setState(s State) {
	c.state = s
	c.snapshot.Store(&s)
	for _, fn := range c.observers {
		fn(s)
	}
}
