package session

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/DuongDinhDang/newsapp/internal/cache"
	"github.com/DuongDinhDang/newsapp/internal/errkind"
	"github.com/DuongDinhDang/newsapp/internal/eventloop"
)

const (
	DefaultDebounce = 500 * time.Millisecond
	// Queries of this many characters or fewer never reach the remote.
	minQueryLen = 2
)

// SearchState is what the UI renders for the search view.
type SearchState struct {
	Query   string
	Results []cache.Article
	Err     errkind.Kind
	// Pending is set while a debounce timer is armed or a request is in
	// flight.
	Pending bool
}

type ArticleSearcher interface {
	Search(ctx context.Context, query string) ([]cache.Article, error)
}

type stopper interface {
	Stop() bool
}

// Search turns a stream of query edits into rate-limited remote searches.
// Only the last edit in a burst is sent.
type Search struct {
	loop      *eventloop.Loop
	remote    ArticleSearcher
	delay     time.Duration
	afterFunc func(time.Duration, func()) stopper
	logger    *slog.Logger

	// loop-owned
	text      string
	gen       uint64
	timer     stopper
	inFlight  int
	state     SearchState
	observers []func(SearchState)

	snapshot atomic.Pointer[SearchState]
}

func NewSearch(loop *eventloop.Loop, remote ArticleSearcher, delay time.Duration, logger *slog.Logger) *Search {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Search{
		loop:   loop,
		remote: remote,
		delay:  delay,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
		logger: logger,
	}
	s.snapshot.Store(&SearchState{})
	return s
}

func (s *Search) State() SearchState {
	return *s.snapshot.Load()
}

// Observe registers fn for every search state change, starting with the
// current one. fn runs on the event loop.
func (s *Search) Observe(fn func(SearchState)) {
	s.loop.Post("search.observe", func() {
		s.observers = append(s.observers, fn)
		fn(s.state)
	})
}

// OnQueryChange records the new input and restarts the debounce timer. ctx
// bounds the request the timer eventually sends.
func (s *Search) OnQueryChange(ctx context.Context, text string) {
	s.loop.Post("search.query", func() {
		s.text = text
		s.gen++
		if s.timer != nil {
			s.timer.Stop()
		}
		gen := s.gen
		s.timer = s.afterFunc(s.delay, func() {
			s.loop.Post("search.debounce", func() { s.fire(ctx, gen) })
		})
		s.update(func(st *SearchState) {
			st.Query = text
			st.Pending = true
		})
	})
}

func (s *Search) fire(ctx context.Context, gen uint64) {
	// A timer that fired just before being stopped still posts; its
	// generation tells it apart from the current one.
	if gen != s.gen {
		return
	}
	s.timer = nil
	query := s.text

	if utf8.RuneCountInString(strings.TrimSpace(query)) <= minQueryLen {
		s.update(func(st *SearchState) {
			st.Results = nil
			st.Err = errkind.None
			st.Pending = s.inFlight > 0
		})
		return
	}

	s.inFlight++
	go func() {
		list, err := s.remote.Search(ctx, query)
		s.loop.Post("search.done", func() { s.complete(query, list, err) })
	}()
}

// complete applies a finished request. Responses are applied in arrival
// order, even when a newer query has been typed since.
func (s *Search) complete(query string, list []cache.Article, err error) {
	s.inFlight--
	if err != nil {
		kind := errkind.Of(err)
		s.logger.Warn("search failed", "query", query, "kind", kind.String(), "error", err)
		s.update(func(st *SearchState) {
			st.Results = nil
			st.Err = kind
			st.Pending = s.timer != nil || s.inFlight > 0
		})
		return
	}
	s.logger.Debug("search done", "query", query, "count", len(list))
	s.update(func(st *SearchState) {
		st.Results = list
		st.Err = errkind.None
		st.Pending = s.timer != nil || s.inFlight > 0
	})
}

func (s *Search) update(fn func(*SearchState)) {
	next := s.state
	fn(&next)
	s.state = next
	s.snapshot.Store(&next)
	for _, obs := range s.observers {
		obs(next)
	}
}
