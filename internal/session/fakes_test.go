package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DuongDinhDang/newsapp/internal/cache"
	"github.com/DuongDinhDang/newsapp/internal/errkind"
	"github.com/DuongDinhDang/newsapp/internal/eventloop"
	"github.com/DuongDinhDang/newsapp/internal/logging"
)

func startLoop(t *testing.T) *eventloop.Loop {
	t.Helper()
	loop := eventloop.New(logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	t.Cleanup(cancel)
	return loop
}

// memCache is an in-memory ArticleCache.
type memCache struct {
	mu      sync.Mutex
	list    []cache.Article
	getErr  error
	setErr  error
	gets    int
	cleared int
}

func (m *memCache) Get() ([]cache.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.list, nil
}

func (m *memCache) Set(list []cache.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.list = list
	return nil
}

func (m *memCache) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared++
	m.list = nil
	return nil
}

func (m *memCache) contents() []cache.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list
}

// fakeRemote records calls and returns canned responses. When gate is set,
// each call blocks until the test sends on it.
type fakeRemote struct {
	mu       sync.Mutex
	top      []cache.Article
	topErr   error
	results  map[string][]cache.Article
	err      error
	topCalls int
	queries  []string
	gate     chan struct{}
}

func (f *fakeRemote) TopArticles(ctx context.Context) ([]cache.Article, error) {
	f.mu.Lock()
	f.topCalls++
	gate := f.gate
	top, err := f.top, f.topErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return top, err
}

func (f *fakeRemote) Search(ctx context.Context, query string) ([]cache.Article, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	gate := f.gate
	list, err := f.results[query], f.err
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return list, err
}

func (f *fakeRemote) topCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.topCalls
}

func (f *fakeRemote) searched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func articles(titles ...string) []cache.Article {
	out := make([]cache.Article, len(titles))
	for i, title := range titles {
		out[i] = cache.Article{ID: cache.ArticleID("", title, time.Time{}), Title: title}
	}
	return out
}

func wait[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
	}
	var zero T
	return zero
}

var (
	errRateLimited = &errkind.Error{Kind: errkind.RateLimited, Op: "top articles", Status: 429}
	errCacheBroken = errkind.E(errkind.CacheFault, "cache get", errors.New("corrupt"))
)
