package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DuongDinhDang/newsapp/internal/cache"
	"github.com/DuongDinhDang/newsapp/internal/locale"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.input); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewLimiter(t *testing.T) {
	if newLimiter(0) != nil {
		t.Error("expected no limiter for 0 requests per minute")
	}
	if newLimiter(-5) != nil {
		t.Error("expected no limiter for negative budget")
	}
	l := newLimiter(30)
	if l == nil {
		t.Fatal("expected limiter")
	}
	if got := l.Limit(); float64(got) != 0.5 {
		t.Errorf("expected 0.5 req/s, got %v", got)
	}
	if l.Burst() != 3 {
		t.Errorf("expected burst 3, got %d", l.Burst())
	}
	if newLimiter(1).Burst() != 1 {
		t.Error("burst should not exceed the per-minute budget")
	}
}

func TestPrintArticles(t *testing.T) {
	var buf bytes.Buffer
	msgs := locale.For("en")
	printArticles(&buf, []cache.Article{
		{Title: "Alpha", Link: "https://example.com/a", PublishedAt: time.Date(2024, 3, 9, 12, 0, 0, 0, time.Local)},
		{},
	}, msgs)

	out := buf.String()
	for _, want := range []string{" 1. Alpha", "Mar 9, 2024  https://example.com/a", " 2. No title", "No date"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	printArticles(&buf, nil, msgs)
	if strings.TrimSpace(buf.String()) != "No articles found" {
		t.Errorf("unexpected empty output %q", buf.String())
	}
}

func TestShortQuery(t *testing.T) {
	tests := []struct {
		q    string
		want bool
	}{
		{"", true},
		{"ab", true},
		{"  ab  ", true},
		{"abc", false},
		{"tin", false},
		{"tư", true},
	}
	for _, tt := range tests {
		if got := shortQuery(tt.q); got != tt.want {
			t.Errorf("shortQuery(%q) = %v, want %v", tt.q, got, tt.want)
		}
	}
}

// testEnv points the commands at a temporary config and cache, with the
// remote feed served by handler.
func testEnv(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	dir := t.TempDir()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf("endpoint: %s\napi_key: test-key\nrequests_per_minute: 0\nlog_level: error\n", srv.URL)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	dbPath := filepath.Join(dir, "newsapp.db")
	prev := cachePath
	cachePath = func() string { return dbPath }
	t.Cleanup(func() {
		cachePath = prev
		flagHeadlinesRefresh = false
		flagConfig = ""
	})
	return cfgPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestHeadlinesCachesBetweenRuns(t *testing.T) {
	var calls atomic.Int32
	var down atomic.Bool
	cfgPath := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if down.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"status":"success","results":[{"title":"First story","link":"https://example.com/1"},{"title":"Second story"}]}`))
	})

	out, err := execute(t, "headlines", "--config", cfgPath)
	if err != nil {
		t.Fatalf("headlines: %v\n%s", err, out)
	}
	if !strings.Contains(out, "First story") || !strings.Contains(out, "Second story") {
		t.Errorf("unexpected output:\n%s", out)
	}

	// Second run is served from the cache even though the remote is failing
	down.Store(true)
	out, err = execute(t, "headlines", "--config", cfgPath)
	if err != nil {
		t.Fatalf("cached headlines: %v\n%s", err, out)
	}
	if !strings.Contains(out, "First story") {
		t.Errorf("expected cached articles:\n%s", out)
	}
	if calls.Load() != 1 {
		t.Errorf("expected one remote call, got %d", calls.Load())
	}

	out, err = execute(t, "headlines", "--refresh", "--config", cfgPath)
	if err == nil {
		t.Fatalf("expected refresh against failing remote to fail:\n%s", out)
	}
	if !strings.Contains(err.Error(), "Could not load news") {
		t.Errorf("expected localized error, got %v", err)
	}

	out, err = execute(t, "stats", "--config", cfgPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "Articles: 2") {
		t.Errorf("expected failed refresh to keep the cache:\n%s", out)
	}

	if _, err := execute(t, "cache", "clear", "--config", cfgPath); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	out, _ = execute(t, "stats", "--config", cfgPath)
	if !strings.Contains(out, "Articles: 0") {
		t.Errorf("expected empty cache after clear:\n%s", out)
	}
}

func TestHeadlinesUnauthorized(t *testing.T) {
	cfgPath := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := execute(t, "headlines", "--config", cfgPath)
	if err == nil || !strings.Contains(err.Error(), "Invalid API key") {
		t.Errorf("expected invalid key message, got %v", err)
	}
}

func TestSearchCommand(t *testing.T) {
	var gotQuery atomic.Value
	cfgPath := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query().Get("q"))
		w.Write([]byte(`{"status":"success","results":[{"title":"Election results"}]}`))
	})

	out, err := execute(t, "search", "--config", cfgPath, "election", "day")
	if err != nil {
		t.Fatalf("search: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Election results") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if q, _ := gotQuery.Load().(string); q != "election day" {
		t.Errorf("expected query %q, got %q", "election day", q)
	}
}

func TestSearchShortQuerySkipsRemote(t *testing.T) {
	var calls atomic.Int32
	cfgPath := testEnv(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"results":[]}`))
	})

	out, err := execute(t, "search", "--config", cfgPath, "ab")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "Type a keyword to search") {
		t.Errorf("expected search hint:\n%s", out)
	}
	if calls.Load() != 0 {
		t.Errorf("short query reached the remote %d times", calls.Load())
	}
}

func TestVersion(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "today")
	t.Cleanup(func() { SetVersionInfo("dev", "none", "unknown") })

	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "newsapp 1.2.3 (commit: abc123, built: today)") {
		t.Errorf("unexpected version output %q", out)
	}
}
