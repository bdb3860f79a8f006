package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/DuongDinhDang/newsapp/internal/cache"
	"github.com/DuongDinhDang/newsapp/internal/config"
	"github.com/DuongDinhDang/newsapp/internal/feed"
	"github.com/DuongDinhDang/newsapp/internal/gesture"
	"github.com/DuongDinhDang/newsapp/internal/locale"
	"github.com/DuongDinhDang/newsapp/internal/logging"
	"github.com/DuongDinhDang/newsapp/internal/session"
)

// cachePath is swapped in tests.
var cachePath = config.CachePath

// env is everything a command needs: config, the open store and a session
// wired to the remote feed.
type env struct {
	cfg     *config.Config
	store   *cache.Store
	session *session.Session
	msgs    *locale.Messages
	logger  *slog.Logger
	closers []io.Closer
}

// newEnv loads configuration and opens the cache. logOut is where the logger
// writes; the TUI passes nil to log to a file instead.
func newEnv(logOut io.Writer, sensorPath string) (*env, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}

	e := &env{cfg: cfg, msgs: locale.For(cfg.Locale)}
	if logOut != nil {
		e.logger = logging.New(level, logOut)
	} else {
		logger, closer, err := logging.OpenFile(config.LogPath(), level)
		if err != nil {
			return nil, err
		}
		e.logger = logger
		e.closers = append(e.closers, closer)
	}

	store, err := cache.Open(cachePath())
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	e.store = store
	e.closers = append(e.closers, store)

	apiKey := cfg.ResolvedAPIKey()
	if apiKey == "" {
		e.logger.Warn("no API key configured", "env", config.APIKeyEnv)
	}
	client := feed.NewClient(feed.Options{
		Endpoint: cfg.Endpoint,
		APIKey:   apiKey,
		Country:  cfg.Country,
		Language: cfg.Language,
		Limiter:  newLimiter(cfg.RequestsPerMinute),
	}, nil, e.logger.With("component", "feed"))

	opts := session.Options{
		Cache:    cache.NewArticles(store),
		Remote:   client,
		Debounce: cfg.DebounceDuration(),
		Shake: gesture.Options{
			Threshold: cfg.Shake.Threshold,
			Cooldown:  cfg.ShakeCooldown(),
			Interval:  cfg.ShakeInterval(),
		},
		Logger: e.logger,
	}

	if sensorPath == "" {
		sensorPath = cfg.Shake.Sensor
	}
	if sensorPath != "" {
		sensor, err := gesture.OpenSensor(sensorPath, e.logger.With("component", "sensor"))
		if err != nil {
			// Non-fatal: the app works without shake-to-refresh.
			e.logger.Warn("sensor unavailable", "path", sensorPath, "error", err)
		} else {
			opts.Sensor = sensor
		}
	}

	e.session = session.New(opts)
	return e, nil
}

// start runs the session in the background. The returned func stops it and
// waits for it to finish.
func (e *env) start(ctx context.Context) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := e.session.Run(ctx); err != nil {
			e.logger.Error("session stopped", "error", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i].Close())
	}
	return errors.Join(errs...)
}

// newLimiter spreads perMinute requests evenly with a small burst. Zero or
// less disables pacing.
func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), min(perMinute, 3))
}
