// Package gesture turns a 3-axis acceleration stream into refresh requests.
package gesture

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"
)

const (
	DefaultThreshold = 2.5
	DefaultCooldown  = 4 * time.Second
	DefaultInterval  = 300 * time.Millisecond
)

// Sample is one accelerometer reading.
type Sample struct {
	X, Y, Z float64
	At      time.Time
}

// Force is the summed magnitude over all axes.
func (s Sample) Force() float64 {
	return math.Abs(s.X) + math.Abs(s.Y) + math.Abs(s.Z)
}

// RefreshFunc starts a refresh and returns a channel closed once it has
// finished, successfully or not.
type RefreshFunc func(ctx context.Context) <-chan struct{}

type Options struct {
	Threshold float64
	Cooldown  time.Duration
	Interval  time.Duration
}

func (o Options) withDefaults() Options {
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Cooldown <= 0 {
		o.Cooldown = DefaultCooldown
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	return o
}

// Trigger detects shakes. One physical shake produces many samples above the
// threshold; the cooldown and the in-flight guard make sure it refreshes once.
type Trigger struct {
	refresh RefreshFunc
	opts    Options
	logger  *slog.Logger

	// lastTrigger is only touched by the goroutine feeding Observe.
	lastTrigger time.Time
	refreshing  atomic.Bool
}

func NewTrigger(refresh RefreshFunc, opts Options, logger *slog.Logger) *Trigger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trigger{refresh: refresh, opts: opts.withDefaults(), logger: logger}
}

// Observe feeds one sample and reports whether it started a refresh.
func (t *Trigger) Observe(ctx context.Context, s Sample) bool {
	force := s.Force()
	if force <= t.opts.Threshold {
		return false
	}
	if !t.lastTrigger.IsZero() && s.At.Sub(t.lastTrigger) <= t.opts.Cooldown {
		return false
	}
	if !t.refreshing.CompareAndSwap(false, true) {
		t.logger.Debug("shake ignored, refresh in flight", "force", force)
		return false
	}
	t.lastTrigger = s.At
	t.logger.Info("shake detected", "force", force)

	done := t.refresh(ctx)
	go func() {
		<-done
		t.refreshing.Store(false)
	}()
	return true
}

// Refreshing reports whether a shake-triggered refresh is still running.
func (t *Trigger) Refreshing() bool {
	return t.refreshing.Load()
}

// Run subscribes to sensor and feeds every sample to Observe until ctx ends or
// the stream closes. The subscription is released when Run returns.
func (t *Trigger) Run(ctx context.Context, sensor Sensor) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	samples, err := sensor.Subscribe(ctx, t.opts.Interval)
	if err != nil {
		return fmt.Errorf("subscribing to sensor: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case s, ok := <-samples:
			if !ok {
				t.logger.Info("sensor stream closed")
				return nil
			}
			t.Observe(ctx, s)
		}
	}
}
