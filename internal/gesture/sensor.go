package gesture

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Sensor delivers acceleration samples at a fixed interval. The returned
// channel is closed after ctx ends or the source is exhausted.
type Sensor interface {
	Subscribe(ctx context.Context, interval time.Duration) (<-chan Sample, error)
}

// LineSensor reads samples from a text stream, one per line, as "x,y,z" or
// "unix_ms,x,y,z". Commas and whitespace both separate fields. Lines that do
// not parse are skipped. The source is closed when the subscription ends,
// which is what releases a read blocked on a quiet stream.
type LineSensor struct {
	r      io.ReadCloser
	now    func() time.Time
	logger *slog.Logger
}

func NewLineSensor(r io.ReadCloser, logger *slog.Logger) *LineSensor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LineSensor{r: r, now: time.Now, logger: logger}
}

// OpenSensor opens a file or FIFO as a LineSensor. The file is closed when
// the subscription ends.
func OpenSensor(path string, logger *slog.Logger) (*LineSensor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sensor %s: %w", path, err)
	}
	return NewLineSensor(f, logger), nil
}

func (s *LineSensor) Subscribe(ctx context.Context, interval time.Duration) (<-chan Sample, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid sampling interval %v", interval)
	}
	out := make(chan Sample)

	// Closing the source unblocks a scanner waiting on a quiet FIFO.
	release := context.AfterFunc(ctx, func() { s.r.Close() })

	go func() {
		defer close(out)
		defer func() {
			if release() {
				s.r.Close()
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		sc := bufio.NewScanner(s.r)
		for sc.Scan() {
			sample, err := parseSample(sc.Text(), s.now)
			if err != nil {
				s.logger.Debug("skipping sensor line", "error", err)
				continue
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			select {
			case <-ctx.Done():
				return
			case out <- sample:
			}
		}
		if err := sc.Err(); err != nil && ctx.Err() == nil {
			s.logger.Warn("sensor stream failed", "error", err)
		}
	}()
	return out, nil
}

func parseSample(line string, now func() time.Time) (Sample, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != 3 && len(fields) != 4 {
		return Sample{}, fmt.Errorf("expected 3 or 4 fields, got %d", len(fields))
	}

	at := now()
	if len(fields) == 4 {
		ms, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return Sample{}, fmt.Errorf("parsing timestamp: %w", err)
		}
		at = time.UnixMilli(ms)
		fields = fields[1:]
	}

	var v [3]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Sample{}, fmt.Errorf("parsing axis %d: %w", i, err)
		}
		v[i] = x
	}
	return Sample{X: v[0], Y: v[1], Z: v[2], At: at}, nil
}
