// Package flightrecorder keeps a rolling execution trace in memory and writes it to disk when a request times out.
package flightrecorder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/trace"
	"sync/atomic"
	"time"

	"github.com/myrjola/liftcalc/internal/errors"
)

const (
	defaultMinAge   = time.Minute
	defaultMaxBytes = 16 * 1024 * 1024
	defaultCooldown = 30 * time.Minute
)

var ErrNoDirectory = errors.NewSentinel("traces directory is required")

// Config configures a Recorder. Zero durations and sizes fall back to defaults.
type Config struct {
	Logger    *slog.Logger
	Directory string
	MinAge    time.Duration
	MaxBytes  uint64
	// Cooldown is the minimum time between two captures.
	Cooldown time.Duration
}

type Recorder struct {
	logger    *slog.Logger
	fr        *trace.FlightRecorder
	directory string
	cooldown  time.Duration
	now       func() time.Time
	// lastCapture holds the Unix nanoseconds of the latest capture.
	lastCapture atomic.Int64
}

// New creates the traces directory if needed. Call Start before capturing.
func New(cfg Config) (*Recorder, error) {
	if cfg.Directory == "" {
		return nil, ErrNoDirectory
	}
	if err := os.MkdirAll(cfg.Directory, 0o700); err != nil { //nolint:mnd // owner only.
		return nil, errors.Wrap(err, "create traces directory", slog.String("dir", cfg.Directory))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	minAge := cmpOr(cfg.MinAge, defaultMinAge)
	maxBytes := cfg.MaxBytes
	if maxBytes == 0 {
		maxBytes = defaultMaxBytes
	}
	return &Recorder{
		logger:      logger,
		fr:          trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: minAge, MaxBytes: maxBytes}),
		directory:   cfg.Directory,
		cooldown:    cmpOr(cfg.Cooldown, defaultCooldown),
		now:         time.Now,
		lastCapture: atomic.Int64{},
	}, nil
}

func cmpOr(d, fallback time.Duration) time.Duration {
	if d == 0 {
		return fallback
	}
	return d
}

func (r *Recorder) Start(ctx context.Context) error {
	if err := r.fr.Start(); err != nil {
		return errors.Wrap(err, "start flight recorder")
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder started",
		slog.String("dir", r.directory), slog.Duration("cooldown", r.cooldown))
	return nil
}

func (r *Recorder) Stop(ctx context.Context) {
	r.fr.Stop()
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder stopped")
}

// Capture writes the buffered trace to "timeout-<timestamp>.trace" and returns its path. It returns an empty path
// without writing when the previous capture is younger than the cooldown.
func (r *Recorder) Capture(ctx context.Context) (string, error) {
	now := r.now()
	last := r.lastCapture.Load()
	if last != 0 && now.Sub(time.Unix(0, last)) < r.cooldown {
		r.logger.LogAttrs(ctx, slog.LevelDebug, "skip trace capture during cooldown",
			slog.Time("last_capture", time.Unix(0, last)))
		return "", nil
	}
	if !r.lastCapture.CompareAndSwap(last, now.UnixNano()) {
		return "", nil
	}

	path := filepath.Join(r.directory, fmt.Sprintf("timeout-%s.trace", now.UTC().Format("20060102-150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create trace file", slog.String("file", path))
	}
	n, err := r.fr.WriteTo(f)
	if err != nil {
		_ = f.Close()
		return "", errors.Wrap(err, "write trace", slog.String("file", path))
	}
	if err = f.Close(); err != nil {
		return "", errors.Wrap(err, "close trace file", slog.String("file", path))
	}
	r.logger.LogAttrs(ctx, slog.LevelWarn, "captured timeout trace", slog.String("file", path), slog.Int64("bytes", n))
	return path, nil
}
