package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/ariebrainware/alert-board/observability"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
)

// ResultHandler receives every successfully fetched document.
type ResultHandler func(ctx context.Context, data any)

// Runner invokes fetch_alerts for one URL on a fixed interval. A failed run
// is logged and counted; the next attempt still waits for the next tick.
type Runner struct {
	fetcher  Fetcher
	url      string
	interval time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
	onResult ResultHandler
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithClock replaces the real clock, mainly for tests.
func WithClock(c clockwork.Clock) RunnerOption {
	return func(r *Runner) { r.clock = c }
}

// WithResultHandler registers a callback for fetched documents.
func WithResultHandler(h ResultHandler) RunnerOption {
	return func(r *Runner) { r.onResult = h }
}

// NewRunner creates a runner. interval must be positive.
func NewRunner(f Fetcher, url string, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics, opts ...RunnerOption) (*Runner, error) {
	if url == "" {
		return nil, errors.New("runner: feed url is empty")
	}
	if interval <= 0 {
		return nil, errors.Errorf("runner: interval must be positive, got %s", interval)
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		fetcher:  f,
		url:      url,
		interval: interval,
		clock:    clockwork.NewRealClock(),
		logger:   logger,
		metrics:  metrics,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run fetches once immediately, then on every tick until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	r.logger.Info("feed runner started", "url", r.url, "interval", r.interval)
	if r.metrics != nil {
		r.metrics.RunnerRunning.Set(1)
		defer r.metrics.RunnerRunning.Set(0)
	}

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	r.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("feed runner stopping", "reason", ctx.Err())
			return
		case <-ticker.Chan():
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	data, err := FetchAlertsWith(ctx, r.fetcher, r.url, r.logger, r.metrics)
	if err != nil {
		return
	}
	if r.onResult != nil {
		r.onResult(ctx, data)
	}
}
