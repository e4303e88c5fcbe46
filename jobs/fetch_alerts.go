// Package jobs holds the background work of the board: the fetch_alerts job
// and the periodic runner that schedules it.
package jobs

import (
	"context"
	"log/slog"

	"github.com/ariebrainware/alert-board/feed"
	"github.com/ariebrainware/alert-board/observability"
)

// FetchAlertsName is the registered name of the feed job.
const FetchAlertsName = "fetch_alerts"

// Fetcher retrieves a feed document. *feed.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (any, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (any, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, url string) (any, error) {
	return f(ctx, url)
}

// FetchAlerts runs the fetch_alerts job with the default feed client. It
// returns the fetched document, or the feed error unchanged.
func FetchAlerts(ctx context.Context, url string) (any, error) {
	return FetchAlertsWith(ctx, FetcherFunc(feed.FetchExternal), url, nil, nil)
}

// FetchAlertsWith runs the fetch_alerts job with an explicit fetcher. logger
// and metrics may be nil.
func FetchAlertsWith(ctx context.Context, f Fetcher, url string, logger *slog.Logger, metrics *observability.Metrics) (any, error) {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := f.Fetch(ctx, url)
	if err != nil {
		logger.Error("job failed", "job", FetchAlertsName, "url", url, "error", err)
		if metrics != nil {
			metrics.JobRuns.WithLabelValues(FetchAlertsName, "error").Inc()
		}
		return nil, err
	}
	logger.Info("job finished", "job", FetchAlertsName, "url", url, "items", itemCount(data))
	if metrics != nil {
		metrics.JobRuns.WithLabelValues(FetchAlertsName, "success").Inc()
	}
	return data, nil
}

// itemCount is the length of a JSON array document, or 1 for anything else.
func itemCount(data any) int {
	if list, ok := data.([]any); ok {
		return len(list)
	}
	return 1
}
