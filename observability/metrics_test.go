package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.AlertsCreated.Inc()
	a.FeedRequests.WithLabelValues("success").Inc()
	a.JobRuns.WithLabelValues("fetch_alerts", "error").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.AlertsCreated))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.AlertsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.FeedRequests.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(a.JobRuns.WithLabelValues("fetch_alerts", "error")))
}

func TestMetrics_CollectorsComplete(t *testing.T) {
	m := NewMetricsForTesting()
	assert.Len(t, m.collectors(), 8)
	for _, c := range m.collectors() {
		assert.NotNil(t, c)
	}
}
