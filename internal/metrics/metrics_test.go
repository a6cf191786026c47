package metrics_test

import (
	"testing"

	"catalog/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.Observe("create", metrics.OutcomeSuccess)
	m.Observe("create", metrics.OutcomeSuccess)
	m.Observe("create", metrics.OutcomeInvalid)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations().WithLabelValues("create", metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations().WithLabelValues("create", metrics.OutcomeInvalid)))

	var nilMetrics *metrics.Metrics
	assert.NotPanics(t, func() { nilMetrics.Observe("create", metrics.OutcomeError) })
}
