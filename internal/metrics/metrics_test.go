package metrics_test

import (
	"testing"

	"github.com/UnknownOlympus/geodist/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.TaskProcessed.WithLabelValues("success").Inc()
	m.Distance.WithLabelValues("km").Observe(287.85)
	m.OutOfRange.Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m.TaskProcessed.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OutOfRange), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.Distance, "geodist_task_distance"))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	assert.Panics(t, func() { metrics.NewMetrics(reg) }, "duplicate registration must panic")
}
