package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
	internaltestutil "github.com/turtacn/KeyIP-Lifecycle/internal/testutil"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, c MetricsCollector) string {
	t.Helper()
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{Subsystem: "unit"}, nil)
	assert.Error(t, err)
}

func TestNewMetricsCollector_WithProcessMetrics(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", EnableProcessMetrics: true, EnableGoMetrics: true}, nil)
	require.NoError(t, err)
	out := scrapeMetrics(t, c)
	assert.Contains(t, out, "go_goroutines")
}

func TestRegisterCounter(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterCounter("requests_total", "help", "kind")
	vec.WithLabelValues("a").Inc()
	vec.WithLabelValues("a").Add(2)

	assert.Equal(t, 3.0, testutil.ToFloat64(vec.(counterVec).vec.WithLabelValues("a")))
	assert.Contains(t, scrapeMetrics(t, c), `test_unit_requests_total{kind="a"} 3`)
}

func TestRegisterCounter_Idempotent(t *testing.T) {
	c := newTestCollector(t)
	first := c.RegisterCounter("dup_total", "help", "kind")
	second := c.RegisterCounter("dup_total", "help", "kind")
	first.WithLabelValues("x").Inc()
	second.WithLabelValues("x").Inc()

	n, err := testutil.GatherAndCount(c.Gatherer(), "test_unit_dup_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, scrapeMetrics(t, c), `test_unit_dup_total{kind="x"} 2`)
}

func TestRegister_TypeMismatchFallsBackToNoop(t *testing.T) {
	logger := internaltestutil.NewMockLogger()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test"}, logger)
	require.NoError(t, err)

	c.RegisterCounter("thing", "help")
	g := c.RegisterGauge("thing", "help")
	assert.IsType(t, noopGaugeVec{}, g)
	assert.NotPanics(t, func() { g.WithLabelValues().Set(4) })
	assert.True(t, logger.HasMessage("warn", "metric registered with another type"))
}

func TestRegister_InvalidNameLogsError(t *testing.T) {
	logger := internaltestutil.NewMockLogger()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test"}, logger)
	require.NoError(t, err)

	vec := c.RegisterCounter("bad-name", "help")
	assert.IsType(t, noopCounterVec{}, vec)
	assert.True(t, logger.HasMessage("error", "register counter failed"))
}

func TestRegisterGaugeAndHistogram(t *testing.T) {
	c := newTestCollector(t)
	g := c.RegisterGauge("queue_depth", "help", "queue")
	g.WithLabelValues("q").Set(5)
	g.WithLabelValues("q").Dec()

	h := c.RegisterHistogram("latency_seconds", "help", nil, "op")
	h.WithLabelValues("get").Observe(0.02)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_queue_depth{queue="q"} 4`)
	assert.Contains(t, out, `test_unit_latency_seconds_count{op="get"} 1`)
	assert.True(t, strings.Contains(out, `le="0.025"`))
}

func TestTimer(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("timer_seconds", "help", nil)
	timer := NewTimer(h.WithLabelValues())
	time.Sleep(time.Millisecond)
	assert.Greater(t, int64(timer.ObserveDuration()), int64(0))
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_timer_seconds_count 1")

	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

//Personal.AI order the ending
