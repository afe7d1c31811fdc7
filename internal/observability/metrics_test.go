package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/radar/internal/config"
)

func testMetricsConfig() config.MetricsConfig {
	return config.MetricsConfig{Enabled: true, Path: "/metrics", Namespace: "radar_test"}
}

func TestMetrics_RecordResolution(t *testing.T) {
	m := NewMetrics(testMetricsConfig(), prometheus.NewRegistry())

	m.RecordResolution("http", OutcomeResolved, 3*time.Millisecond, 4, []string{"avoid-mech", "closest-enemies"})
	m.RecordResolution("http", OutcomeResolved, time.Millisecond, 2, []string{"avoid-mech"})
	m.RecordResolution("grpc", OutcomeExhausted, time.Millisecond, 1, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.resolutionsTotal.WithLabelValues("http", OutcomeResolved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutionsTotal.WithLabelValues("grpc", OutcomeExhausted)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.protocolRequests.WithLabelValues("avoid-mech")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.protocolRequests.WithLabelValues("closest-enemies")))
}

func TestMetrics_RecordRejected(t *testing.T) {
	m := NewMetrics(testMetricsConfig(), prometheus.NewRegistry())
	m.RecordRejected("grpc")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutionsTotal.WithLabelValues("grpc", OutcomeInvalid)))
}

func TestMetrics_NilRegistryCreatesOne(t *testing.T) {
	m := NewMetrics(testMetricsConfig(), nil)
	require.NotNil(t, m.Registry())
	m.RecordRejected("http")

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(testMetricsConfig(), prometheus.NewRegistry())
	m.RecordResolution("http", OutcomeResolved, time.Millisecond, 1, []string{"prioritize-mech"})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "radar_test_resolutions_total")
	assert.Contains(t, rec.Body.String(), `protocol="prioritize-mech"`)
}
