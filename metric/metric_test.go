package metric

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientMetrics_Counters(t *testing.T) {
	m := NewClientMetrics()

	m.IncRequest("GetNodeChildren")
	m.IncRequest("GetNodeChildren")
	m.IncRequestError("GetNode")
	m.IncCacheHit()
	m.AddPointsSent(3)
	m.IncStreamMessage("points")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requestsTotal.WithLabelValues("GetNodeChildren")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestErrorsTotal.WithLabelValues("GetNode")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cacheHitsTotal))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.pointsSentTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.streamMsgsTotal.WithLabelValues("points")))
}

func TestClientMetrics_NilSafe(t *testing.T) {
	var m *ClientMetrics

	// All methods must be no-ops on a nil receiver
	m.IncRequest("GetNode")
	m.IncRequestError("GetNode")
	m.IncCacheHit()
	m.AddPointsSent(5)
	m.IncStreamMessage("messages")

	assert.Nil(t, m.Registry())
	assert.NotNil(t, m.Handler())
}

func TestClientMetrics_Handler(t *testing.T) {
	m := NewClientMetrics()
	m.IncRequest("GetNode")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "nodewire_requests_total")
}

func TestClientMetrics_PrivateRegistries(t *testing.T) {
	// Two instances must not collide on registration
	a := NewClientMetrics()
	b := NewClientMetrics()
	require.NotSame(t, a.Registry(), b.Registry())
}
