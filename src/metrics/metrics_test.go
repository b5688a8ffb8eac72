package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer(t *testing.T) {
	timer := NewTimer()
	time.Sleep(10 * time.Millisecond)
	assert.GreaterOrEqual(t, timer.Duration(), 10*time.Millisecond)
}

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(ConnectionTransitions.WithLabelValues("accepted"))
	ConnectionTransitions.WithLabelValues("accepted").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ConnectionTransitions.WithLabelValues("accepted")))

	sent := testutil.ToFloat64(MessagesSent)
	MessagesSent.Inc()
	assert.Equal(t, sent+1, testutil.ToFloat64(MessagesSent))
}

func TestHandlerExposesCollectors(t *testing.T) {
	MessagesMarkedRead.Add(2)
	HTTPRequestsTotal.WithLabelValues("GET", "/api/users", "200").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "codebros_messages_marked_read_total")
	assert.Contains(t, string(body), `codebros_http_requests_total{method="GET",route="/api/users",status="200"}`)
}
