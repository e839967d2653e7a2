package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOperation(t *testing.T) {
	m := New()
	m.RecordOperation("create", "ok")
	m.RecordOperation("create", "ok")
	m.RecordOperation("create", "room_unavailable")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("create", "room_unavailable")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.RecordOperation("cancel", "not_found")
	m.ObserveRequest(http.MethodDelete, "/reservation/delete", 404, 3*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `hotel_reservations_total{operation="cancel",outcome="not_found"} 1`))
	assert.True(t, strings.Contains(body, "hotel_http_request_duration_seconds_count"))
}
