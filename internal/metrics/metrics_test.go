package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/v1/films", "200"))

	ObserveRequest("GET", "/api/v1/films", http.StatusOK, 15*time.Millisecond)

	after := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/v1/films", "200"))
	assert.Equal(t, before+1, after)
}

func TestHandler_ExposesCollectors(t *testing.T) {
	ProgressCheckpoints.WithLabelValues("persisted").Inc()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kinoteka_progress_checkpoints_total")
}
