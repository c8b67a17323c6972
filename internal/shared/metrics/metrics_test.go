package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRondel_计数与直方图(t *testing.T) {
	m := New()
	m.ObserveMessage("move", "OK", 0.01)
	m.ObserveMessage("move", "OK", 0.02)
	m.ObserveMessage("move", "SERVICE_UNAVAILABLE", 0.5)
	m.ObserveOutcome("paid")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.messages.WithLabelValues("move", "OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.messages.WithLabelValues("move", "SERVICE_UNAVAILABLE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outcomes.WithLabelValues("paid")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.latency))
}

func TestRondel_Handler输出指标(t *testing.T) {
	m := New()
	m.ObserveOutcome("rejected")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `rondel_move_outcomes_total{outcome="rejected"} 1`)
}
