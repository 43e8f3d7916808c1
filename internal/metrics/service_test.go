package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncSchedulesGenerated()
	s.AddFixturesCreated(6)
	s.AddFixturesCreated(0)
	s.IncResultSubmitted("pending")
	s.IncResultSubmitted("confirmed")
	s.IncResultSubmitted("confirmed")
	s.IncResultRejected("forbidden")
	s.IncEventsPublished("match-confirmed")
	s.ObserveReconcileDuration(0.02)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.SchedulesGenerated))
	assert.Equal(t, 6.0, testutil.ToFloat64(s.FixturesCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.ResultsSubmitted.WithLabelValues("confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.ResultsSubmitted.WithLabelValues("pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.ResultsRejected.WithLabelValues("forbidden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.EventsPublished.WithLabelValues("match-confirmed")))
	assert.Equal(t, 1, testutil.CollectAndCount(s.ReconcileDuration))
}

func TestMetricsHandlerExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.IncSlackNotifSent()

	rr := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ladder_slack_notifications_sent_total 1")
}

func TestMock(t *testing.T) {
	m := NewMock()
	m.IncResultRejected("validation")
	m.IncResultRejected("validation")
	m.AddFixturesCreated(3)
	m.SetStartupTime(1.5)

	assert.Equal(t, 2, m.ResultsRejected("validation"))
	assert.Equal(t, 0, m.ResultsRejected("forbidden"))
	assert.Equal(t, 3, m.FixturesCreated())
	assert.Equal(t, 1.5, m.StartupTime())
}
