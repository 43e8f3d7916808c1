package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	SchedulesGenerated prometheus.Counter
	FixturesCreated    prometheus.Counter
	ResultsSubmitted   *prometheus.CounterVec
	ResultsRejected    *prometheus.CounterVec
	ReconcileDuration  prometheus.Histogram
	EventsPublished    *prometheus.CounterVec
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
