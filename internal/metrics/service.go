package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		SchedulesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_schedules_generated_total",
			Help: "The total number of division schedules generated.",
		}),
		FixturesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_fixtures_created_total",
			Help: "The total number of fixtures persisted by schedule generation.",
		}),
		ResultsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ladder_results_submitted_total",
			Help: "Accepted result submissions by reconciliation outcome.",
		}, []string{"state"}),
		ResultsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ladder_results_rejected_total",
			Help: "Rejected result submissions by reason.",
		}, []string{"reason"}),
		ReconcileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ladder_reconcile_duration_seconds",
			Help:    "The duration of a single result reconciliation.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ladder_events_published_total",
			Help: "Events published to the message bus by topic.",
		}, []string{"topic"}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ladder_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.SchedulesGenerated,
		s.FixturesCreated,
		s.ResultsSubmitted,
		s.ResultsRejected,
		s.ReconcileDuration,
		s.EventsPublished,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncSchedulesGenerated() {
	s.SchedulesGenerated.Inc()
}

func (s *Service) AddFixturesCreated(n int) {
	if n > 0 {
		s.FixturesCreated.Add(float64(n))
	}
}

func (s *Service) IncResultSubmitted(state string) {
	s.ResultsSubmitted.WithLabelValues(state).Inc()
}

func (s *Service) IncResultRejected(reason string) {
	s.ResultsRejected.WithLabelValues(reason).Inc()
}

func (s *Service) ObserveReconcileDuration(duration float64) {
	s.ReconcileDuration.Observe(duration)
}

func (s *Service) IncEventsPublished(topic string) {
	s.EventsPublished.WithLabelValues(topic).Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
