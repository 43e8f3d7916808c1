package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncSchedulesGenerated()
	AddFixturesCreated(n int)
	IncResultSubmitted(state string)
	IncResultRejected(reason string)
	ObserveReconcileDuration(duration float64)
	IncEventsPublished(topic string)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
