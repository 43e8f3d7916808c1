package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	schedulesGenerated int
	fixturesCreated    int
	resultsSubmitted   map[string]int
	resultsRejected    map[string]int
	reconcileDurations []float64
	eventsPublished    map[string]int
	slackNotifSent     int
	slackNotifFailed   int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		resultsSubmitted:   make(map[string]int),
		resultsRejected:    make(map[string]int),
		reconcileDurations: make([]float64, 0),
		eventsPublished:    make(map[string]int),
	}
}

func (m *Mock) IncSchedulesGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedulesGenerated++
}

func (m *Mock) AddFixturesCreated(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixturesCreated += n
}

func (m *Mock) IncResultSubmitted(state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultsSubmitted[state]++
}

func (m *Mock) IncResultRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultsRejected[reason]++
}

func (m *Mock) ObserveReconcileDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconcileDurations = append(m.reconcileDurations, duration)
}

func (m *Mock) IncEventsPublished(topic string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsPublished[topic]++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// SchedulesGenerated returns the number of times IncSchedulesGenerated was called.
func (m *Mock) SchedulesGenerated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schedulesGenerated
}

// FixturesCreated returns the sum passed to AddFixturesCreated.
func (m *Mock) FixturesCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fixturesCreated
}

// ResultsSubmitted returns the accepted submission count for a state.
func (m *Mock) ResultsSubmitted(state string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resultsSubmitted[state]
}

// ResultsRejected returns the rejection count for a reason.
func (m *Mock) ResultsRejected(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resultsRejected[reason]
}

// ReconcileObservations returns how many durations were observed.
func (m *Mock) ReconcileObservations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reconcileDurations)
}

// EventsPublished returns the publish count for a topic.
func (m *Mock) EventsPublished(topic string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsPublished[topic]
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// StartupTime returns the last value passed to SetStartupTime.
func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}
