package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/match-ladder/internal/league"
	"github.com/mauv0809/match-ladder/internal/pubsub"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendMatchConfirmedCalls    []pubsub.MatchResultEvent
	SendNeedsResolutionCalls   []pubsub.MatchResultEvent
	SendScheduleGeneratedCalls []pubsub.ScheduleGeneratedEvent
	DryRunCalls                int

	// Spies
	SendErr                     error
	FormatStandingsResponseFunc func(standings []league.Standing, filter league.StandingsFilter) (any, error)

	LastStandingsResponse any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchConfirmedCalls = nil
	m.SendNeedsResolutionCalls = nil
	m.SendScheduleGeneratedCalls = nil
	m.DryRunCalls = 0
	m.LastStandingsResponse = nil
}

func (m *Mock) SendMatchConfirmed(_ context.Context, event pubsub.MatchResultEvent, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchConfirmedCalls = append(m.SendMatchConfirmedCalls, event)
	m.countDryRun(dryRun)
	return m.SendErr
}

func (m *Mock) SendNeedsResolution(_ context.Context, event pubsub.MatchResultEvent, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendNeedsResolutionCalls = append(m.SendNeedsResolutionCalls, event)
	m.countDryRun(dryRun)
	return m.SendErr
}

func (m *Mock) SendScheduleGenerated(_ context.Context, event pubsub.ScheduleGeneratedEvent, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendScheduleGeneratedCalls = append(m.SendScheduleGeneratedCalls, event)
	m.countDryRun(dryRun)
	return m.SendErr
}

func (m *Mock) FormatStandingsResponse(standings []league.Standing, filter league.StandingsFilter) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatStandingsResponseFunc != nil {
		resp, err := m.FormatStandingsResponseFunc(standings, filter)
		m.LastStandingsResponse = resp
		return resp, err
	}
	return "formatted_standings", nil
}

func (m *Mock) countDryRun(dryRun bool) {
	if dryRun {
		m.DryRunCalls++
	}
}
