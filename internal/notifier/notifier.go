package notifier

import (
	"context"

	"github.com/mauv0809/match-ladder/internal/league"
	"github.com/mauv0809/match-ladder/internal/pubsub"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For reconciled match results
	SendMatchConfirmed(ctx context.Context, event pubsub.MatchResultEvent, dryRun bool) error
	SendNeedsResolution(ctx context.Context, event pubsub.MatchResultEvent, dryRun bool) error
	// For freshly generated schedules
	SendScheduleGenerated(ctx context.Context, event pubsub.ScheduleGeneratedEvent, dryRun bool) error

	// For formatting responses for slash commands
	FormatStandingsResponse(standings []league.Standing, filter league.StandingsFilter) (any, error)
}
