package processor

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ladder/internal/league"
	"github.com/mauv0809/match-ladder/internal/match"
	"github.com/mauv0809/match-ladder/internal/metrics"
	"github.com/mauv0809/match-ladder/internal/pubsub"
)

// New creates a new Processor.
func New(notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
	}
}

// MatchReconciled publishes confirmed and conflicting results. Pending
// submissions are not announced.
func (p *Processor) MatchReconciled(ctx context.Context, m match.Match, outcome match.Outcome) {
	var topic pubsub.EventType
	switch outcome.State {
	case match.StateConfirmed:
		topic = pubsub.EventMatchConfirmed
	case match.StateNeedsResolution:
		topic = pubsub.EventMatchNeedsResolution
	default:
		log.Debug("No event for reconciliation state", "matchID", m.ID, "state", outcome.State)
		return
	}
	p.publish(ctx, topic, matchResultEvent(m, outcome))
}

// ScheduleGenerated publishes the generation summary. Dry runs skip the bus
// and preview the notification directly.
func (p *Processor) ScheduleGenerated(ctx context.Context, summary league.ScheduleSummary, dryRun bool) {
	event := scheduleGeneratedEvent(summary)
	if dryRun {
		if err := p.notifier.SendScheduleGenerated(ctx, event, true); err != nil {
			log.Error("Failed to preview schedule notification", "error", err, "divisionID", summary.DivisionID)
		}
		return
	}
	p.publish(ctx, pubsub.EventScheduleGenerated, event)
}

func (p *Processor) publish(ctx context.Context, topic pubsub.EventType, event any) {
	if err := p.pubsub.SendMessage(ctx, topic, event); err != nil {
		log.Error("Failed to publish event", "error", err, "topic", topic)
		return
	}
	p.metrics.IncEventsPublished(string(topic))
}

// HandleMessage decodes a delivered message and sends the matching notification.
// Unknown event types are acknowledged without action.
func (p *Processor) HandleMessage(ctx context.Context, eventType pubsub.EventType, data []byte, dryRun bool) error {
	log.Debug("Handling message", "eventType", eventType, "bytes", len(data), "dryRun", dryRun)
	switch eventType {
	case pubsub.EventMatchConfirmed, pubsub.EventMatchNeedsResolution:
		var event pubsub.MatchResultEvent
		if err := p.pubsub.ProcessMessage(data, &event); err != nil {
			return fmt.Errorf("failed to decode %s event: %w", eventType, err)
		}
		if eventType == pubsub.EventMatchConfirmed {
			return p.notifier.SendMatchConfirmed(ctx, event, dryRun)
		}
		return p.notifier.SendNeedsResolution(ctx, event, dryRun)
	case pubsub.EventScheduleGenerated:
		var event pubsub.ScheduleGeneratedEvent
		if err := p.pubsub.ProcessMessage(data, &event); err != nil {
			return fmt.Errorf("failed to decode %s event: %w", eventType, err)
		}
		return p.notifier.SendScheduleGenerated(ctx, event, dryRun)
	default:
		log.Warn("Ignoring message with unknown event type", "eventType", eventType)
		return nil
	}
}

func matchResultEvent(m match.Match, outcome match.Outcome) pubsub.MatchResultEvent {
	return pubsub.MatchResultEvent{
		MatchID:      m.ID,
		SeasonID:     m.SeasonID,
		DivisionID:   m.DivisionID,
		Region:       m.Region,
		Week:         m.Week,
		HomeTeamID:   m.HomeTeamID,
		HomeTeamName: m.HomeTeamName,
		AwayTeamID:   m.AwayTeamID,
		AwayTeamName: m.AwayTeamName,
		State:        string(outcome.State),
		HomeScore:    outcome.HomeScore,
		AwayScore:    outcome.AwayScore,
	}
}

func scheduleGeneratedEvent(s league.ScheduleSummary) pubsub.ScheduleGeneratedEvent {
	return pubsub.ScheduleGeneratedEvent{
		SeasonID:   s.SeasonID,
		DivisionID: s.DivisionID,
		Region:     string(s.Region),
		Level:      s.Level,
		Weeks:      s.Weeks,
		Fixtures:   s.Fixtures,
		Created:    s.Created,
		StartAt:    s.StartAt,
	}
}
