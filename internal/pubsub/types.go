package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventMatchConfirmed       EventType = "match-confirmed"
	EventMatchNeedsResolution EventType = "match-needs-resolution"
	EventScheduleGenerated    EventType = "schedule-generated"
)

// AttributeEventType is the message attribute carrying the EventType.
const AttributeEventType = "event_type"

// MatchResultEvent is published when a match is confirmed or flagged for resolution.
type MatchResultEvent struct {
	MatchID      string `msgpack:"match_id"`
	SeasonID     string `msgpack:"season_id"`
	DivisionID   string `msgpack:"division_id"`
	Region       string `msgpack:"region"`
	Week         int    `msgpack:"week"`
	HomeTeamID   string `msgpack:"home_team_id"`
	HomeTeamName string `msgpack:"home_team_name"`
	AwayTeamID   string `msgpack:"away_team_id"`
	AwayTeamName string `msgpack:"away_team_name"`
	State        string `msgpack:"state"`
	HomeScore    *int   `msgpack:"home_score,omitempty"`
	AwayScore    *int   `msgpack:"away_score,omitempty"`
}

// ScheduleGeneratedEvent is published after fixtures are written for a division.
type ScheduleGeneratedEvent struct {
	SeasonID   string    `msgpack:"season_id"`
	DivisionID string    `msgpack:"division_id"`
	Region     string    `msgpack:"region"`
	Level      int       `msgpack:"level"`
	Weeks      int       `msgpack:"weeks"`
	Fixtures   int       `msgpack:"fixtures"`
	Created    int       `msgpack:"created"`
	StartAt    time.Time `msgpack:"start_at"`
}

// PushEnvelope is the JSON body Pub/Sub push subscriptions deliver.
type PushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data       string            `json:"data"`
		Attributes map[string]string `json:"attributes"`
		MessageID  string            `json:"messageId"`
	} `json:"message"`
}
