package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func pushBody(t *testing.T, eventType EventType, payload any) []byte {
	t.Helper()
	data, err := msgpack.Marshal(payload)
	require.NoError(t, err)
	var envelope PushEnvelope
	envelope.Subscription = "projects/p/subscriptions/match-events"
	envelope.Message.Data = base64.StdEncoding.EncodeToString(data)
	envelope.Message.Attributes = map[string]string{AttributeEventType: string(eventType)}
	body, err := json.Marshal(envelope)
	require.NoError(t, err)
	return body
}

func TestDecodePush(t *testing.T) {
	home, away := 3, 1
	sent := MatchResultEvent{MatchID: "m1", HomeTeamName: "Home", AwayTeamName: "Away", State: "confirmed", HomeScore: &home, AwayScore: &away}

	eventType, raw, err := DecodePush(pushBody(t, EventMatchConfirmed, sent))
	require.NoError(t, err)
	assert.Equal(t, EventMatchConfirmed, eventType)

	var got MatchResultEvent
	require.NoError(t, NewLogOnly().ProcessMessage(raw, &got))
	assert.Equal(t, sent, got)
}

func TestDecodePushRejectsGarbage(t *testing.T) {
	_, _, err := DecodePush([]byte("not json"))
	assert.Error(t, err)

	_, _, err = DecodePush([]byte(`{"message":{"data":"%%%"}}`))
	assert.Error(t, err)
}

func TestScheduleEventKeepsStartTime(t *testing.T) {
	start := time.Date(2026, time.January, 5, 18, 0, 0, 0, time.UTC)
	_, raw, err := DecodePush(pushBody(t, EventScheduleGenerated, ScheduleGeneratedEvent{DivisionID: "d1", StartAt: start, Created: 6}))
	require.NoError(t, err)

	var got ScheduleGeneratedEvent
	require.NoError(t, NewLogOnly().ProcessMessage(raw, &got))
	assert.True(t, start.Equal(got.StartAt))
	assert.Equal(t, 6, got.Created)
}

func TestLogOnlyClientSend(t *testing.T) {
	c := NewLogOnly()
	assert.NoError(t, c.SendMessage(context.Background(), EventScheduleGenerated, ScheduleGeneratedEvent{DivisionID: "d1"}))
	assert.Error(t, c.SendMessage(context.Background(), EventScheduleGenerated, make(chan int)))
	assert.NoError(t, c.Close())
}

func TestMockRecordsCalls(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.SendMessage(context.Background(), EventMatchConfirmed, "payload"))
	calls := m.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, EventMatchConfirmed, calls[0].Topic)
	m.Reset()
	assert.Empty(t, m.Calls())
}
