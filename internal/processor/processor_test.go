package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/match-ladder/internal/league"
	"github.com/mauv0809/match-ladder/internal/match"
	"github.com/mauv0809/match-ladder/internal/metrics"
	"github.com/mauv0809/match-ladder/internal/notifier"
	"github.com/mauv0809/match-ladder/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func intPtr(v int) *int { return &v }

func reconciledMatch() match.Match {
	return match.Match{
		ID:           "m1",
		SeasonID:     "s1",
		DivisionID:   "d1",
		Region:       "EUROPE",
		Week:         1,
		HomeTeamID:   "t-home",
		HomeTeamName: "Home Heroes",
		AwayTeamID:   "t-away",
		AwayTeamName: "Away Aces",
	}
}

func TestProcessor_MatchReconciled(t *testing.T) {
	t.Run("confirmed result is published", func(t *testing.T) {
		ps := pubsub.NewMock()
		metr := metrics.NewMock()
		p := New(notifier.NewMock(), metr, ps)

		outcome := match.Outcome{State: match.StateConfirmed, HomeScore: intPtr(3), AwayScore: intPtr(2)}
		p.MatchReconciled(context.Background(), reconciledMatch(), outcome)

		calls := ps.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, pubsub.EventMatchConfirmed, calls[0].Topic)
		event, ok := calls[0].Data.(pubsub.MatchResultEvent)
		require.True(t, ok)
		assert.Equal(t, "Home Heroes", event.HomeTeamName)
		assert.Equal(t, intPtr(3), event.HomeScore)
		assert.Equal(t, 1, metr.EventsPublished(string(pubsub.EventMatchConfirmed)))
	})

	t.Run("conflict is published on its own topic", func(t *testing.T) {
		ps := pubsub.NewMock()
		p := New(notifier.NewMock(), metrics.NewMock(), ps)

		p.MatchReconciled(context.Background(), reconciledMatch(), match.Outcome{State: match.StateNeedsResolution})

		calls := ps.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, pubsub.EventMatchNeedsResolution, calls[0].Topic)
	})

	t.Run("pending submissions are not published", func(t *testing.T) {
		ps := pubsub.NewMock()
		p := New(notifier.NewMock(), metrics.NewMock(), ps)

		p.MatchReconciled(context.Background(), reconciledMatch(), match.Outcome{State: match.StatePending})
		assert.Empty(t, ps.Calls())
	})

	t.Run("publish failures are swallowed after logging", func(t *testing.T) {
		ps := pubsub.NewMock()
		ps.SendMessageFunc = func(pubsub.EventType, any) error { return errors.New("bus down") }
		metr := metrics.NewMock()
		p := New(notifier.NewMock(), metr, ps)

		p.MatchReconciled(context.Background(), reconciledMatch(), match.Outcome{State: match.StateNeedsResolution})
		assert.Equal(t, 0, metr.EventsPublished(string(pubsub.EventMatchNeedsResolution)))
	})
}

func TestProcessor_ScheduleGenerated(t *testing.T) {
	summary := league.ScheduleSummary{
		SeasonID: "s1", DivisionID: "d1", Region: league.RegionEurope, Level: 1,
		Weeks: 3, Fixtures: 6, Created: 6, StartAt: time.Date(2026, time.January, 5, 18, 0, 0, 0, time.UTC),
	}

	t.Run("real run publishes", func(t *testing.T) {
		ps := pubsub.NewMock()
		notif := notifier.NewMock()
		p := New(notif, metrics.NewMock(), ps)

		p.ScheduleGenerated(context.Background(), summary, false)
		calls := ps.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, pubsub.EventScheduleGenerated, calls[0].Topic)
		assert.Empty(t, notif.SendScheduleGeneratedCalls)
	})

	t.Run("dry run previews without publishing", func(t *testing.T) {
		ps := pubsub.NewMock()
		notif := notifier.NewMock()
		p := New(notif, metrics.NewMock(), ps)

		p.ScheduleGenerated(context.Background(), summary, true)
		assert.Empty(t, ps.Calls())
		require.Len(t, notif.SendScheduleGeneratedCalls, 1)
		assert.Equal(t, 1, notif.DryRunCalls)
		assert.Equal(t, "EUROPE", notif.SendScheduleGeneratedCalls[0].Region)
	})
}

func TestProcessor_HandleMessage(t *testing.T) {
	ctx := context.Background()
	encode := func(v any) []byte {
		data, err := msgpack.Marshal(v)
		require.NoError(t, err)
		return data
	}

	notif := notifier.NewMock()
	p := New(notif, metrics.NewMock(), pubsub.NewMock())

	confirmed := pubsub.MatchResultEvent{MatchID: "m1", HomeScore: intPtr(3), AwayScore: intPtr(0)}
	require.NoError(t, p.HandleMessage(ctx, pubsub.EventMatchConfirmed, encode(confirmed), false))
	require.Len(t, notif.SendMatchConfirmedCalls, 1)
	assert.Equal(t, confirmed, notif.SendMatchConfirmedCalls[0])

	require.NoError(t, p.HandleMessage(ctx, pubsub.EventMatchNeedsResolution, encode(pubsub.MatchResultEvent{MatchID: "m2"}), true))
	require.Len(t, notif.SendNeedsResolutionCalls, 1)
	assert.Equal(t, 1, notif.DryRunCalls)

	require.NoError(t, p.HandleMessage(ctx, pubsub.EventScheduleGenerated, encode(pubsub.ScheduleGeneratedEvent{DivisionID: "d1"}), false))
	require.Len(t, notif.SendScheduleGeneratedCalls, 1)

	assert.NoError(t, p.HandleMessage(ctx, "something-else", []byte("x"), false))
	assert.Error(t, p.HandleMessage(ctx, pubsub.EventMatchConfirmed, []byte{0xc1}, false))

	notif.SendErr = errors.New("slack down")
	assert.Error(t, p.HandleMessage(ctx, pubsub.EventMatchConfirmed, encode(confirmed), false))
}
