package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ladder/internal/league"
	"github.com/mauv0809/match-ladder/internal/metrics"
	"github.com/mauv0809/match-ladder/internal/notifier"
	"github.com/mauv0809/match-ladder/internal/pubsub"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

const sendTimeout = 10 * time.Second

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier. Without a token or channel the
// notifier only logs the messages it would have sent.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	var api slackClient
	if token != "" && channelID != "" {
		api = slack.New(token)
	} else {
		log.Warn("Slack is not configured, notifications will only be logged")
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendMatchConfirmed(ctx context.Context, event pubsub.MatchResultEvent, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatMatchConfirmed(event), dryRun)
	return err
}

func (s *Notifier) SendNeedsResolution(ctx context.Context, event pubsub.MatchResultEvent, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatNeedsResolution(event), dryRun)
	return err
}

func (s *Notifier) SendScheduleGenerated(ctx context.Context, event pubsub.ScheduleGeneratedEvent, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatScheduleGenerated(event), dryRun)
	return err
}

// FormatStandingsResponse formats the league table for a slash command response.
func (s *Notifier) FormatStandingsResponse(standings []league.Standing, filter league.StandingsFilter) (any, error) {
	return s.formatStandings(standings, filter), nil
}

func (s *Notifier) formatMatchConfirmed(event pubsub.MatchResultEvent) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", ":trophy: Result confirmed :trophy:", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	scoreText := fmt.Sprintf("*%s* %s - %s *%s*",
		event.HomeTeamName, scoreString(event.HomeScore), scoreString(event.AwayScore), event.AwayTeamName)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", scoreText, false, false), nil, nil))

	if winner := winnerName(event); winner != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject("plain_text", fmt.Sprintf("%s takes the 3 points.", winner), true, false),
			slack.NewTextBlockObject("mrkdwn", weekContext(event), false, false),
		))
	}

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatNeedsResolution(event pubsub.MatchResultEvent) slack.Message {
	headerText := slack.NewTextBlockObject("plain_text", ":warning: Result needs resolution", true, false)
	bodyText := fmt.Sprintf("*%s* and *%s* reported conflicting winners.\nAn admin needs to settle the result before standings update.",
		event.HomeTeamName, event.AwayTeamName)

	return slack.NewBlockMessage(
		slack.NewHeaderBlock(headerText),
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", bodyText, false, false), nil, nil),
		slack.NewContextBlock("", slack.NewTextBlockObject("mrkdwn", weekContext(event)+" | match `"+event.MatchID+"`", false, false)),
	)
}

func (s *Notifier) formatScheduleGenerated(event pubsub.ScheduleGeneratedEvent) slack.Message {
	headerText := slack.NewTextBlockObject("plain_text", ":calendar: New schedule published", true, false)
	detailsText := fmt.Sprintf("Region: %s\nLevel: %d\nWeeks: %d\nFixtures created: %d of %d\nFirst matches: %s",
		event.Region, event.Level, event.Weeks, event.Created, event.Fixtures,
		event.StartAt.UTC().Format("Monday 02 Jan, 15:04 MST"))

	return slack.NewBlockMessage(
		slack.NewHeaderBlock(headerText),
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil),
	)
}

func (s *Notifier) formatStandings(standings []league.Standing, filter league.StandingsFilter) slack.Message {
	blocks := make([]slack.Block, 0)

	title := "League Standings"
	if filter.Region != "" {
		title = fmt.Sprintf("League Standings (%s)", filter.Region)
	}
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", ":trophy: "+title, true, false)))

	if len(standings) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No teams found. Has the season started?", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	for i, st := range standings {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = ":first_place_medal: "
		case 2:
			medal = ":second_place_medal: "
		case 3:
			medal = ":third_place_medal: "
		}
		lines = append(lines, fmt.Sprintf("%d. %s*%s* %d pts (W%d L%d T%d)",
			rank, medal, st.TeamName, st.Points, st.Wins, st.Losses, st.Ties))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

func scoreString(score *int) string {
	if score == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *score)
}

func winnerName(event pubsub.MatchResultEvent) string {
	if event.HomeScore == nil || event.AwayScore == nil {
		return ""
	}
	switch {
	case *event.HomeScore > *event.AwayScore:
		return event.HomeTeamName
	case *event.AwayScore > *event.HomeScore:
		return event.AwayTeamName
	}
	return ""
}

func weekContext(event pubsub.MatchResultEvent) string {
	return fmt.Sprintf("Week %d | %s", event.Week, event.Region)
}
