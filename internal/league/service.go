package league

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ladder/internal/apperr"
	"github.com/mauv0809/match-ladder/internal/authz"
	"github.com/mauv0809/match-ladder/internal/metrics"
)

// DefaultWeeks is used when neither the request nor the configuration sets a season length.
const DefaultWeeks = 8

// Service orchestrates schedule generation and the league read models.
type Service struct {
	store        Store
	events       Events
	metrics      metrics.Metrics
	defaultWeeks int
	now          func() time.Time
}

// NewService creates a league Service. A defaultWeeks below one falls back to DefaultWeeks.
func NewService(store Store, events Events, metrics metrics.Metrics, defaultWeeks int) *Service {
	if defaultWeeks < 1 {
		defaultWeeks = DefaultWeeks
	}
	return &Service{
		store:        store,
		events:       events,
		metrics:      metrics,
		defaultWeeks: defaultWeeks,
		now:          time.Now,
	}
}

// GenerateForDivision builds and persists the round-robin schedule for the
// division identified by season, region and level. It returns the number of
// fixtures created, or generated when dryRun is set.
func (s *Service) GenerateForDivision(ctx context.Context, caps authz.Capabilities, req GenerateRequest, dryRun bool) (int, error) {
	if !caps.CanManageLeague() {
		return 0, &apperr.ForbiddenError{Reason: "league administration required", Err: authz.ErrForbidden}
	}
	if strings.TrimSpace(req.SeasonID) == "" {
		return 0, &apperr.ValidationError{Field: "seasonId", Message: "is required"}
	}
	if _, err := ParseRegion(string(req.Region)); err != nil {
		return 0, err
	}
	if req.Level < 1 {
		return 0, &apperr.ValidationError{Field: "level", Message: "must be at least 1"}
	}
	if req.Weeks < 0 {
		return 0, &apperr.ValidationError{Field: "weeks", Message: "must be at least 1"}
	}
	weeks := req.Weeks
	if weeks == 0 {
		weeks = s.defaultWeeks
	}
	start := req.StartAt
	if start.IsZero() {
		start = s.now()
	}

	division, err := s.store.FindDivision(ctx, req.SeasonID, req.Region, req.Level)
	if err != nil {
		return 0, &apperr.StorageError{Op: "find division", Err: err}
	}
	if division == nil {
		return 0, &apperr.NotFoundError{Resource: "division", ID: divisionKey(req)}
	}

	teamIDs, err := s.store.ListTeamIDs(ctx, division.SeasonID, division.ID)
	if err != nil {
		return 0, &apperr.StorageError{Op: "list teams", Err: err}
	}
	fixtures := GenerateSchedule(teamIDs, weeks, start)
	log.Debug("Generated schedule", "divisionID", division.ID, "teams", len(teamIDs), "weeks", weeks, "fixtures", len(fixtures))
	if len(fixtures) == 0 {
		return 0, nil
	}

	summary := ScheduleSummary{
		SeasonID:   division.SeasonID,
		DivisionID: division.ID,
		Region:     division.Region,
		Level:      division.Level,
		Weeks:      weeks,
		Fixtures:   len(fixtures),
		StartAt:    start,
	}

	if dryRun {
		log.Info("Dry run: skipping fixture persistence", "divisionID", division.ID, "fixtures", len(fixtures))
		summary.Created = len(fixtures)
		s.events.ScheduleGenerated(ctx, summary, true)
		return len(fixtures), nil
	}

	created, err := s.store.CreateFixtures(ctx, *division, fixtures, true)
	if err != nil {
		return 0, &apperr.StorageError{Op: "create fixtures", Err: err}
	}
	summary.Created = created

	s.metrics.IncSchedulesGenerated()
	s.metrics.AddFixturesCreated(created)
	s.events.ScheduleGenerated(ctx, summary, false)
	return created, nil
}

// Standings returns the league table. TeamSize is ignored unless Level is set.
func (s *Service) Standings(ctx context.Context, filter StandingsFilter) ([]Standing, error) {
	if filter.Region != "" {
		if _, err := ParseRegion(string(filter.Region)); err != nil {
			return nil, err
		}
	}
	if filter.Level == 0 {
		filter.TeamSize = 0
	}
	standings, err := s.store.Standings(ctx, filter)
	if err != nil {
		return nil, &apperr.StorageError{Op: "standings", Err: err}
	}
	return standings, nil
}

// Schedule returns persisted fixtures ordered by week and kick-off time.
func (s *Service) Schedule(ctx context.Context, filter ScheduleFilter) ([]ScheduledMatch, error) {
	if filter.Region != "" {
		if _, err := ParseRegion(string(filter.Region)); err != nil {
			return nil, err
		}
	}
	if filter.Week < 0 {
		return nil, &apperr.ValidationError{Field: "week", Message: "must be at least 1"}
	}
	if filter.Level == 0 {
		filter.TeamSize = 0
	}
	matches, err := s.store.Schedule(ctx, filter)
	if err != nil {
		return nil, &apperr.StorageError{Op: "schedule", Err: err}
	}
	return matches, nil
}

func (s *Service) TeamSchedule(ctx context.Context, teamID string) ([]ScheduledMatch, error) {
	if strings.TrimSpace(teamID) == "" {
		return nil, &apperr.ValidationError{Field: "teamId", Message: "is required"}
	}
	matches, err := s.store.TeamSchedule(ctx, teamID)
	if err != nil {
		return nil, &apperr.StorageError{Op: "team schedule", Err: err}
	}
	return matches, nil
}

// NextUnreported returns the earliest match of the team without any final
// score, or nil when every match has been reported.
func (s *Service) NextUnreported(ctx context.Context, teamID string) (*ScheduledMatch, error) {
	if strings.TrimSpace(teamID) == "" {
		return nil, &apperr.ValidationError{Field: "teamId", Message: "is required"}
	}
	match, err := s.store.NextUnreported(ctx, teamID)
	if err != nil {
		return nil, &apperr.StorageError{Op: "next unreported", Err: err}
	}
	return match, nil
}

func divisionKey(req GenerateRequest) string {
	return fmt.Sprintf("%s/%s/%d", req.SeasonID, req.Region, req.Level)
}
