package league

import "context"

// Store defines the persistence operations the league service relies on.
type Store interface {
	// FindDivision returns nil without error when no division matches.
	FindDivision(ctx context.Context, seasonID string, region Region, level int) (*Division, error)
	// ListTeamIDs returns the division's team ids ordered by team name.
	ListTeamIDs(ctx context.Context, seasonID, divisionID string) ([]string, error)
	// CreateFixtures persists fixtures as scheduled matches and returns how
	// many rows were inserted. With skipDuplicates an existing identical
	// fixture is left untouched instead of failing the batch.
	CreateFixtures(ctx context.Context, division Division, fixtures []Fixture, skipDuplicates bool) (int, error)
	Standings(ctx context.Context, filter StandingsFilter) ([]Standing, error)
	Schedule(ctx context.Context, filter ScheduleFilter) ([]ScheduledMatch, error)
	TeamSchedule(ctx context.Context, teamID string) ([]ScheduledMatch, error)
	// NextUnreported returns nil without error when the team has no open match.
	NextUnreported(ctx context.Context, teamID string) (*ScheduledMatch, error)
}

// Events receives schedule generation results for fan-out.
type Events interface {
	ScheduleGenerated(ctx context.Context, summary ScheduleSummary, dryRun bool)
}
