package league

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// store handles all database operations for divisions, teams and fixtures.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new league Store.
func NewStore(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

func (s *store) FindDivision(ctx context.Context, seasonID string, region Region, level int) (*Division, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var d Division
	err := s.db.QueryRowContext(ctx, `
		SELECT id, season_id, region, level, team_size
		FROM divisions
		WHERE season_id = ? AND region = ? AND level = ?
		ORDER BY id ASC
		LIMIT 1
	`, seasonID, string(region), level).Scan(&d.ID, &d.SeasonID, &d.Region, &d.Level, &d.TeamSize)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query division: %w", err)
	}
	return &d, nil
}

func (s *store) ListTeamIDs(ctx context.Context, seasonID, divisionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM teams
		WHERE season_id = ? AND division_id = ?
		ORDER BY name ASC, id ASC
	`, seasonID, divisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *store) CreateFixtures(ctx context.Context, division Division, fixtures []Fixture, skipDuplicates bool) (int, error) {
	if len(fixtures) == 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	verb := "INSERT"
	if skipDuplicates {
		verb = "INSERT OR IGNORE"
	}
	stmt, err := tx.PrepareContext(ctx, verb+` INTO matches (
			id, season_id, division_id, region, week_number, scheduled_at,
			home_team_id, away_team_id, status, version, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'SCHEDULED', 0, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare fixture insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	created := 0
	for _, f := range fixtures {
		res, err := stmt.ExecContext(ctx, uuid.NewString(), division.SeasonID, division.ID, string(division.Region),
			f.Week, f.ScheduledAt.Unix(), f.HomeTeamID, f.AwayTeamID, now)
		if err != nil {
			return 0, fmt.Errorf("failed to insert fixture week %d %s vs %s: %w", f.Week, f.HomeTeamID, f.AwayTeamID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read affected rows: %w", err)
		}
		created += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit fixtures: %w", err)
	}
	log.Info("Created fixtures", "divisionID", division.ID, "requested", len(fixtures), "created", created)
	return created, nil
}

func (s *store) Standings(ctx context.Context, filter StandingsFilter) ([]Standing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.Region != "" {
		where = append(where, "COALESCE(d.region, t.region) = ?")
		args = append(args, string(filter.Region))
	}
	if filter.SeasonID != "" {
		where = append(where, "t.season_id = ?")
		args = append(args, filter.SeasonID)
	}
	if filter.Level > 0 {
		where = append(where, "d.level = ?")
		args = append(args, filter.Level)
		if filter.TeamSize > 0 {
			where = append(where, "d.team_size = ?")
			args = append(args, filter.TeamSize)
		}
	}

	query := `
		SELECT t.id, t.name, t.wins, t.losses, t.ties, t.points,
			COALESCE(d.region, t.region, ''), COALESCE(d.level, 0), COALESCE(d.team_size, 0)
		FROM teams t
		LEFT JOIN divisions d ON d.id = t.division_id` + whereClause(where) + `
		ORDER BY t.points DESC, t.wins DESC, t.name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer rows.Close()

	standings := []Standing{}
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.TeamID, &st.TeamName, &st.Wins, &st.Losses, &st.Ties, &st.Points,
			&st.Region, &st.Level, &st.TeamSize); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		standings = append(standings, st)
	}
	return standings, rows.Err()
}

const scheduledMatchColumns = `
		SELECT m.id, m.week_number, m.scheduled_at, m.status, m.region,
			COALESCE(d.level, 0), COALESCE(d.team_size, 0),
			h.id, h.name, a.id, a.name, m.home_score, m.away_score
		FROM matches m
		JOIN teams h ON h.id = m.home_team_id
		JOIN teams a ON a.id = m.away_team_id
		LEFT JOIN divisions d ON d.id = m.division_id`

func (s *store) Schedule(ctx context.Context, filter ScheduleFilter) ([]ScheduledMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.Region != "" {
		where = append(where, "m.region = ?")
		args = append(args, string(filter.Region))
	}
	if filter.SeasonID != "" {
		where = append(where, "m.season_id = ?")
		args = append(args, filter.SeasonID)
	}
	if filter.Level > 0 {
		where = append(where, "d.level = ?")
		args = append(args, filter.Level)
		if filter.TeamSize > 0 {
			where = append(where, "d.team_size = ?")
			args = append(args, filter.TeamSize)
		}
	}
	if filter.Week > 0 {
		where = append(where, "m.week_number = ?")
		args = append(args, filter.Week)
	}

	query := scheduledMatchColumns + whereClause(where) + `
		ORDER BY m.week_number ASC, m.scheduled_at ASC, m.id ASC`
	return s.queryScheduledMatches(ctx, query, args...)
}

func (s *store) TeamSchedule(ctx context.Context, teamID string) ([]ScheduledMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := scheduledMatchColumns + `
		WHERE m.home_team_id = ? OR m.away_team_id = ?
		ORDER BY m.week_number ASC, m.scheduled_at ASC, m.id ASC`
	return s.queryScheduledMatches(ctx, query, teamID, teamID)
}

func (s *store) NextUnreported(ctx context.Context, teamID string) (*ScheduledMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := scheduledMatchColumns + `
		WHERE (m.home_team_id = ? OR m.away_team_id = ?)
			AND m.home_score IS NULL AND m.away_score IS NULL
		ORDER BY m.week_number ASC, m.scheduled_at ASC, m.id ASC
		LIMIT 1`
	matches, err := s.queryScheduledMatches(ctx, query, teamID, teamID)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func (s *store) queryScheduledMatches(ctx context.Context, query string, args ...any) ([]ScheduledMatch, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := []ScheduledMatch{}
	for rows.Next() {
		m, err := scanScheduledMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

// scanScheduledMatch is a helper function to scan a single match row.
func scanScheduledMatch(scanner interface{ Scan(...any) error }) (*ScheduledMatch, error) {
	var (
		m           ScheduledMatch
		scheduledAt int64
		homeScore   sql.NullInt64
		awayScore   sql.NullInt64
	)
	err := scanner.Scan(&m.ID, &m.WeekNumber, &scheduledAt, &m.Status, &m.Region, &m.Level, &m.TeamSize,
		&m.HomeTeam.ID, &m.HomeTeam.Name, &m.AwayTeam.ID, &m.AwayTeam.Name, &homeScore, &awayScore)
	if err != nil {
		return nil, fmt.Errorf("failed to scan match row: %w", err)
	}
	m.ScheduledAt = time.Unix(scheduledAt, 0).UTC()
	if homeScore.Valid {
		v := int(homeScore.Int64)
		m.HomeScore = &v
	}
	if awayScore.Valid {
		v := int(awayScore.Int64)
		m.AwayScore = &v
	}
	return &m, nil
}

func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return "\n\t\tWHERE " + strings.Join(conditions, " AND ")
}
