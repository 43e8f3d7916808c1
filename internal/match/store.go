package match

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// store handles match reconciliation writes against sqlite/libsql.
type store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore creates a new match Store.
func NewStore(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

func (s *store) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	var (
		m           Match
		scheduledAt int64
		homeScore   sql.NullInt64
		awayScore   sql.NullInt64
	)
	err := t.tx.QueryRowContext(ctx, `
		SELECT m.id, m.season_id, m.division_id, m.region, m.week_number, m.scheduled_at,
			m.home_team_id, h.name, m.away_team_id, a.name,
			m.home_score, m.away_score, m.status, m.version
		FROM matches m
		JOIN teams h ON h.id = m.home_team_id
		JOIN teams a ON a.id = m.away_team_id
		WHERE m.id = ?
	`, matchID).Scan(&m.ID, &m.SeasonID, &m.DivisionID, &m.Region, &m.Week, &scheduledAt,
		&m.HomeTeamID, &m.HomeTeamName, &m.AwayTeamID, &m.AwayTeamName,
		&homeScore, &awayScore, &m.Status, &m.Version)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query match %s: %w", matchID, err)
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

	subs, err := t.submissions(ctx, matchID)
	if err != nil {
		return nil, err
	}
	m.Submissions = subs
	return &m, nil
}

func (t *sqlTx) submissions(ctx context.Context, matchID string) (Submissions, error) {
	var subs Submissions
	rows, err := t.tx.QueryContext(ctx, `
		SELECT side, team_id, score_for, score_against, submitted_at, comment
		FROM match_submissions
		WHERE match_id = ?
	`, matchID)
	if err != nil {
		return subs, fmt.Errorf("failed to query submissions for match %s: %w", matchID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			side        Side
			sub         Submission
			submittedAt int64
			comment     sql.NullString
		)
		if err := rows.Scan(&side, &sub.TeamID, &sub.ScoreFor, &sub.ScoreAgainst, &submittedAt, &comment); err != nil {
			return subs, fmt.Errorf("failed to scan submission row: %w", err)
		}
		sub.SubmittedAt = time.UnixMilli(submittedAt).UTC()
		if comment.Valid {
			c := comment.String
			sub.Comment = &c
		}
		subs.Set(side, sub)
	}
	return subs, rows.Err()
}

func (t *sqlTx) UpdateMatchSubmissions(ctx context.Context, matchID string, expectedVersion int64, subs Submissions, status Status) (int64, error) {
	version, err := t.bumpVersion(ctx, matchID, expectedVersion, `status = ?`, string(status))
	if err != nil {
		return 0, err
	}

	stmt, err := t.tx.PrepareContext(ctx, `
		INSERT INTO match_submissions (match_id, side, team_id, score_for, score_against, submitted_at, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_id, side) DO UPDATE SET
			team_id = excluded.team_id,
			score_for = excluded.score_for,
			score_against = excluded.score_against,
			submitted_at = excluded.submitted_at,
			comment = excluded.comment
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare submission upsert: %w", err)
	}
	defer stmt.Close()

	for _, side := range []Side{SideHome, SideAway} {
		sub := subs.Get(side)
		if sub == nil {
			continue
		}
		var comment sql.NullString
		if sub.Comment != nil {
			comment = sql.NullString{String: *sub.Comment, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, matchID, string(side), sub.TeamID, sub.ScoreFor, sub.ScoreAgainst,
			sub.SubmittedAt.UnixMilli(), comment); err != nil {
			return 0, fmt.Errorf("failed to upsert %s submission for match %s: %w", side, matchID, err)
		}
	}
	log.Debug("Stored submissions", "matchID", matchID, "status", status, "version", version)
	return version, nil
}

func (t *sqlTx) UpdateMatchFinal(ctx context.Context, matchID string, expectedVersion int64, homeScore, awayScore int, status Status) (int64, error) {
	return t.bumpVersion(ctx, matchID, expectedVersion,
		`home_score = ?, away_score = ?, status = ?`, homeScore, awayScore, string(status))
}

// bumpVersion applies set to the match when its version still equals
// expectedVersion and returns the incremented version.
func (t *sqlTx) bumpVersion(ctx context.Context, matchID string, expectedVersion int64, set string, args ...any) (int64, error) {
	args = append(args, time.Now().Unix(), matchID, expectedVersion)
	res, err := t.tx.ExecContext(ctx, `
		UPDATE matches SET `+set+`, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update match %s: %w", matchID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return 0, fmt.Errorf("match %s at version %d: %w", matchID, expectedVersion, ErrConcurrentUpdate)
	}
	return expectedVersion + 1, nil
}

func (t *sqlTx) IncrementTeamStats(ctx context.Context, teamID string, delta StatsDelta) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE teams SET
			wins = wins + ?,
			losses = losses + ?,
			ties = ties + ?,
			points = points + ?
		WHERE id = ?
	`, delta.Wins, delta.Losses, delta.Ties, delta.Points, teamID)
	if err != nil {
		return fmt.Errorf("failed to update stats for team %s: %w", teamID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("team %s not found while updating stats", teamID)
	}
	return nil
}
