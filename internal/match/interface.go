package match

import "context"

// Store runs reconciliation steps atomically.
type Store interface {
	// RunInTx calls fn inside one transaction. The transaction commits only
	// when fn returns nil; any error rolls every write back.
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of match and standings operations available inside a transaction.
type Tx interface {
	// GetMatch returns nil without error when the match does not exist.
	GetMatch(ctx context.Context, matchID string) (*Match, error)
	// UpdateMatchSubmissions persists both submission slots and the status.
	// The write only applies when the stored version equals expectedVersion;
	// it returns the new version or ErrConcurrentUpdate.
	UpdateMatchSubmissions(ctx context.Context, matchID string, expectedVersion int64, subs Submissions, status Status) (int64, error)
	// UpdateMatchFinal records the final scores under the same version rule.
	UpdateMatchFinal(ctx context.Context, matchID string, expectedVersion int64, homeScore, awayScore int, status Status) (int64, error)
	IncrementTeamStats(ctx context.Context, teamID string, delta StatsDelta) error
}

// Events receives reconciliation results once they are committed.
type Events interface {
	MatchReconciled(ctx context.Context, m Match, outcome Outcome)
}
