package match

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ladder/internal/apperr"
	"github.com/mauv0809/match-ladder/internal/authz"
	"github.com/mauv0809/match-ladder/internal/metrics"
)

// Reconciler merges the two teams' result reports into one authoritative score.
type Reconciler struct {
	store   Store
	events  Events
	metrics metrics.Metrics
	now     func() time.Time
}

func NewReconciler(store Store, events Events, metrics metrics.Metrics) *Reconciler {
	return &Reconciler{
		store:   store,
		events:  events,
		metrics: metrics,
		now:     time.Now,
	}
}

// SubmitResult records report for its team and reconciles it against the
// opponent's submission. The whole read-modify-write runs in one transaction,
// so a failure leaves the match and both teams' standings untouched.
func (r *Reconciler) SubmitResult(ctx context.Context, caps authz.Capabilities, report Report) (Outcome, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveReconcileDuration(time.Since(start).Seconds())
	}()

	logger := log.With("matchID", report.MatchID, "teamID", report.TeamID)

	if strings.TrimSpace(report.MatchID) == "" {
		return r.reject(&apperr.NotFoundError{Resource: "match"})
	}

	var (
		outcome Outcome
		changed *Match
	)
	err := r.store.RunInTx(ctx, func(tx Tx) error {
		outcome, changed = Outcome{}, nil

		m, err := tx.GetMatch(ctx, report.MatchID)
		if err != nil {
			return err
		}
		if m == nil {
			return &apperr.NotFoundError{Resource: "match", ID: report.MatchID}
		}
		if m.HasFinalScore() {
			outcome = Outcome{State: StateAlreadyConfirmed}
			return nil
		}

		side, ok := m.SideOf(report.TeamID)
		if !ok {
			return &apperr.ForbiddenError{Reason: "team is not a participant in this match", Err: authz.ErrForbidden}
		}
		if !caps.CanActForTeam(report.TeamID) {
			return &apperr.ForbiddenError{Reason: "caller may not report for this team", Err: authz.ErrForbidden}
		}
		if err := ValidateScore(report.ScoreFor, report.ScoreAgainst); err != nil {
			return err
		}

		switch m.Status {
		case StatusNeedsResolution:
			outcome = Outcome{State: StateNeedsResolution}
			return nil
		case StatusCancelled, StatusForfeit:
			return &apperr.ValidationError{Field: "matchId", Message: "match is " + string(m.Status)}
		}

		m.Submissions.Set(side, Submission{
			TeamID:       report.TeamID,
			ScoreFor:     report.ScoreFor,
			ScoreAgainst: report.ScoreAgainst,
			SubmittedAt:  r.now().UTC(),
			Comment:      report.Comment,
		})

		if !m.Submissions.Complete() {
			if _, err := tx.UpdateMatchSubmissions(ctx, m.ID, m.Version, m.Submissions, m.Status); err != nil {
				return err
			}
			outcome = Outcome{State: StatePending}
			return nil
		}

		home, away := m.Submissions.Home, m.Submissions.Away
		if home.ClaimsWin() == away.ClaimsWin() {
			if _, err := tx.UpdateMatchSubmissions(ctx, m.ID, m.Version, m.Submissions, StatusNeedsResolution); err != nil {
				return err
			}
			m.Status = StatusNeedsResolution
			outcome = Outcome{State: StateNeedsResolution}
			changed = m
			return nil
		}

		homeScore, awayScore := normalize(*home, *away)
		version, err := tx.UpdateMatchSubmissions(ctx, m.ID, m.Version, m.Submissions, m.Status)
		if err != nil {
			return err
		}
		if _, err := tx.UpdateMatchFinal(ctx, m.ID, version, homeScore, awayScore, StatusCompleted); err != nil {
			return err
		}
		homeDelta, awayDelta := standingsDeltas(homeScore, awayScore)
		if err := tx.IncrementTeamStats(ctx, m.HomeTeamID, homeDelta); err != nil {
			return err
		}
		if err := tx.IncrementTeamStats(ctx, m.AwayTeamID, awayDelta); err != nil {
			return err
		}

		m.HomeScore, m.AwayScore, m.Status = &homeScore, &awayScore, StatusCompleted
		outcome = Outcome{State: StateConfirmed, HomeScore: &homeScore, AwayScore: &awayScore}
		changed = m
		return nil
	})
	if err != nil {
		if !apperr.Classified(err) {
			err = &apperr.StorageError{Op: "submit result", Err: err}
		}
		logger.Warn("Result submission rejected", "error", err)
		return r.reject(err)
	}

	logger.Info("Result submission reconciled", "state", outcome.State)
	r.metrics.IncResultSubmitted(string(outcome.State))
	if changed != nil {
		r.events.MatchReconciled(ctx, *changed, outcome)
	}
	return outcome, nil
}

func (r *Reconciler) reject(err error) (Outcome, error) {
	r.metrics.IncResultRejected(rejectReason(err))
	return Outcome{}, err
}

// normalize sets the agreed winner to WinningScore and the loser to the
// higher of the two reported loser counts.
func normalize(home, away Submission) (homeScore, awayScore int) {
	if home.ClaimsWin() {
		return WinningScore, max(home.ScoreAgainst, away.ScoreFor)
	}
	return max(home.ScoreFor, away.ScoreAgainst), WinningScore
}

// standingsDeltas derives each team's counter changes from the final score.
// The tie branch cannot be reached while ValidateScore enforces a winner.
func standingsDeltas(homeScore, awayScore int) (home, away StatsDelta) {
	switch {
	case homeScore > awayScore:
		return winDelta, lossDelta
	case awayScore > homeScore:
		return lossDelta, winDelta
	default:
		return tieDelta, tieDelta
	}
}

func rejectReason(err error) string {
	if _, ok := apperr.AsValidationError(err); ok {
		return "validation"
	}
	if _, ok := apperr.AsNotFoundError(err); ok {
		return "not_found"
	}
	if _, ok := apperr.AsForbiddenError(err); ok {
		return "forbidden"
	}
	return "storage"
}
