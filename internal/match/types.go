package match

import (
	"errors"
	"time"

	"github.com/mauv0809/match-ladder/internal/apperr"
)

// Status is the lifecycle state of a match.
type Status string

const (
	StatusScheduled       Status = "SCHEDULED"
	StatusInProgress      Status = "IN_PROGRESS"
	StatusCompleted       Status = "COMPLETED"
	StatusCancelled       Status = "CANCELLED"
	StatusForfeit         Status = "FORFEIT"
	StatusNeedsResolution Status = "NEEDS_RESOLUTION"
)

// Side identifies which slot of a match a team occupies.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// WinningScore is the map count that decides a best-of-five match.
const WinningScore = 3

var (
	// ErrInvalidScore is wrapped by the ValidationError returned for a score
	// pair that is not one 3 and one value in 0..2.
	ErrInvalidScore = errors.New("invalid score")
	// ErrConcurrentUpdate reports that the match row changed between read and write.
	ErrConcurrentUpdate = errors.New("match was modified concurrently")
)

// Submission is one side's claimed result, from its own perspective.
type Submission struct {
	TeamID       string    `json:"teamId"`
	ScoreFor     int       `json:"scoreFor"`
	ScoreAgainst int       `json:"scoreAgainst"`
	SubmittedAt  time.Time `json:"submittedAt"`
	Comment      *string   `json:"comment,omitempty"`
}

// ClaimsWin reports whether the submitting side says it won.
func (s Submission) ClaimsWin() bool {
	return s.ScoreFor > s.ScoreAgainst
}

// Submissions holds at most one submission per side.
type Submissions struct {
	Home *Submission `json:"home,omitempty"`
	Away *Submission `json:"away,omitempty"`
}

// Set stores sub in the slot for side, replacing any earlier submission.
func (s *Submissions) Set(side Side, sub Submission) {
	if side == SideHome {
		s.Home = &sub
		return
	}
	s.Away = &sub
}

// Get returns the submission for side, or nil.
func (s Submissions) Get(side Side) *Submission {
	if side == SideHome {
		return s.Home
	}
	return s.Away
}

// Complete reports whether both sides have submitted.
func (s Submissions) Complete() bool {
	return s.Home != nil && s.Away != nil
}

// Match is the persisted fixture together with its reported results.
type Match struct {
	ID           string
	SeasonID     string
	DivisionID   string
	Region       string
	Week         int
	ScheduledAt  time.Time
	HomeTeamID   string
	HomeTeamName string
	AwayTeamID   string
	AwayTeamName string
	HomeScore    *int
	AwayScore    *int
	Status       Status
	Submissions  Submissions
	Version      int64
}

// HasFinalScore reports whether both final scores are recorded.
func (m Match) HasFinalScore() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// SideOf returns the side teamID plays on, or false when it does not play.
func (m Match) SideOf(teamID string) (Side, bool) {
	switch teamID {
	case m.HomeTeamID:
		return SideHome, true
	case m.AwayTeamID:
		return SideAway, true
	}
	return "", false
}

// Report is an incoming result submission from one team.
type Report struct {
	MatchID      string
	TeamID       string
	ScoreFor     int
	ScoreAgainst int
	Comment      *string
}

// State is the outcome of a reconciliation attempt.
type State string

const (
	StateAlreadyConfirmed State = "already_confirmed"
	StatePending          State = "pending_other_team"
	StateNeedsResolution  State = "needs_resolution"
	StateConfirmed        State = "confirmed"
)

// Outcome is returned by SubmitResult. Scores are only set when State is confirmed.
type Outcome struct {
	State     State `json:"state"`
	HomeScore *int  `json:"homeScore,omitempty"`
	AwayScore *int  `json:"awayScore,omitempty"`
}

// StatsDelta is added to a team's standing counters.
type StatsDelta struct {
	Wins   int
	Losses int
	Ties   int
	Points int
}

var (
	winDelta  = StatsDelta{Wins: 1, Points: 3}
	lossDelta = StatsDelta{Losses: 1}
	tieDelta  = StatsDelta{Ties: 1, Points: 1}
)

// ValidateScore accepts exactly one side on WinningScore and the other in 0..2.
func ValidateScore(scoreFor, scoreAgainst int) error {
	if validShape(scoreFor, scoreAgainst) || validShape(scoreAgainst, scoreFor) {
		return nil
	}
	return &apperr.ValidationError{
		Field:   "score",
		Message: "one side must have 3 and the other 0 to 2",
		Err:     ErrInvalidScore,
	}
}

func validShape(winner, loser int) bool {
	return winner == WinningScore && loser >= 0 && loser < WinningScore
}
