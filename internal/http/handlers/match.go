package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mauv0809/match-ladder/internal/apperr"
	"github.com/mauv0809/match-ladder/internal/authz"
	"github.com/mauv0809/match-ladder/internal/match"
)

type reportResultRequest struct {
	MatchID    string  `json:"matchId"`
	TeamID     string  `json:"teamId"`
	MyScore    *int    `json:"myScore"`
	TheirScore *int    `json:"theirScore"`
	Notes      *string `json:"notes,omitempty"`
}

func ReportResultHandler(reconciler *match.Reconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body reportResultRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, &apperr.ValidationError{Message: "invalid JSON body", Err: err})
			return
		}
		body.MatchID = strings.TrimSpace(body.MatchID)
		body.TeamID = strings.TrimSpace(body.TeamID)
		if body.MatchID == "" || body.TeamID == "" {
			writeError(w, &apperr.ValidationError{Message: "matchId and teamId are required"})
			return
		}
		if body.MyScore == nil || body.TheirScore == nil {
			writeError(w, &apperr.ValidationError{Message: "myScore and theirScore are required", Err: match.ErrInvalidScore})
			return
		}
		if body.Notes != nil && strings.TrimSpace(*body.Notes) == "" {
			body.Notes = nil
		}

		outcome, err := reconciler.SubmitResult(r.Context(), authz.FromContext(r.Context()), match.Report{
			MatchID:      body.MatchID,
			TeamID:       body.TeamID,
			ScoreFor:     *body.MyScore,
			ScoreAgainst: *body.TheirScore,
			Comment:      body.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, outcome)
	}
}
