package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ladder/internal/apperr"
	"github.com/mauv0809/match-ladder/internal/authz"
	"github.com/mauv0809/match-ladder/internal/league"
)

type generateScheduleRequest struct {
	SeasonID   string `json:"seasonId"`
	Region     string `json:"region"`
	Level      int    `json:"level"`
	Weeks      *int   `json:"weeks,omitempty"`
	StartAtISO string `json:"startAtIso,omitempty"`
}

type generateScheduleResponse struct {
	Created int  `json:"created"`
	DryRun  bool `json:"dryRun,omitempty"`
}

func GenerateScheduleHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body generateScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, &apperr.ValidationError{Message: "invalid JSON body", Err: err})
			return
		}
		if body.SeasonID == "" || body.Region == "" || body.Level == 0 {
			writeError(w, &apperr.ValidationError{Message: "seasonId, region and level are required"})
			return
		}

		req := league.GenerateRequest{
			SeasonID: body.SeasonID,
			Region:   league.Region(body.Region),
			Level:    body.Level,
		}
		if body.Weeks != nil {
			if *body.Weeks < 1 {
				writeError(w, &apperr.ValidationError{Field: "weeks", Message: "must be at least 1"})
				return
			}
			req.Weeks = *body.Weeks
		}
		if body.StartAtISO != "" {
			start, err := time.Parse(time.RFC3339, body.StartAtISO)
			if err != nil {
				writeError(w, &apperr.ValidationError{Field: "startAtIso", Message: "must be an RFC 3339 timestamp", Err: err})
				return
			}
			req.StartAt = start
		}

		isDryRun := IsDryRunFromContext(r)
		created, err := svc.GenerateForDivision(r.Context(), authz.FromContext(r.Context()), req, isDryRun)
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info("Schedule generated", "seasonID", req.SeasonID, "region", req.Region, "level", req.Level, "created", created, "dryRun", isDryRun)
		writeJSON(w, http.StatusOK, generateScheduleResponse{Created: created, DryRun: isDryRun})
	}
}

func StandingsHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseLeagueFilter(r)
		if err != nil {
			writeError(w, err)
			return
		}
		standings, err := svc.Standings(r.Context(), filter)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, standings)
	}
}

func ScheduleHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base, err := parseLeagueFilter(r)
		if err != nil {
			writeError(w, err)
			return
		}
		week, err := queryInt(r, "week")
		if err != nil {
			writeError(w, err)
			return
		}
		matches, err := svc.Schedule(r.Context(), league.ScheduleFilter{
			SeasonID: base.SeasonID,
			Region:   base.Region,
			Level:    base.Level,
			TeamSize: base.TeamSize,
			Week:     week,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func TeamScheduleHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := strings.TrimSpace(r.URL.Query().Get("teamId"))
		matches, err := svc.TeamSchedule(r.Context(), teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

// UnreportedMatchHandler returns the team's next match without a final
// score, or JSON null.
func UnreportedMatchHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := strings.TrimSpace(r.URL.Query().Get("teamId"))
		next, err := svc.NextUnreported(r.Context(), teamID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, next)
	}
}
