package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ladder/internal/apperr"
	"github.com/mauv0809/match-ladder/internal/league"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// writeError maps the typed error taxonomy onto HTTP status codes. Storage
// and unclassified failures are logged and reported without internals.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
		message = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func statusFor(err error) int {
	if _, ok := apperr.AsValidationError(err); ok {
		return http.StatusBadRequest
	}
	if _, ok := apperr.AsForbiddenError(err); ok {
		return http.StatusForbidden
	}
	if _, ok := apperr.AsNotFoundError(err); ok {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// queryInt parses an optional positive integer query parameter. A missing
// value yields zero.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, &apperr.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return v, nil
}

// parseLeagueFilter reads the shared region, seasonId, level and teamSize parameters.
func parseLeagueFilter(r *http.Request) (league.StandingsFilter, error) {
	var filter league.StandingsFilter
	q := r.URL.Query()
	filter.SeasonID = strings.TrimSpace(q.Get("seasonId"))
	filter.Region = league.Region(strings.TrimSpace(q.Get("region")))

	var err error
	if filter.Level, err = queryInt(r, "level"); err != nil {
		return filter, err
	}
	if filter.TeamSize, err = queryInt(r, "teamSize"); err != nil {
		return filter, err
	}
	return filter, nil
}
