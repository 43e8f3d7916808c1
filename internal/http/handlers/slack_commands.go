package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ladder/internal/league"
	"github.com/mauv0809/match-ladder/internal/notifier"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// parseStandingsText reads "[REGION] [LEVEL]" from the slash command text.
// Words that are neither a region nor a level are ignored.
func parseStandingsText(text string) league.StandingsFilter {
	var filter league.StandingsFilter
	for _, part := range strings.Fields(text) {
		if level, err := strconv.Atoi(part); err == nil && level > 0 {
			filter.Level = level
			continue
		}
		if region, err := league.ParseRegion(strings.ToUpper(part)); err == nil {
			filter.Region = region
		}
	}
	return filter
}

func StandingsCommandHandler(svc *league.Service, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		filter := parseStandingsText(r.FormValue("text"))
		log.Debug("Standings command", "user", r.FormValue("user_name"), "region", filter.Region, "level", filter.Level)

		standings, err := svc.Standings(r.Context(), filter)
		if err != nil {
			http.Error(w, "Failed to get standings", http.StatusInternalServerError)
			log.Error("Failed to get standings", "error", err)
			return
		}

		msg, err := notifier.FormatStandingsResponse(standings, filter)
		if err != nil {
			http.Error(w, "Failed to format standings", http.StatusInternalServerError)
			log.Error("Failed to format standings", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}
