package handlers

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ladder/internal/processor"
	"github.com/mauv0809/match-ladder/internal/pubsub"
)

// MatchEventsHandler receives push deliveries for every ladder topic.
// Malformed envelopes are rejected with 400 so Pub/Sub does not retry them
// forever; notification failures return 500 to trigger redelivery.
func MatchEventsHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received match event message", "body", string(bodyBytes))

		eventType, rawData, err := pubsub.DecodePush(bodyBytes)
		if err != nil {
			log.Error("Failed to decode push message", "error", err)
			http.Error(w, "Invalid push message", http.StatusBadRequest)
			return
		}

		isDryRun := IsDryRunFromContext(r)
		if err := proc.HandleMessage(r.Context(), eventType, rawData, isDryRun); err != nil {
			log.Error("Failed to handle match event", "error", err, "eventType", eventType)
			http.Error(w, "Failed to handle event", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
