package http

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-ladder/internal/processor"
)

// PubSubRateMatchHandler receives rate-match events from a push subscription.
// Permanent failures, undecodable messages included, are acknowledged so
// Pub/Sub does not redeliver them.
func (s *Server) PubSubRateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received rate match message", "body", string(bodyBytes))

		var msg pushRequest
		if err := json.Unmarshal(bodyBytes, &msg); err != nil {
			log.Warn("Dropping push request with invalid wrapper JSON", "error", err)
			w.Write([]byte("OK"))
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(msg.Message.Data)
		if err != nil {
			log.Warn("Dropping message with invalid base64 data", "error", err, "messageID", msg.Message.MessageID)
			w.Write([]byte("OK"))
			return
		}

		var in processor.MatchResult
		if err := s.pubsub.ProcessMessage(rawData, &in); err != nil {
			log.Warn("Dropping message with invalid payload", "error", err, "messageID", msg.Message.MessageID)
			w.Write([]byte("OK"))
			return
		}

		if _, err := s.Processor.RateMatch(r.Context(), in, isDryRunFromContext(r)); err != nil {
			if statusForRatingError(err) < http.StatusInternalServerError {
				log.Warn("Dropping rate match message", "error", err, "messageID", msg.Message.MessageID)
				w.Write([]byte("OK"))
				return
			}
			log.Error("Failed to rate match from pubsub", "error", err, "messageID", msg.Message.MessageID)
			http.Error(w, "Failed to rate match", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
