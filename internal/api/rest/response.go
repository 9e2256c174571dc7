package rest

import (
	"encoding/json"
	"net/http"

	zlog "github.com/rs/zerolog/log"
)

// writeData writes a successful response in the {"data": ...} envelope.
func writeData(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"data": v}); err != nil {
		zlog.Error().Err(err).Msg("rest: failed to encode response")
	}
}

// writeError writes an error response in the {"error": ...} envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"error": message}); err != nil {
		zlog.Error().Err(err).Msg("rest: failed to encode error response")
	}
}
