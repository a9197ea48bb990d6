package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

const defaultHistoryLimit = 20

// recentMatchesHandler serves the latest finished duels, newest first.
// GET /history/recent?limit=N
func recentMatchesHandler(logger *slog.Logger, history matchHistory) http.HandlerFunc {
	log := logger.With("handler", "recentMatches")

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		limit := defaultHistoryLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		matches, err := history.Recent(r.Context(), limit)
		if err != nil {
			log.Error("failed to load match history", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err = json.NewEncoder(w).Encode(matches); err != nil {
			log.Error("failed to encode match history", "error", err)
		}
	}
}
