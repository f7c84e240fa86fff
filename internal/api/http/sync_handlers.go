package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	syncx "github.com/paperdrill/paperdrill-platform/internal/sync"
)

// ListEventsHandler pages through the append-only event log so an offline
// site can replay what it missed. GET /sync/events?after=<offset>&limit=<n>
func ListEventsHandler(events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		after, _ := strconv.ParseInt(r.URL.Query().Get("after"), 10, 64)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		evs, err := events.Since(r.Context(), after, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(evs)
	}
}
