// Package vehicles exposes the fleet registry over a read-only HTTP API.
package vehicles

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kilianp07/avfleet/core/fleet"
)

// logEntry is the wire form of a vehicle log entry.
type logEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// NewHandler returns an HTTP handler exposing fleet data:
//
//	GET /api/vehicles            vehicle list in registry order
//	GET /api/vehicles/log?id=X   full log of one vehicle
//	GET /api/fleet/stats         fleet statistics
func NewHandler(reg *fleet.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/vehicles", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, reg.Snapshot())
	})
	mux.HandleFunc("/api/vehicles/log", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		entries, err := reg.LogOf(id)
		if err != nil {
			if errors.Is(err, fleet.ErrNotFound) {
				http.Error(w, "vehicle not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out := make([]logEntry, 0, len(entries))
		for _, e := range entries {
			out = append(out, logEntry{Time: e.Time, Message: e.Message})
		}
		writeJSON(w, out)
	})
	mux.HandleFunc("/api/fleet/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, reg.Statistics())
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
