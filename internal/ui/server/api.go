package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Its-donkey/pricing-protocol/internal/pricing"
)

type sessionsResponse struct {
	Scope    pricing.Scope           `json:"scope"`
	Sessions []pricing.SessionRecord `json:"sessions"`
}

// handleSessionsAPI serves the records of one scope as JSON, in source order.
func (s *server) handleSessionsAPI(w http.ResponseWriter, r *http.Request) {
	scope, err := pricing.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		if errors.Is(err, pricing.ErrUnknownScope) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	records, err := s.sessions(r.Context(), scope)
	if err != nil {
		s.requestLog(r).WithCategory("sessions").WithField("scope", string(scope)).Error("load sessions", err)
		http.Error(w, sessionsLoadError, http.StatusServiceUnavailable)
		return
	}
	if records == nil {
		records = []pricing.SessionRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(sessionsResponse{Scope: scope, Sessions: records}); err != nil {
		s.requestLog(r).WithCategory("sessions").Error("encode sessions", err)
	}
}
