package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/KirkDiggler/partysync/internal/services/directory"
	"github.com/go-chi/chi/v5"
)

// Routes returns the HTTP handler
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/sessions/{sessionID}", s.LookupSession)
	r.Get("/sessions/{sessionID}/watch", s.Watch)
	return r
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// LookupSession returns what a prospective player may see before joining
func (s *Server) LookupSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	out, err := s.config.Directory.LookupSession(r.Context(), &directory.LookupSessionInput{
		SessionID: sessionID,
	})
	if err != nil {
		if errors.Is(err, directory.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Printf("Failed to look up session %s: %v", sessionID, err)
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, out.Summary)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
