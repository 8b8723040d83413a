// Admin exposes a JSON debug surface for a running combat session.
package admin

import (
	"encoding/json"
	"net/http"

	"spacecombat-sim/internal/sim"
)

type Server struct {
	Session *sim.Session
}

func NewServer(session *sim.Session) *Server {
	return &Server{Session: session}
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/telemetry", s.handleTelemetry)
	mux.HandleFunc("/destroy-one", s.handleDestroyOne)
	mux.HandleFunc("/restart", s.handleRestart)
}

// Handler returns the admin HTTP handler, mainly for embedding in tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.routes(mux)
	return mux
}

func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Session.StateSnapshot())
}

func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Session.TelemetrySnapshot())
}

// handleDestroyOne removes an arbitrary adversary, the debug op behind the
// TUI destroy key. On an empty squadron it reports destroyed=false.
func (s *Server) handleDestroyOne(w http.ResponseWriter, r *http.Request) {
	class, ok := s.Session.DestroyOne()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"destroyed": ok,
		"archetype": string(class),
	})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.Session.Reset()
	w.WriteHeader(http.StatusNoContent)
}
