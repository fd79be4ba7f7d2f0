package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/example/homeboard/internal/domain/alarm"
	"github.com/example/homeboard/internal/scheduler"
)

// Server handles the dashboard API on top of the scheduler service.
type Server struct {
	// scheduler is the running alarm scheduler.
	scheduler *scheduler.Service
}

// NewServer creates the dashboard API server.
func NewServer(s *scheduler.Service) *Server {
	return &Server{scheduler: s}
}

// listAlarms returns the read model for every alarm.
func (s *Server) listAlarms(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, s.scheduler.Overview())
}

// triggeredAlarms returns the ids with an open visual-alert window.
func (s *Server) triggeredAlarms(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, s.scheduler.TriggeredIDs())
}

// createAlarm forwards a create intent.
func (s *Server) createAlarm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var a domain.Alarm
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err)

		return
	}

	created, err := s.scheduler.CreateAlarm(ctx, &a)
	if err != nil {
		writeServiceError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, http.StatusCreated, created)
}

// updateAlarm forwards an edit intent for the alarm in the path.
func (s *Server) updateAlarm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var a domain.Alarm
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err)

		return
	}

	// The path id is authoritative.
	a.ID = chi.URLParam(r, "id")

	updated, err := s.scheduler.UpdateAlarm(ctx, &a)
	if err != nil {
		writeServiceError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, http.StatusOK, updated)
}

// deleteAlarm forwards a delete intent for the alarm in the path.
func (s *Server) deleteAlarm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.scheduler.DeleteAlarm(ctx, chi.URLParam(r, "id")); err != nil {
		writeServiceError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, http.StatusNoContent, nil)
}

// setAlarmEnabled forwards a toggle intent for the alarm in the path.
func (s *Server) setAlarmEnabled(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload struct {
		Enabled bool `json:"enabled"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err)

		return
	}

	if err := s.scheduler.SetAlarmEnabled(ctx, chi.URLParam(r, "id"), payload.Enabled); err != nil {
		writeServiceError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, http.StatusNoContent, nil)
}

// health reports liveness for the dashboard frontend.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
