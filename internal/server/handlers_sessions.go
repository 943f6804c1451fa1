package server

import (
	"net/http"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// startSessionRequest dispatches on provenance: program_id + program_day_id
// starts a program session, template_id a template session, and neither an
// empty ad-hoc one.
type startSessionRequest struct {
	Name         string  `json:"name"`
	TemplateID   *string `json:"template_id"`
	ProgramID    *string `json:"program_id"`
	ProgramDayID *string `json:"program_day_id"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var (
		session *models.WorkoutSession
		err     error
	)
	switch {
	case req.ProgramID != nil && req.ProgramDayID != nil:
		session, err = s.tracker.StartFromProgramDay(r.Context(), *req.ProgramID, *req.ProgramDayID)
	case req.ProgramID != nil || req.ProgramDayID != nil:
		writeError(w, http.StatusBadRequest, "program_id and program_day_id must be supplied together")
		return
	case req.TemplateID != nil:
		session, err = s.tracker.StartFromTemplate(r.Context(), *req.TemplateID)
	default:
		session, err = s.tracker.StartEmptySession(r.Context(), req.Name)
	}
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	sessions, err := s.db.ListSessions(r.Context(), limit)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.db.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleActiveSession(w http.ResponseWriter, r *http.Request) {
	active, err := s.db.GetActiveSession(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if active == nil {
		writeJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"active": true, "session": active})
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      *string    `json:"name"`
		Notes     *string    `json:"notes"`
		StartTime *time.Time `json:"start_time"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	upd := storage.SessionUpdate{Name: req.Name, Notes: req.Notes, StartTime: req.StartTime}
	if err := s.db.UpdateSession(r.Context(), chi.URLParam(r, "id"), upd); err != nil {
		writeStorageError(w, err)
		return
	}
	session, err := s.db.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	result, err := s.tracker.CompleteSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DiscardSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	// Confirm the session exists before aggregating over it.
	if _, err := s.db.GetSession(ctx, id); err != nil {
		writeStorageError(w, err)
		return
	}
	volume, err := s.db.SessionVolume(ctx, id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	completed, err := s.db.CompletedSetCount(ctx, id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	total, err := s.db.TotalSetCount(ctx, id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":     id,
		"total_volume":   volume,
		"completed_sets": completed,
		"total_sets":     total,
	})
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		Position int     `json:"position"`
		Notes    *string `json:"notes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	e := &models.Exercise{
		ID:               uuid.NewString(),
		WorkoutSessionID: chi.URLParam(r, "id"),
		Name:             req.Name,
		Position:         req.Position,
		Notes:            req.Notes,
	}
	if err := s.db.CreateExercise(r.Context(), e); err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string `json:"name"`
		Notes    *string `json:"notes"`
		Position *int    `json:"position"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	upd := storage.ExerciseUpdate{Name: req.Name, Notes: req.Notes, Position: req.Position}
	if err := s.db.UpdateExercise(r.Context(), chi.URLParam(r, "id"), upd); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteExercise(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderExercises(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Orders []storage.ExerciseOrder `json:"orders"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.db.ReorderExercises(r.Context(), req.Orders); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
