package server

import (
	"net/http"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type templateExerciseRequest struct {
	Name         string   `json:"name"`
	Position     int      `json:"position"`
	TargetSets   *int     `json:"target_sets"`
	TargetReps   *int     `json:"target_reps"`
	TargetWeight *float64 `json:"target_weight"`
	Notes        *string  `json:"notes"`
}

func templateExercises(reqs []templateExerciseRequest) []models.TemplateExercise {
	exercises := make([]models.TemplateExercise, 0, len(reqs))
	for _, te := range reqs {
		exercises = append(exercises, models.TemplateExercise{
			ID:           uuid.NewString(),
			Name:         te.Name,
			Position:     te.Position,
			TargetSets:   te.TargetSets,
			TargetReps:   te.TargetReps,
			TargetWeight: te.TargetWeight,
			Notes:        te.Notes,
		})
	}
	return exercises
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string                    `json:"name"`
		Notes     *string                   `json:"notes"`
		Exercises []templateExerciseRequest `json:"exercises"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	t := &models.WorkoutTemplate{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Notes:     req.Notes,
		Exercises: templateExercises(req.Exercises),
	}
	if err := s.db.CreateTemplate(r.Context(), t); err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.db.ListTemplates(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if templates == nil {
		templates = []models.WorkoutTemplate{}
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.db.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  *string `json:"name"`
		Notes *string `json:"notes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	upd := storage.TemplateUpdate{Name: req.Name, Notes: req.Notes}
	if err := s.db.UpdateTemplate(r.Context(), chi.URLParam(r, "id"), upd); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReplaceTemplateExercises(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Exercises []templateExerciseRequest `json:"exercises"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.db.ReplaceTemplateExercises(r.Context(), id, templateExercises(req.Exercises)); err != nil {
		writeStorageError(w, err)
		return
	}
	t, err := s.db.GetTemplate(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
