package server

import (
	"net/http"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	p := &models.Program{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.db.CreateProgram(r.Context(), p); err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := s.db.ListPrograms(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if programs == nil {
		programs = []models.Program{}
	}
	writeJSON(w, http.StatusOK, programs)
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	p, err := s.db.GetProgramWithDaysAndExercises(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "program not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProgram(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	upd := storage.ProgramUpdate{Name: req.Name, Description: req.Description}
	if err := s.db.UpdateProgram(r.Context(), chi.URLParam(r, "id"), upd); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteProgram(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivateProgram(w http.ResponseWriter, r *http.Request) {
	if err := s.db.SetActiveProgram(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAdvanceProgram manually rotates the day pointer, as if the named
// day had just been completed. The normal path is session completion.
func (s *Server) handleAdvanceProgram(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProgramDayID string `json:"program_day_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ProgramDayID == "" {
		writeError(w, http.StatusBadRequest, "program_day_id is required")
		return
	}
	advanced, err := s.db.AdvanceProgramDay(r.Context(), chi.URLParam(r, "id"), req.ProgramDayID)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"advanced": advanced})
}

func (s *Server) handleNextProgramDay(w http.ResponseWriter, r *http.Request) {
	day, err := s.db.GetNextProgramDay(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if day == nil {
		writeJSON(w, http.StatusOK, map[string]any{"next_day": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"next_day": day})
}

func (s *Server) handleProgramHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.db.ListProgramHistory(r.Context(), chi.URLParam(r, "id"), queryInt(r, "limit", 0))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if entries == nil {
		entries = []models.ProgramHistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateProgramDay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DayIndex int    `json:"day_index"`
		Name     string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	d := &models.ProgramDay{
		ID:        uuid.NewString(),
		ProgramID: chi.URLParam(r, "id"),
		DayIndex:  req.DayIndex,
		Name:      req.Name,
	}
	if err := s.db.CreateProgramDay(r.Context(), d); err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleUpdateProgramDay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string `json:"name"`
		DayIndex *int    `json:"day_index"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	upd := storage.ProgramDayUpdate{Name: req.Name, DayIndex: req.DayIndex}
	if err := s.db.UpdateProgramDay(r.Context(), chi.URLParam(r, "id"), upd); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteProgramDay(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteProgramDay(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setTargetRequest struct {
	SetNumber    int     `json:"set_number"`
	TargetReps   int     `json:"target_reps"`
	TargetWeight float64 `json:"target_weight"`
}

func (s *Server) handleCreateProgramDayExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExerciseName string             `json:"exercise_name"`
		Position     int                `json:"position"`
		TargetSets   *int               `json:"target_sets"`
		TargetReps   *int               `json:"target_reps"`
		TargetWeight *float64           `json:"target_weight"`
		RestSeconds  *int               `json:"rest_seconds"`
		Notes        *string            `json:"notes"`
		ExplicitSets []setTargetRequest `json:"explicit_sets"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ExerciseName == "" {
		writeError(w, http.StatusBadRequest, "exercise_name is required")
		return
	}
	e := &models.ProgramDayExercise{
		ID:           uuid.NewString(),
		ProgramDayID: chi.URLParam(r, "id"),
		ExerciseName: req.ExerciseName,
		Position:     req.Position,
		TargetSets:   req.TargetSets,
		TargetReps:   req.TargetReps,
		TargetWeight: req.TargetWeight,
		RestSeconds:  req.RestSeconds,
		Notes:        req.Notes,
	}
	for _, t := range req.ExplicitSets {
		e.ExplicitSets = append(e.ExplicitSets, models.SetTarget{
			ID:           uuid.NewString(),
			SetNumber:    t.SetNumber,
			TargetReps:   t.TargetReps,
			TargetWeight: t.TargetWeight,
		})
	}
	if err := s.db.CreateProgramDayExercise(r.Context(), e); err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleUpdateProgramDayExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExerciseName *string  `json:"exercise_name"`
		Position     *int     `json:"position"`
		TargetSets   *int     `json:"target_sets"`
		TargetReps   *int     `json:"target_reps"`
		TargetWeight *float64 `json:"target_weight"`
		RestSeconds  *int     `json:"rest_seconds"`
		Notes        *string  `json:"notes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	upd := storage.ProgramDayExerciseUpdate{
		ExerciseName: req.ExerciseName,
		Position:     req.Position,
		TargetSets:   req.TargetSets,
		TargetReps:   req.TargetReps,
		TargetWeight: req.TargetWeight,
		RestSeconds:  req.RestSeconds,
		Notes:        req.Notes,
	}
	if err := s.db.UpdateProgramDayExercise(r.Context(), chi.URLParam(r, "id"), upd); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteProgramDayExercise(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteProgramDayExercise(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReplaceExplicitTargets(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Targets []setTargetRequest `json:"targets"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	targets := make([]models.SetTarget, 0, len(req.Targets))
	for _, t := range req.Targets {
		targets = append(targets, models.SetTarget{
			ID:           uuid.NewString(),
			SetNumber:    t.SetNumber,
			TargetReps:   t.TargetReps,
			TargetWeight: t.TargetWeight,
		})
	}
	if err := s.db.ReplaceExplicitTargets(r.Context(), chi.URLParam(r, "id"), targets); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
