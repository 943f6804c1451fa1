package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type createSetRequest struct {
	SessionID string  `json:"session_id"`
	SetNumber int     `json:"set_number"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
}

func (s *Server) handleCreateSet(w http.ResponseWriter, r *http.Request) {
	var req createSetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	set := &models.WorkoutSet{
		ID:               uuid.NewString(),
		ExerciseID:       chi.URLParam(r, "id"),
		WorkoutSessionID: req.SessionID,
		SetNumber:        req.SetNumber,
		Reps:             req.Reps,
		Weight:           req.Weight,
	}
	if err := s.db.CreateSet(r.Context(), set); err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

func (s *Server) handleCreateMultipleSets(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string             `json:"session_id"`
		Sets      []createSetRequest `json:"sets"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	exerciseID := chi.URLParam(r, "id")
	sets := make([]models.WorkoutSet, 0, len(req.Sets))
	for _, sr := range req.Sets {
		sets = append(sets, models.WorkoutSet{
			ID:               uuid.NewString(),
			ExerciseID:       exerciseID,
			WorkoutSessionID: req.SessionID,
			SetNumber:        sr.SetNumber,
			Reps:             sr.Reps,
			Weight:           sr.Weight,
		})
	}
	if err := s.db.CreateMultipleSets(r.Context(), sets); err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sets)
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reps      *int     `json:"reps"`
		Weight    *float64 `json:"weight"`
		SetNumber *int     `json:"set_number"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	upd := storage.SetUpdate{Reps: req.Reps, Weight: req.Weight, SetNumber: req.SetNumber}
	if err := s.db.UpdateSet(r.Context(), chi.URLParam(r, "id"), upd); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteSet(w http.ResponseWriter, r *http.Request) {
	if err := s.db.CompleteSet(r.Context(), chi.URLParam(r, "id"), time.Now()); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUncompleteSet(w http.ResponseWriter, r *http.Request) {
	if err := s.db.UncompleteSet(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteSet(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("exercise")
	if name == "" {
		writeError(w, http.StatusBadRequest, "exercise query parameter is required")
		return
	}
	entries, err := s.db.ExerciseHistory(r.Context(), name, queryInt(r, "limit", 0))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if entries == nil {
		entries = []storage.ExerciseHistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleListPRs(w http.ResponseWriter, r *http.Request) {
	prs, err := s.db.ListPRs(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if prs == nil {
		prs = []models.PRRecord{}
	}
	writeJSON(w, http.StatusOK, prs)
}

// handleRecordPR submits a record candidate directly, for backfilling history
// that predates the database. The same strictly-greater rule applies as for
// records swept from completed sessions.
func (s *Server) handleRecordPR(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExerciseName string    `json:"exercise_name"`
		Reps         int       `json:"reps"`
		Weight       float64   `json:"weight"`
		SessionID    string    `json:"session_id"`
		AchievedAt   time.Time `json:"achieved_at"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ExerciseName == "" {
		writeError(w, http.StatusBadRequest, "exercise_name is required")
		return
	}
	if req.Reps <= 0 {
		writeError(w, http.StatusBadRequest, "reps must be a positive integer")
		return
	}
	achievedAt := req.AchievedAt
	if achievedAt.IsZero() {
		achievedAt = time.Now()
	}
	changed, err := s.db.RecordPR(r.Context(), models.PRRecord{
		ID:               uuid.NewString(),
		ExerciseName:     req.ExerciseName,
		Reps:             req.Reps,
		Weight:           req.Weight,
		WorkoutSessionID: req.SessionID,
		AchievedAt:       achievedAt,
	})
	if err != nil {
		writeStorageError(w, err)
		return
	}
	current, err := s.db.GetPR(r.Context(), req.ExerciseName, req.Reps)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"changed": changed, "record": current})
}

// handleCheckPR answers "would this weight be a new record" without writing
// anything. Query: exercise, reps, weight.
func (s *Server) handleCheckPR(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("exercise")
	if name == "" {
		writeError(w, http.StatusBadRequest, "exercise query parameter is required")
		return
	}
	reps, err := strconv.Atoi(q.Get("reps"))
	if err != nil || reps <= 0 {
		writeError(w, http.StatusBadRequest, "reps must be a positive integer")
		return
	}
	weight, err := strconv.ParseFloat(q.Get("weight"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "weight must be a number")
		return
	}

	isNew, err := s.db.IsNewPR(r.Context(), name, reps, weight)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	current, err := s.db.GetPR(r.Context(), name, reps)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	resp := map[string]any{"is_new_pr": isNew}
	if current != nil {
		resp["current"] = current
	}
	writeJSON(w, http.StatusOK, resp)
}
