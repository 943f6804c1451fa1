package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/tracker"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db      *storage.DB
	tracker *tracker.Tracker
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, trk *tracker.Tracker, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:      db,
		tracker: trk,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Read endpoints
		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/active", s.handleActiveSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Get("/sessions/{id}/summary", s.handleSessionSummary)
		r.Get("/history", s.handleExerciseHistory)
		r.Get("/prs", s.handleListPRs)
		r.Get("/prs/check", s.handleCheckPR)
		r.Get("/programs", s.handleListPrograms)
		r.Get("/programs/{id}", s.handleGetProgram)
		r.Get("/programs/{id}/next-day", s.handleNextProgramDay)
		r.Get("/programs/{id}/history", s.handleProgramHistory)
		r.Get("/templates", s.handleListTemplates)
		r.Get("/templates/{id}", s.handleGetTemplate)

		// Mutating endpoints (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))

			r.Post("/sessions", s.handleStartSession)
			r.Patch("/sessions/{id}", s.handleUpdateSession)
			r.Post("/sessions/{id}/complete", s.handleCompleteSession)
			r.Delete("/sessions/{id}", s.handleDeleteSession)

			r.Post("/sessions/{id}/exercises", s.handleCreateExercise)
			r.Post("/sessions/{id}/exercises/reorder", s.handleReorderExercises)
			r.Patch("/exercises/{id}", s.handleUpdateExercise)
			r.Delete("/exercises/{id}", s.handleDeleteExercise)

			r.Post("/exercises/{id}/sets", s.handleCreateSet)
			r.Post("/exercises/{id}/sets/bulk", s.handleCreateMultipleSets)
			r.Patch("/sets/{id}", s.handleUpdateSet)
			r.Post("/sets/{id}/complete", s.handleCompleteSet)
			r.Post("/sets/{id}/uncomplete", s.handleUncompleteSet)
			r.Delete("/sets/{id}", s.handleDeleteSet)

			r.Post("/prs", s.handleRecordPR)

			r.Post("/programs", s.handleCreateProgram)
			r.Patch("/programs/{id}", s.handleUpdateProgram)
			r.Delete("/programs/{id}", s.handleDeleteProgram)
			r.Post("/programs/{id}/activate", s.handleActivateProgram)
			r.Post("/programs/{id}/advance", s.handleAdvanceProgram)
			r.Post("/programs/{id}/days", s.handleCreateProgramDay)
			r.Patch("/program-days/{id}", s.handleUpdateProgramDay)
			r.Delete("/program-days/{id}", s.handleDeleteProgramDay)
			r.Post("/program-days/{id}/exercises", s.handleCreateProgramDayExercise)
			r.Patch("/program-day-exercises/{id}", s.handleUpdateProgramDayExercise)
			r.Delete("/program-day-exercises/{id}", s.handleDeleteProgramDayExercise)
			r.Put("/program-day-exercises/{id}/targets", s.handleReplaceExplicitTargets)

			r.Post("/templates", s.handleCreateTemplate)
			r.Patch("/templates/{id}", s.handleUpdateTemplate)
			r.Put("/templates/{id}/exercises", s.handleReplaceTemplateExercises)
			r.Delete("/templates/{id}", s.handleDeleteTemplate)
		})
	})
}
