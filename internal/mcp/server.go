package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(db DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog workout tracking server. Query workout sessions, exercise history, personal records, and training programs. All data belongs to a single local user."),
	)

	h := &handlers{db: db, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetRecentSessions, Handler: h.getRecentSessions},
		server.ServerTool{Tool: toolGetSessionDetail, Handler: h.getSessionDetail},
		server.ServerTool{Tool: toolGetExerciseHistory, Handler: h.getExerciseHistory},
		server.ServerTool{Tool: toolGetPersonalRecords, Handler: h.getPersonalRecords},
		server.ServerTool{Tool: toolGetProgram, Handler: h.getProgram},
		server.ServerTool{Tool: toolGetNextProgramDay, Handler: h.getNextProgramDay},
		server.ServerTool{Tool: toolGetVolumeSummary, Handler: h.getVolumeSummary},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
		server.ServerResource{Resource: resActiveProgram, Handler: h.activeProgram},
		server.ServerResource{Resource: resPRCatalog, Handler: h.prCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	db  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRecentSessions = mcp.NewResource(
	"liftlog://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("The 20 most recent workout sessions with provenance and duration"),
	mcp.WithMIMEType("application/json"),
)

var resActiveProgram = mcp.NewResource(
	"liftlog://active_program",
	"Active Program",
	mcp.WithResourceDescription("The currently active training program with its days, target exercises, and the next day in rotation"),
	mcp.WithMIMEType("application/json"),
)

var resPRCatalog = mcp.NewResource(
	"liftlog://pr_catalog",
	"Personal Record Catalog",
	mcp.WithResourceDescription("All personal records, one per exercise and rep count"),
	mcp.WithMIMEType("application/json"),
)
