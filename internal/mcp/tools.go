package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetRecentSessions = mcp.NewTool("get_recent_sessions",
	mcp.WithDescription("List recent workout sessions, most recent first. Returns session summaries with provenance (free, template, or program), start/end times, and duration."),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 20.")),
)

var toolGetSessionDetail = mcp.NewTool("get_session_detail",
	mcp.WithDescription("Retrieve one workout session with its full exercise and set breakdown."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Per-session history for one exercise across completed sessions: set counts, volume, max weight, and total reps. Name matching is case-insensitive."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (e.g. 'Bench Press')")),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 20.")),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("List all personal records. One record per exercise and rep count, holding the heaviest weight ever completed."),
)

var toolGetProgram = mcp.NewTool("get_program",
	mcp.WithDescription("Retrieve a training program with its days, target exercises, and per-set targets. Omit program_id to get the active program."),
	mcp.WithString("program_id", mcp.Description("Program ID. Defaults to the active program.")),
)

var toolGetNextProgramDay = mcp.NewTool("get_next_program_day",
	mcp.WithDescription("The day the program's rotation points at, i.e. what to train next. Omit program_id to use the active program."),
	mcp.WithString("program_id", mcp.Description("Program ID. Defaults to the active program.")),
)

var toolGetVolumeSummary = mcp.NewTool("get_volume_summary",
	mcp.WithDescription("Aggregate numbers for one session: total volume (reps x weight over completed sets) and set completion counts."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
)

// --- Tool handlers ---

func (h *handlers) getRecentSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)

	sessions, err := h.db.ListSessions(ctx, limit)
	if err != nil {
		h.log.Error("mcp get_recent_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessionDetail(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}

	session, err := h.db.GetSession(ctx, id)
	if err != nil {
		h.log.Error("mcp get_session_detail", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(session)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	limit := req.GetInt("limit", 20)

	entries, err := h.db.ExerciseHistory(ctx, exercise, limit)
	if err != nil {
		h.log.Error("mcp get_exercise_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(entries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPersonalRecords(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prs, err := h.db.ListPRs(ctx)
	if err != nil {
		h.log.Error("mcp get_personal_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(prs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// resolveProgramID falls back to the active program when no explicit id was
// supplied. The bool reports whether any program could be resolved.
func (h *handlers) resolveProgramID(ctx context.Context, req mcp.CallToolRequest) (string, bool, error) {
	if id := req.GetString("program_id", ""); id != "" {
		return id, true, nil
	}
	active, err := h.db.GetActiveProgram(ctx)
	if err != nil {
		return "", false, err
	}
	if active == nil {
		return "", false, nil
	}
	return active.ID, true, nil
}

func (h *handlers) getProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok, err := h.resolveProgramID(ctx, req)
	if err != nil {
		h.log.Error("mcp get_program", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError("no program_id given and no active program"), nil
	}

	program, err := h.db.GetProgramWithDaysAndExercises(ctx, id)
	if err != nil {
		h.log.Error("mcp get_program", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if program == nil {
		return mcp.NewToolResultError("program not found: " + id), nil
	}

	result, err := mcp.NewToolResultJSON(program)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getNextProgramDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok, err := h.resolveProgramID(ctx, req)
	if err != nil {
		h.log.Error("mcp get_next_program_day", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError("no program_id given and no active program"), nil
	}

	day, err := h.db.GetNextProgramDay(ctx, id)
	if err != nil {
		h.log.Error("mcp get_next_program_day", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"program_id": id,
		"next_day":   day,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getVolumeSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}

	volume, err := h.db.SessionVolume(ctx, id)
	if err != nil {
		h.log.Error("mcp get_volume_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	completed, err := h.db.CompletedSetCount(ctx, id)
	if err != nil {
		h.log.Error("mcp get_volume_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	total, err := h.db.TotalSetCount(ctx, id)
	if err != nil {
		h.log.Error("mcp get_volume_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"session_id":     id,
		"total_volume":   volume,
		"completed_sets": completed,
		"total_sets":     total,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
