package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sessions, err := h.db.ListSessions(ctx, 20)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(sessions)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) activeProgram(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	active, err := h.db.GetActiveProgram(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{"active": active != nil}
	if active != nil {
		full, err := h.db.GetProgramWithDaysAndExercises(ctx, active.ID)
		if err != nil {
			return nil, err
		}
		payload["program"] = full

		next, err := h.db.GetNextProgramDay(ctx, active.ID)
		if err != nil {
			h.log.Warn("active_program: next day lookup failed", "error", err)
		} else {
			payload["next_day"] = next
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) prCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	prs, err := h.db.ListPRs(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(prs)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
