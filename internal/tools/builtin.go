package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kwami-ai/agent-go/internal/kwami"
)

// KwamiInfoToolName is the name of the built-in identity tool every
// session exposes regardless of the configured tool list.
const KwamiInfoToolName = "get_kwami_info"

// InfoSource supplies the live session configuration for the built-in
// tool.
type InfoSource interface {
	Snapshot() kwami.SessionConfig
}

// KwamiInfoHandler answers a tool call with the session's identity.
type KwamiInfoHandler func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// BuiltinKwamiInfo returns the built-in get_kwami_info tool and its
// handler. The handler reads the session snapshot at call time, so it
// always reflects the latest configuration.
func BuiltinKwamiInfo(src InfoSource) (mcp.Tool, KwamiInfoHandler) {
	tool := mcp.NewTool(KwamiInfoToolName,
		mcp.WithDescription("Get information about this kwami: its identity, persona and language."),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cfg := src.Snapshot()

		info := map[string]interface{}{
			"kwamiId":     cfg.KwamiID,
			"kwamiName":   cfg.KwamiName,
			"name":        cfg.Persona.Name,
			"personality": cfg.Persona.Personality,
			"language":    cfg.Persona.Language,
			"traits":      cfg.Persona.Traits,
		}

		payload, err := json.Marshal(info)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal kwami info: %w", err)
		}

		return mcp.NewToolResultText(string(payload)), nil
	}

	return tool, handler
}
