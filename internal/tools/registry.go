// Package tools holds a session's function tool registry. The frontend
// replaces the whole tool list at runtime; in-flight tool calls keep the
// snapshot they started with.
package tools

import (
	"encoding/json"
	"slices"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"

	"github.com/kwami-ai/agent-go/internal/kwami"
)

// emptySchema is used for tools declared without parameters.
var emptySchema = json.RawMessage(`{"type":"object","properties":{}}`)

// Registry is the mutable, concurrency-safe tool list of one session.
type Registry struct {
	mu       sync.RWMutex
	defs     []kwami.ToolDefinition
	revision uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Replace swaps the whole tool list atomically and bumps the revision
// counter. It returns the new revision.
func (r *Registry) Replace(defs []kwami.ToolDefinition) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.defs = slices.Clone(defs)
	r.revision++

	log.Debug().
		Int("count", len(r.defs)).
		Uint64("revision", r.revision).
		Msg("Replaced tool registry")

	return r.revision
}

// Snapshot returns the current tool list. The returned slice belongs to
// the caller; later replacements do not affect it.
func (r *Registry) Snapshot() []kwami.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.defs)
}

// Revision returns the current revision counter. It starts at zero and
// increases by one per replacement.
func (r *Registry) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// MCPTools renders the registered definitions as MCP tools. Definitions
// without a parameter schema get an empty object schema.
func (r *Registry) MCPTools() []mcp.Tool {
	defs := r.Snapshot()

	rendered := make([]mcp.Tool, 0, len(defs))
	for _, def := range defs {
		schema := def.Schema
		if len(schema) == 0 {
			schema = emptySchema
		}
		rendered = append(rendered, mcp.NewToolWithRawSchema(def.Name, def.Description, schema))
	}
	return rendered
}
