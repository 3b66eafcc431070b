// Package agent runs the per-connection session actor: it owns the
// session configuration, serializes inbound reconfiguration messages and
// pushes their side effects into the live conversation.
package agent

import (
	"context"

	"github.com/kwami-ai/agent-go/internal/kwami"
	"github.com/kwami-ai/agent-go/internal/tools"
)

// InstructionSink receives recompiled system instructions. Implementations
// apply them without disrupting an in-progress turn.
type InstructionSink interface {
	UpdateInstructions(ctx context.Context, instructions string) error
}

// ToolSink receives wholesale tool list replacements. The old list is
// fully discarded, never merged.
type ToolSink interface {
	ReplaceTools(ctx context.Context, defs []kwami.ToolDefinition) error
}

// TurnHandle cancels the agent turn in flight, if any. Cancelling when
// no turn is active must be a safe no-op.
type TurnHandle interface {
	CancelTurn(ctx context.Context) error
}

// PipelineMarker records that the voice engines no longer match the
// configuration. The rebuild happens on the owner's schedule, never
// mid-turn.
type PipelineMarker interface {
	MarkPipelineDirty(cfg kwami.VoicePipelineConfig)
}

// Hooks bundles the live-conversation collaborators of one session. Any
// nil hook turns the matching change into a merge-only update.
type Hooks struct {
	Instructions InstructionSink
	Tools        ToolSink
	Turn         TurnHandle
}

// RegistrySink adapts a tool registry into a ToolSink.
type RegistrySink struct {
	Registry *tools.Registry
}

// ReplaceTools swaps the registry's tool list.
func (r RegistrySink) ReplaceTools(ctx context.Context, defs []kwami.ToolDefinition) error {
	r.Registry.Replace(defs)
	return nil
}
