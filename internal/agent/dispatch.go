package agent

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/kwami-ai/agent-go/internal/kwami"
)

// State names the dispatcher's current phase, for logs.
type State int

const (
	StateIdle State = iota
	StateApplyingPersona
	StateApplyingVoice
	StateApplyingTools
	StateInterrupting
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateApplyingPersona:
		return "applying_persona"
	case StateApplyingVoice:
		return "applying_voice"
	case StateApplyingTools:
		return "applying_tools"
	case StateInterrupting:
		return "interrupting"
	default:
		return "unknown"
	}
}

// Update is one merged configuration change, ready for side effects.
// Config is the post-merge snapshot and Instructions carries the
// recompiled prompt whenever Changes.Persona is set.
type Update struct {
	Changes      kwami.ChangeSet
	Config       kwami.SessionConfig
	Instructions string
}

// Dispatcher pushes merged configuration changes into the live
// conversation. Hook errors are logged and swallowed so a misbehaving
// collaborator cannot take the session down.
//
// A Dispatcher is driven from a single goroutine, the session loop.
type Dispatcher struct {
	hooks    Hooks
	pipeline PipelineMarker
	state    State
}

// NewDispatcher creates a dispatcher over the given collaborators. Both
// hooks and pipeline may be zero valued.
func NewDispatcher(hooks Hooks, pipeline PipelineMarker) *Dispatcher {
	return &Dispatcher{hooks: hooks, pipeline: pipeline, state: StateIdle}
}

// State returns the dispatcher's current phase.
func (d *Dispatcher) State() State {
	return d.state
}

// Apply performs the side effects of one update. Sections run in a fixed
// order and a failing hook never stops the remaining ones.
func (d *Dispatcher) Apply(ctx context.Context, up Update) {
	if up.Changes.Empty() {
		return
	}
	defer d.setState(StateIdle)

	if up.Changes.Identity {
		log.Info().
			Str("kwami_id", up.Config.KwamiID).
			Str("kwami_name", up.Config.KwamiName).
			Msg("Session identity replaced")
	}

	if up.Changes.Persona {
		d.setState(StateApplyingPersona)
		if d.hooks.Instructions != nil {
			if err := d.hooks.Instructions.UpdateInstructions(ctx, up.Instructions); err != nil {
				log.Error().Err(err).Msg("Failed to push recompiled instructions")
			}
		}
	}

	if up.Changes.Voice {
		d.setState(StateApplyingVoice)
		if d.pipeline != nil {
			d.pipeline.MarkPipelineDirty(up.Config.Voice)
		}
	}

	if up.Changes.Tools {
		d.setState(StateApplyingTools)
		if d.hooks.Tools != nil {
			if err := d.hooks.Tools.ReplaceTools(ctx, up.Config.Tools); err != nil {
				log.Error().Err(err).Msg("Failed to replace tool list")
			}
		}
	}
}

// Interrupt cancels the turn in flight. Safe to call repeatedly and when
// no turn is active.
func (d *Dispatcher) Interrupt(ctx context.Context) {
	d.setState(StateInterrupting)
	defer d.setState(StateIdle)

	if d.hooks.Turn == nil {
		return
	}
	if err := d.hooks.Turn.CancelTurn(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to cancel current turn")
	}
}

func (d *Dispatcher) setState(next State) {
	if next == d.state {
		return
	}
	log.Debug().
		Str("from", d.state.String()).
		Str("to", next.String()).
		Msg("Dispatcher state change")
	d.state = next
}
