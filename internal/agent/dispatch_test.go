package agent

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwami-ai/agent-go/internal/kwami"
)

// Spies are mutex guarded because session tests read them from the test
// goroutine while the loop goroutine writes.

type spyInstructions struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (s *spyInstructions) UpdateInstructions(_ context.Context, instructions string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, instructions)
	return s.err
}

func (s *spyInstructions) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

type spyTools struct {
	mu    sync.Mutex
	calls [][]kwami.ToolDefinition
	err   error
}

func (s *spyTools) ReplaceTools(_ context.Context, defs []kwami.ToolDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, defs)
	return s.err
}

func (s *spyTools) all() [][]kwami.ToolDefinition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]kwami.ToolDefinition(nil), s.calls...)
}

type spyTurn struct {
	mu      sync.Mutex
	cancels int
	err     error
}

func (s *spyTurn) CancelTurn(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels++
	return s.err
}

func (s *spyTurn) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancels
}

type spyMarker struct {
	mu    sync.Mutex
	marks []kwami.VoicePipelineConfig
}

func (s *spyMarker) MarkPipelineDirty(cfg kwami.VoicePipelineConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks = append(s.marks, cfg)
}

func (s *spyMarker) all() []kwami.VoicePipelineConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]kwami.VoicePipelineConfig(nil), s.marks...)
}

func TestDispatcher_ApplyPersona(t *testing.T) {
	instructions := &spyInstructions{}
	d := NewDispatcher(Hooks{Instructions: instructions}, nil)

	d.Apply(context.Background(), Update{
		Changes:      kwami.ChangeSet{Persona: true},
		Config:       *kwami.DefaultSessionConfig(),
		Instructions: "You are Ada, a test persona.",
	})

	assert.Equal(t, []string{"You are Ada, a test persona."}, instructions.all())
	assert.Equal(t, StateIdle, d.State())
}

func TestDispatcher_ApplyVoiceMarksPipeline(t *testing.T) {
	marker := &spyMarker{}
	d := NewDispatcher(Hooks{}, marker)

	cfg := kwami.DefaultSessionConfig()
	cfg.Voice.Tts.Provider = "elevenlabs"

	d.Apply(context.Background(), Update{
		Changes: kwami.ChangeSet{Voice: true},
		Config:  *cfg,
	})

	marks := marker.all()
	require.Len(t, marks, 1)
	assert.Equal(t, "elevenlabs", marks[0].Tts.Provider)
}

func TestDispatcher_ApplyTools(t *testing.T) {
	sink := &spyTools{}
	d := NewDispatcher(Hooks{Tools: sink}, nil)

	cfg := kwami.DefaultSessionConfig()
	cfg.Tools = []kwami.ToolDefinition{{Name: "get_weather", Description: "Current weather"}}

	d.Apply(context.Background(), Update{
		Changes: kwami.ChangeSet{Tools: true},
		Config:  *cfg,
	})

	calls := sink.all()
	require.Len(t, calls, 1)
	require.Len(t, calls[0], 1)
	assert.Equal(t, "get_weather", calls[0][0].Name)
}

func TestDispatcher_HookErrorDoesNotStopRemainingHooks(t *testing.T) {
	instructions := &spyInstructions{err: errors.New("agent rejected instructions")}
	sink := &spyTools{}
	marker := &spyMarker{}
	d := NewDispatcher(Hooks{Instructions: instructions, Tools: sink}, marker)

	d.Apply(context.Background(), Update{
		Changes:      kwami.ChangeSet{Persona: true, Voice: true, Tools: true},
		Config:       *kwami.DefaultSessionConfig(),
		Instructions: "prompt",
	})

	assert.Len(t, instructions.all(), 1)
	assert.Len(t, marker.all(), 1)
	assert.Len(t, sink.all(), 1)
	assert.Equal(t, StateIdle, d.State())
}

func TestDispatcher_NilHooksAreSafe(t *testing.T) {
	d := NewDispatcher(Hooks{}, nil)

	assert.NotPanics(t, func() {
		d.Apply(context.Background(), Update{
			Changes: kwami.ChangeSet{Identity: true, Persona: true, Voice: true, Tools: true},
			Config:  *kwami.DefaultSessionConfig(),
		})
		d.Interrupt(context.Background())
	})
	assert.Equal(t, StateIdle, d.State())
}

func TestDispatcher_EmptyChangeSetIsNoOp(t *testing.T) {
	instructions := &spyInstructions{}
	marker := &spyMarker{}
	d := NewDispatcher(Hooks{Instructions: instructions}, marker)

	d.Apply(context.Background(), Update{Config: *kwami.DefaultSessionConfig()})

	assert.Empty(t, instructions.all())
	assert.Empty(t, marker.all())
}

func TestDispatcher_Interrupt(t *testing.T) {
	turn := &spyTurn{}
	d := NewDispatcher(Hooks{Turn: turn}, nil)

	d.Interrupt(context.Background())
	d.Interrupt(context.Background())

	assert.Equal(t, 2, turn.count())
	assert.Equal(t, StateIdle, d.State())
}

func TestDispatcher_InterruptErrorIsSwallowed(t *testing.T) {
	turn := &spyTurn{err: errors.New("no active turn")}
	d := NewDispatcher(Hooks{Turn: turn}, nil)

	assert.NotPanics(t, func() {
		d.Interrupt(context.Background())
	})
	assert.Equal(t, 1, turn.count())
	assert.Equal(t, StateIdle, d.State())
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateApplyingPersona, "applying_persona"},
		{StateApplyingVoice, "applying_voice"},
		{StateApplyingTools, "applying_tools"},
		{StateInterrupting, "interrupting"},
		{State(42), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}
