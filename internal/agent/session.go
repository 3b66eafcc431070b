package agent

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kwami-ai/agent-go/internal/kwami"
	"github.com/kwami-ai/agent-go/internal/protocol"
	"github.com/kwami-ai/agent-go/internal/provider"
	"github.com/kwami-ai/agent-go/internal/transport"
)

const inboxSize = 32

// Session owns exactly one SessionConfig and serves one participant
// stream. All mutation happens on the Run loop goroutine; concurrent
// readers go through Snapshot and the other accessors, which take the
// session mutex.
type Session struct {
	name       string
	dispatcher *Dispatcher

	mu       sync.RWMutex
	cfg      *kwami.SessionConfig
	compiled string
	dirty    bool
	pipeline *provider.Pipeline

	msgs      chan transport.DataMessage
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession creates a session around cfg, or around defaults when cfg
// is nil. The session starts with the pipeline marked dirty so the first
// RebuildPipeline resolves the initial engine set.
func NewSession(name string, cfg *kwami.SessionConfig, hooks Hooks) *Session {
	if name == "" {
		name = uuid.NewString()
	}
	if cfg == nil {
		cfg = kwami.DefaultSessionConfig()
	}

	s := &Session{
		name:     name,
		cfg:      cfg,
		compiled: kwami.CompileInstructions(cfg.Persona),
		dirty:    true,
		msgs:     make(chan transport.DataMessage, inboxSize),
		done:     make(chan struct{}),
	}
	s.dispatcher = NewDispatcher(hooks, s)
	return s
}

// Name returns the session name.
func (s *Session) Name() string {
	return s.name
}

// Run serves the session loop until ctx is cancelled or Close is called.
// Every inbound message is decoded, merged and dispatched strictly in
// arrival order.
func (s *Session) Run(ctx context.Context) error {
	log.Info().Str("session", s.name).Msg("Session loop started")
	defer log.Info().Str("session", s.name).Msg("Session loop stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case msg := <-s.msgs:
			s.process(ctx, msg)
		}
	}
}

// HandleData enqueues one raw message for the session loop. The
// signature matches transport.DataHandler so a session can be registered
// on a room directly.
func (s *Session) HandleData(ctx context.Context, msg transport.DataMessage) {
	select {
	case s.msgs <- msg:
	case <-s.done:
		log.Debug().Str("session", s.name).Msg("Dropping message for closed session")
	case <-ctx.Done():
	}
}

// Close stops the session loop. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	return nil
}

// Snapshot returns a copy of the effective configuration.
func (s *Session) Snapshot() kwami.SessionConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.cfg.Clone()
}

// Instructions returns the system prompt compiled from the current
// persona.
func (s *Session) Instructions() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.compiled
}

// PipelineDirty reports whether the voice engines lag the configuration.
func (s *Session) PipelineDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Pipeline returns the most recently built engine set, or nil before the
// first rebuild.
func (s *Session) Pipeline() *provider.Pipeline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pipeline
}

// MarkPipelineDirty implements PipelineMarker. The rebuild itself is
// deferred to the owner so engines are never swapped mid-turn.
func (s *Session) MarkPipelineDirty(cfg kwami.VoicePipelineConfig) {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
	log.Debug().
		Str("session", s.name).
		Str("stt", cfg.Stt.Provider).
		Str("llm", cfg.Llm.Provider).
		Str("tts", cfg.Tts.Provider).
		Str("vad", cfg.Vad.Provider).
		Msg("Voice pipeline marked dirty")
}

// RebuildPipeline resolves fresh engines for the current voice
// configuration and clears the dirty flag.
func (s *Session) RebuildPipeline() *provider.Pipeline {
	s.mu.RLock()
	voice := s.cfg.Voice
	s.mu.RUnlock()

	pipeline := provider.Build(voice)

	s.mu.Lock()
	s.pipeline = pipeline
	s.dirty = false
	s.mu.Unlock()

	log.Info().
		Str("session", s.name).
		Str("stt", pipeline.STT.Name()).
		Str("llm", pipeline.LLM.Name()).
		Str("tts", pipeline.TTS.Name()).
		Str("vad", pipeline.VAD.Name()).
		Msg("Voice pipeline rebuilt")
	return pipeline
}

// process handles one raw message: decode, merge, dispatch. A panic in
// any step is recovered here so a single message can never take the
// session loop down.
func (s *Session) process(ctx context.Context, msg transport.DataMessage) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("session", s.name).
				Msg("Recovered from panic while handling message")
		}
	}()

	switch intent := protocol.Decode(msg.Payload, msg.Sender).(type) {
	case protocol.MalformedIntent:
		// Already logged by the decoder. Dropped without touching state.
	case protocol.InterruptIntent:
		s.dispatcher.Interrupt(ctx)
	case protocol.FullConfigIntent:
		s.applyAndDispatch(ctx, func(cfg *kwami.SessionConfig) kwami.ChangeSet {
			return cfg.ApplyFull(intent.Patch)
		})
	case protocol.PersonaUpdateIntent:
		s.applyAndDispatch(ctx, func(cfg *kwami.SessionConfig) kwami.ChangeSet {
			return cfg.ApplyPersona(intent.Patch)
		})
	case protocol.VoiceUpdateIntent:
		s.applyAndDispatch(ctx, func(cfg *kwami.SessionConfig) kwami.ChangeSet {
			return cfg.ApplyVoice(intent.Patch)
		})
	case protocol.ToolsUpdateIntent:
		s.applyAndDispatch(ctx, func(cfg *kwami.SessionConfig) kwami.ChangeSet {
			return cfg.ApplyTools(intent.Tools)
		})
	}
}

// applyAndDispatch merges one patch under the session mutex, recompiles
// instructions when the persona changed and hands the resulting update to
// the dispatcher.
func (s *Session) applyAndDispatch(ctx context.Context, merge func(*kwami.SessionConfig) kwami.ChangeSet) {
	s.mu.Lock()
	changes := merge(s.cfg)
	if changes.Persona {
		s.compiled = kwami.CompileInstructions(s.cfg.Persona)
	}
	up := Update{
		Changes:      changes,
		Config:       *s.cfg.Clone(),
		Instructions: s.compiled,
	}
	s.mu.Unlock()

	if changes.Empty() {
		return
	}
	log.Debug().
		Str("session", s.name).
		Str("changes", changes.String()).
		Msg("Applying configuration change")
	s.dispatcher.Apply(ctx, up)
}
