// Package provider resolves voice pipeline parameters into ready-to-use
// speech and language engines. Construction never fails: unknown provider
// names fall back to the slot default, and engines missing credentials are
// built anyway and return a wrapped error on first use.
package provider

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrNoAPIKey is returned by engines whose credential environment variable
// was empty at construction time.
var ErrNoAPIKey = errors.New("API key not configured")

// STT transcribes an audio stream into text.
type STT interface {
	// Name returns the provider name
	Name() string

	// Transcribe converts the audio stream into a transcript
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}

// LLM generates a response for one conversation turn.
type LLM interface {
	// Name returns the provider name
	Name() string

	// Complete generates a reply for the given request
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// TTS synthesizes text into an audio stream.
type TTS interface {
	// Name returns the provider name
	Name() string

	// Synthesize generates audio from text and returns an audio stream
	Synthesize(ctx context.Context, text string) (io.ReadCloser, error)
}

// VAD detects speech activity in raw audio frames.
type VAD interface {
	// Name returns the detector name
	Name() string

	// Process consumes one frame of samples and reports the verdict
	Process(samples []float32) Decision

	// Reset clears accumulated state between utterances
	Reset()
}

// CompletionRequest is one turn of LLM input. Model and Temperature
// override the engine defaults when set.
type CompletionRequest struct {
	Instructions string  // system prompt for this turn
	Input        string  // user utterance
	Model        string  // optional model override
	Temperature  float64 // sampling temperature, 0 means engine default
}

// Decision is the detector verdict for one audio frame.
type Decision struct {
	Speaking  bool    // inside a confirmed speech segment
	TurnEnded bool    // segment closed on this frame after enough silence
	Energy    float64 // RMS energy of the frame
}

// Kind identifies a provider engine that can fill a pipeline slot.
type Kind int

const (
	KindDeepgram Kind = iota
	KindOpenAI
	KindCartesia
	KindElevenLabs
	KindPolly
	KindGCP
	KindSilero
)

// String returns the configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDeepgram:
		return "deepgram"
	case KindOpenAI:
		return "openai"
	case KindCartesia:
		return "cartesia"
	case KindElevenLabs:
		return "elevenlabs"
	case KindPolly:
		return "polly"
	case KindGCP:
		return "gcp"
	case KindSilero:
		return "silero"
	default:
		return "unknown"
	}
}

// ParseKind maps a configuration provider name onto a Kind. The second
// return is false for names outside the known set.
func ParseKind(name string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "deepgram":
		return KindDeepgram, true
	case "openai":
		return KindOpenAI, true
	case "cartesia":
		return KindCartesia, true
	case "elevenlabs":
		return KindElevenLabs, true
	case "polly", "aws":
		return KindPolly, true
	case "gcp", "google":
		return KindGCP, true
	case "silero":
		return KindSilero, true
	default:
		return 0, false
	}
}
