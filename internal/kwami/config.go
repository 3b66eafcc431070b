// Package kwami holds the authoritative configuration model for a live agent
// session: identity, persona, voice-pipeline parameters, and the tool list,
// plus the patch semantics used to update them over the data channel.
package kwami

import (
	"encoding/json"
	"slices"
)

// DefaultKwamiName is the display name used until the front-end assigns one.
const DefaultKwamiName = "Kwami"

// Response length levels understood by the prompt compiler.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// Emotional tone levels understood by the prompt compiler.
const (
	ToneNeutral      = "neutral"
	ToneWarm         = "warm"
	ToneEnthusiastic = "enthusiastic"
	ToneCalm         = "calm"
)

// PersonaConfig describes who the agent is and how it should speak.
type PersonaConfig struct {
	Name              string   `json:"name"`
	Personality       string   `json:"personality"`
	SystemPrompt      string   `json:"systemPrompt,omitempty"`
	Traits            []string `json:"traits,omitempty"`
	Language          string   `json:"language"`
	ConversationStyle string   `json:"conversationStyle"`
	ResponseLength    string   `json:"responseLength"`
	EmotionalTone     string   `json:"emotionalTone"`
}

// SttParams selects the speech-to-text engine.
type SttParams struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

// LlmParams selects the language model.
type LlmParams struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}

// TtsParams selects the text-to-speech engine.
type TtsParams struct {
	Provider string  `json:"provider"`
	Voice    string  `json:"voice"`
	Model    string  `json:"model"`
	Speed    float64 `json:"speed"`
}

// VadParams selects the voice-activity detector. Durations are in seconds,
// matching the wire encoding.
type VadParams struct {
	Provider           string  `json:"provider"`
	Threshold          float64 `json:"threshold"`
	MinSpeechDuration  float64 `json:"minSpeechDuration"`
	MinSilenceDuration float64 `json:"minSilenceDuration"`
}

// EnhancementFlags toggles optional pipeline features.
type EnhancementFlags struct {
	NoiseCancellation bool   `json:"noiseCancellation"`
	TurnDetection     string `json:"turnDetection"`
}

// VoicePipelineConfig groups the resolved parameters for every pipeline slot.
type VoicePipelineConfig struct {
	Stt          SttParams        `json:"stt"`
	Llm          LlmParams        `json:"llm"`
	Tts          TtsParams        `json:"tts"`
	Vad          VadParams        `json:"vad"`
	Enhancements EnhancementFlags `json:"enhancements"`
	PipelineType string           `json:"pipelineType"`
}

// ToolDefinition is a front-end declared tool. The schema is kept raw and
// never interpreted here.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Schema      json.RawMessage `json:"parameters,omitempty"`
}

// SessionConfig is the aggregate configuration owned by exactly one live
// session. It is created with defaults at session start and mutated only
// through the merge protocol.
type SessionConfig struct {
	KwamiID   string              `json:"kwamiId"`
	KwamiName string              `json:"kwamiName"`
	Persona   PersonaConfig       `json:"persona"`
	Voice     VoicePipelineConfig `json:"voice"`
	Tools     []ToolDefinition    `json:"tools,omitempty"`
}

// DefaultPersona returns the persona in effect before any front-end
// configuration arrives.
func DefaultPersona() PersonaConfig {
	return PersonaConfig{
		Name:              "Kwami",
		Personality:       "A friendly and helpful AI companion",
		Language:          "en",
		ConversationStyle: "friendly",
		ResponseLength:    LengthMedium,
		EmotionalTone:     ToneWarm,
	}
}

// DefaultVoicePipeline returns the pipeline parameters in effect before any
// front-end configuration arrives.
func DefaultVoicePipeline() VoicePipelineConfig {
	return VoicePipelineConfig{
		Stt: SttParams{
			Provider: "deepgram",
			Model:    "nova-2",
			Language: "en",
		},
		Llm: LlmParams{
			Provider:    "openai",
			Model:       "gpt-4o",
			Temperature: 0.8,
		},
		Tts: TtsParams{
			Provider: "cartesia",
			Voice:    "79a125e8-cd45-4c13-8a67-188112f4dd22",
			Model:    "sonic",
			Speed:    1.0,
		},
		Vad: VadParams{
			Provider:           "silero",
			Threshold:          0.5,
			MinSpeechDuration:  0.1,
			MinSilenceDuration: 0.3,
		},
		Enhancements: EnhancementFlags{
			NoiseCancellation: true,
			TurnDetection:     "server_vad",
		},
		PipelineType: "voice",
	}
}

// DefaultSessionConfig returns a fresh session configuration with all
// defaults applied.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		KwamiName: DefaultKwamiName,
		Persona:   DefaultPersona(),
		Voice:     DefaultVoicePipeline(),
	}
}

// Clone returns a copy safe for concurrent readers while the owning session
// keeps mutating the original. Tool schemas are shared; they are treated as
// immutable once decoded.
func (c *SessionConfig) Clone() *SessionConfig {
	out := *c
	out.Persona.Traits = slices.Clone(c.Persona.Traits)
	out.Tools = slices.Clone(c.Tools)
	return &out
}
