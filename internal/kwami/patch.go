package kwami

// The patch types below mirror the wire payloads one field at a time. A nil
// field was absent from the payload and leaves the current value unchanged;
// a non-nil field replaces the current value even when the new value is
// empty. An explicit JSON null behaves like an absent key.

// PersonaPatch is the decoded form of a persona update payload.
type PersonaPatch struct {
	Name              *string   `json:"name"`
	Personality       *string   `json:"personality"`
	SystemPrompt      *string   `json:"systemPrompt"`
	Traits            *[]string `json:"traits"`
	Language          *string   `json:"language"`
	ConversationStyle *string   `json:"conversationStyle"`
	ResponseLength    *string   `json:"responseLength"`
	EmotionalTone     *string   `json:"emotionalTone"`
}

// SttPatch updates speech-to-text parameters.
type SttPatch struct {
	Provider *string `json:"provider"`
	Model    *string `json:"model"`
	Language *string `json:"language"`
}

// LlmPatch updates language-model parameters.
type LlmPatch struct {
	Provider    *string  `json:"provider"`
	Model       *string  `json:"model"`
	Temperature *float64 `json:"temperature"`
}

// TtsPatch updates text-to-speech parameters.
type TtsPatch struct {
	Provider *string  `json:"provider"`
	Voice    *string  `json:"voice"`
	Model    *string  `json:"model"`
	Speed    *float64 `json:"speed"`
}

// VadPatch updates voice-activity-detection parameters.
type VadPatch struct {
	Provider           *string  `json:"provider"`
	Threshold          *float64 `json:"threshold"`
	MinSpeechDuration  *float64 `json:"minSpeechDuration"`
	MinSilenceDuration *float64 `json:"minSilenceDuration"`
}

// NoiseCancellationPatch toggles noise cancellation.
type NoiseCancellationPatch struct {
	Enabled *bool `json:"enabled"`
}

// TurnDetectionPatch switches the turn-detection mode.
type TurnDetectionPatch struct {
	Mode *string `json:"mode"`
}

// EnhancementsPatch updates optional pipeline features.
type EnhancementsPatch struct {
	NoiseCancellation *NoiseCancellationPatch `json:"noiseCancellation"`
	TurnDetection     *TurnDetectionPatch     `json:"turnDetection"`
}

// VoicePatch is the decoded form of a voice update payload.
type VoicePatch struct {
	Stt          *SttPatch          `json:"stt"`
	Llm          *LlmPatch          `json:"llm"`
	Tts          *TtsPatch          `json:"tts"`
	Vad          *VadPatch          `json:"vad"`
	Enhancements *EnhancementsPatch `json:"enhancements"`
	PipelineType *string            `json:"pipelineType"`
}

// ConfigPatch is the decoded form of a full configuration payload. Sections
// left nil are not touched; identity fields are special-cased by ApplyFull.
type ConfigPatch struct {
	KwamiID   *string          `json:"kwamiId"`
	KwamiName *string          `json:"kwamiName"`
	Persona   *PersonaPatch    `json:"persona"`
	Voice     *VoicePatch      `json:"voice"`
	Tools     []ToolDefinition `json:"tools"`
}

// HasTools reports whether the payload carried a tools section. A decoded
// empty list still replaces the current tool set.
func (p *ConfigPatch) HasTools() bool {
	return p.Tools != nil
}
