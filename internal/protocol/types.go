// Package protocol classifies raw data-channel payloads into typed intents.
// Decoding never mutates session state and never lets a parse failure
// escape; undecodable input is returned as a MalformedIntent.
package protocol

import (
	"errors"

	"github.com/kwami-ai/agent-go/internal/kwami"
)

// Message type discriminators recognized on the wire.
const (
	TypeConfig       = "config"
	TypeConfigUpdate = "config_update"
	TypeInterrupt    = "interrupt"
)

// Update categories recognized inside a config_update message.
const (
	UpdatePersona = "persona"
	UpdateVoice   = "voice"
	UpdateTools   = "tools"
	UpdateFull    = "full"
)

// Decode failure reasons, surfaced on MalformedIntent for logging.
var (
	ErrNotUTF8           = errors.New("payload is not valid UTF-8")
	ErrInvalidJSON       = errors.New("payload is not a JSON object")
	ErrMissingType       = errors.New("missing type discriminator")
	ErrUnknownType       = errors.New("unknown message type")
	ErrMissingUpdateType = errors.New("missing updateType")
	ErrUnknownUpdateType = errors.New("unknown updateType")
	ErrMissingPayload    = errors.New("missing config payload")
	ErrInvalidPayload    = errors.New("undecodable config payload")
)

// Intent is the classified form of one inbound message. The implementation
// set is closed; consumers switch on the concrete type.
type Intent interface {
	isIntent()
}

// FullConfigIntent carries a complete configuration payload, from either a
// top-level config message or a config_update with the full category.
type FullConfigIntent struct {
	Patch *kwami.ConfigPatch
}

// PersonaUpdateIntent carries a partial persona update.
type PersonaUpdateIntent struct {
	Patch *kwami.PersonaPatch
}

// VoiceUpdateIntent carries a partial voice-pipeline update.
type VoiceUpdateIntent struct {
	Patch *kwami.VoicePatch
}

// ToolsUpdateIntent carries a wholesale tool-list replacement.
type ToolsUpdateIntent struct {
	Tools []kwami.ToolDefinition
}

// InterruptIntent asks the session to cut the current turn short.
type InterruptIntent struct{}

// MalformedIntent marks a payload that could not be classified. The message
// is dropped; Reason exists for logging only.
type MalformedIntent struct {
	Reason error
}

func (FullConfigIntent) isIntent()    {}
func (PersonaUpdateIntent) isIntent() {}
func (VoiceUpdateIntent) isIntent()   {}
func (ToolsUpdateIntent) isIntent()   {}
func (InterruptIntent) isIntent()     {}
func (MalformedIntent) isIntent()     {}
