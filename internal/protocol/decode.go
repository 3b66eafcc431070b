package protocol

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/kwami-ai/agent-go/internal/kwami"
)

// envelope probes the discriminator fields shared by all message types.
type envelope struct {
	Type       string          `json:"type"`
	UpdateType string          `json:"updateType"`
	Config     json.RawMessage `json:"config"`
}

// Decode classifies an inbound payload from the given sender. It never
// panics and never returns an error; anything unclassifiable comes back as
// a MalformedIntent carrying the reason.
func Decode(data []byte, sender string) Intent {
	if !utf8.Valid(data) {
		return malformed(sender, ErrNotUTF8)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return malformed(sender, fmt.Errorf("%w: %v", ErrInvalidJSON, err))
	}
	if env.Type == "" {
		return malformed(sender, ErrMissingType)
	}

	switch env.Type {
	case TypeConfig:
		// The message itself is the payload; the type field is ignored
		// by the patch decode.
		var patch kwami.ConfigPatch
		if err := json.Unmarshal(data, &patch); err != nil {
			return malformed(sender, fmt.Errorf("%w: %v", ErrInvalidPayload, err))
		}
		return FullConfigIntent{Patch: &patch}

	case TypeConfigUpdate:
		return decodeUpdate(env, sender)

	case TypeInterrupt:
		return InterruptIntent{}

	default:
		return malformed(sender, fmt.Errorf("%w: %q", ErrUnknownType, env.Type))
	}
}

func decodeUpdate(env envelope, sender string) Intent {
	if env.UpdateType == "" {
		return malformed(sender, ErrMissingUpdateType)
	}
	if emptyPayload(env.Config) {
		return malformed(sender, fmt.Errorf("%w: updateType %q", ErrMissingPayload, env.UpdateType))
	}

	switch env.UpdateType {
	case UpdatePersona:
		var patch kwami.PersonaPatch
		if err := json.Unmarshal(env.Config, &patch); err != nil {
			return malformed(sender, fmt.Errorf("%w: %v", ErrInvalidPayload, err))
		}
		return PersonaUpdateIntent{Patch: &patch}

	case UpdateVoice:
		var patch kwami.VoicePatch
		if err := json.Unmarshal(env.Config, &patch); err != nil {
			return malformed(sender, fmt.Errorf("%w: %v", ErrInvalidPayload, err))
		}
		return VoiceUpdateIntent{Patch: &patch}

	case UpdateTools:
		// The payload for a tools update is the definition list itself.
		var tools []kwami.ToolDefinition
		if err := json.Unmarshal(env.Config, &tools); err != nil {
			return malformed(sender, fmt.Errorf("%w: %v", ErrInvalidPayload, err))
		}
		return ToolsUpdateIntent{Tools: tools}

	case UpdateFull:
		var patch kwami.ConfigPatch
		if err := json.Unmarshal(env.Config, &patch); err != nil {
			return malformed(sender, fmt.Errorf("%w: %v", ErrInvalidPayload, err))
		}
		return FullConfigIntent{Patch: &patch}

	default:
		return malformed(sender, fmt.Errorf("%w: %q", ErrUnknownUpdateType, env.UpdateType))
	}
}

func emptyPayload(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func malformed(sender string, reason error) MalformedIntent {
	log.Debug().Str("sender", sender).Err(reason).Msg("Unclassifiable data message")
	return MalformedIntent{Reason: reason}
}
