package kwami

import (
	"slices"
	"strings"
)

// ChangeSet records which top-level configuration sections a merge touched.
// The dispatcher uses it to decide which side effects fire.
type ChangeSet struct {
	Identity bool
	Persona  bool
	Voice    bool
	Tools    bool
}

// Empty reports whether no section was touched.
func (c ChangeSet) Empty() bool {
	return !c.Identity && !c.Persona && !c.Voice && !c.Tools
}

// Union combines two change-sets.
func (c ChangeSet) Union(o ChangeSet) ChangeSet {
	return ChangeSet{
		Identity: c.Identity || o.Identity,
		Persona:  c.Persona || o.Persona,
		Voice:    c.Voice || o.Voice,
		Tools:    c.Tools || o.Tools,
	}
}

// String lists the touched sections for logging.
func (c ChangeSet) String() string {
	parts := make([]string, 0, 4)
	if c.Identity {
		parts = append(parts, "identity")
	}
	if c.Persona {
		parts = append(parts, "persona")
	}
	if c.Voice {
		parts = append(parts, "voice")
	}
	if c.Tools {
		parts = append(parts, "tools")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// ApplyPersona folds a persona patch into the session configuration, last
// write wins per field. The persona section counts as touched whenever a
// patch is supplied, even an empty one, so the compiled instructions are
// refreshed.
func (c *SessionConfig) ApplyPersona(p *PersonaPatch) ChangeSet {
	if p == nil {
		return ChangeSet{}
	}
	if p.Name != nil {
		c.Persona.Name = *p.Name
	}
	if p.Personality != nil {
		c.Persona.Personality = *p.Personality
	}
	if p.SystemPrompt != nil {
		c.Persona.SystemPrompt = *p.SystemPrompt
	}
	if p.Traits != nil {
		c.Persona.Traits = slices.Clone(*p.Traits)
	}
	if p.Language != nil {
		c.Persona.Language = *p.Language
	}
	if p.ConversationStyle != nil {
		c.Persona.ConversationStyle = *p.ConversationStyle
	}
	if p.ResponseLength != nil {
		c.Persona.ResponseLength = *p.ResponseLength
	}
	if p.EmotionalTone != nil {
		c.Persona.EmotionalTone = *p.EmotionalTone
	}
	return ChangeSet{Persona: true}
}

// ApplyVoice folds a voice patch into the session configuration. Sub-configs
// merge field by field; sub-configs absent from the patch stay untouched.
func (c *SessionConfig) ApplyVoice(p *VoicePatch) ChangeSet {
	if p == nil {
		return ChangeSet{}
	}
	if p.Stt != nil {
		if p.Stt.Provider != nil {
			c.Voice.Stt.Provider = *p.Stt.Provider
		}
		if p.Stt.Model != nil {
			c.Voice.Stt.Model = *p.Stt.Model
		}
		if p.Stt.Language != nil {
			c.Voice.Stt.Language = *p.Stt.Language
		}
	}
	if p.Llm != nil {
		if p.Llm.Provider != nil {
			c.Voice.Llm.Provider = *p.Llm.Provider
		}
		if p.Llm.Model != nil {
			c.Voice.Llm.Model = *p.Llm.Model
		}
		if p.Llm.Temperature != nil {
			c.Voice.Llm.Temperature = *p.Llm.Temperature
		}
	}
	if p.Tts != nil {
		if p.Tts.Provider != nil {
			c.Voice.Tts.Provider = *p.Tts.Provider
		}
		if p.Tts.Voice != nil {
			c.Voice.Tts.Voice = *p.Tts.Voice
		}
		if p.Tts.Model != nil {
			c.Voice.Tts.Model = *p.Tts.Model
		}
		if p.Tts.Speed != nil {
			c.Voice.Tts.Speed = *p.Tts.Speed
		}
	}
	if p.Vad != nil {
		if p.Vad.Provider != nil {
			c.Voice.Vad.Provider = *p.Vad.Provider
		}
		if p.Vad.Threshold != nil {
			c.Voice.Vad.Threshold = *p.Vad.Threshold
		}
		if p.Vad.MinSpeechDuration != nil {
			c.Voice.Vad.MinSpeechDuration = *p.Vad.MinSpeechDuration
		}
		if p.Vad.MinSilenceDuration != nil {
			c.Voice.Vad.MinSilenceDuration = *p.Vad.MinSilenceDuration
		}
	}
	if p.Enhancements != nil {
		if nc := p.Enhancements.NoiseCancellation; nc != nil && nc.Enabled != nil {
			c.Voice.Enhancements.NoiseCancellation = *nc.Enabled
		}
		if td := p.Enhancements.TurnDetection; td != nil && td.Mode != nil {
			c.Voice.Enhancements.TurnDetection = *td.Mode
		}
	}
	if p.PipelineType != nil {
		c.Voice.PipelineType = *p.PipelineType
	}
	return ChangeSet{Voice: true}
}

// ApplyTools replaces the tool list wholesale. The old list is discarded,
// never merged.
func (c *SessionConfig) ApplyTools(defs []ToolDefinition) ChangeSet {
	c.Tools = slices.Clone(defs)
	return ChangeSet{Tools: true}
}

// ApplyFull applies a full configuration payload. Identity fields reset
// unconditionally: absent keys fall back to the zero id and the default
// display name. Persona, voice, and tools sections merge only when present.
func (c *SessionConfig) ApplyFull(p *ConfigPatch) ChangeSet {
	if p == nil {
		return ChangeSet{}
	}
	cs := ChangeSet{Identity: true}
	if p.KwamiID != nil {
		c.KwamiID = *p.KwamiID
	} else {
		c.KwamiID = ""
	}
	if p.KwamiName != nil {
		c.KwamiName = *p.KwamiName
	} else {
		c.KwamiName = DefaultKwamiName
	}
	cs = cs.Union(c.ApplyPersona(p.Persona))
	cs = cs.Union(c.ApplyVoice(p.Voice))
	if p.HasTools() {
		cs = cs.Union(c.ApplyTools(p.Tools))
	}
	return cs
}
