package kwami

import (
	"fmt"
	"strings"
)

// Guidance sentences keyed by response length.
var lengthGuide = map[string]string{
	LengthShort:  "Keep responses brief and concise (1-2 sentences).",
	LengthMedium: "Provide balanced responses with enough detail (2-4 sentences).",
	LengthLong:   "Give comprehensive, detailed responses when appropriate.",
}

// Guidance sentences keyed by emotional tone.
var toneGuide = map[string]string{
	ToneNeutral:      "Maintain a balanced, objective tone.",
	ToneWarm:         "Express warmth and friendliness in your interactions.",
	ToneEnthusiastic: "Show enthusiasm and energy in your responses.",
	ToneCalm:         "Maintain a calm, soothing demeanor.",
}

// CompileInstructions renders a persona as system instructions. Output is
// deterministic: a fixed line order joined by single newlines. A non-empty
// system prompt override replaces the generated opening sentence; the
// remaining guidance lines are still appended. Unknown length or tone
// values omit their guidance line.
func CompileInstructions(p PersonaConfig) string {
	parts := make([]string, 0, 5)

	if p.SystemPrompt != "" {
		parts = append(parts, p.SystemPrompt)
	} else {
		parts = append(parts, fmt.Sprintf("You are %s, %s.", p.Name, p.Personality))
	}

	if len(p.Traits) > 0 {
		parts = append(parts, fmt.Sprintf("Key traits: %s", strings.Join(p.Traits, ", ")))
	}

	if p.ConversationStyle != "" {
		parts = append(parts, fmt.Sprintf("Conversation style: %s", p.ConversationStyle))
	}

	if guide, ok := lengthGuide[p.ResponseLength]; ok {
		parts = append(parts, guide)
	}

	if guide, ok := toneGuide[p.EmotionalTone]; ok {
		parts = append(parts, guide)
	}

	return strings.Join(parts, "\n")
}
