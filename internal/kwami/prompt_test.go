package kwami

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileInstructions_Defaults(t *testing.T) {
	got := CompileInstructions(DefaultPersona())

	expected := strings.Join([]string{
		"You are Kwami, A friendly and helpful AI companion.",
		"Conversation style: friendly",
		"Provide balanced responses with enough detail (2-4 sentences).",
		"Express warmth and friendliness in your interactions.",
	}, "\n")

	assert.Equal(t, expected, got)
}

func TestCompileInstructions_SystemPromptOverride(t *testing.T) {
	p := DefaultPersona()
	p.SystemPrompt = "You are a pirate. Speak accordingly."
	p.Traits = []string{"curious"}

	got := CompileInstructions(p)

	lines := strings.Split(got, "\n")
	assert.Equal(t, "You are a pirate. Speak accordingly.", lines[0])
	// Guidance lines still follow the override
	assert.Contains(t, got, "Key traits: curious")
	assert.Contains(t, got, "Conversation style: friendly")
	assert.NotContains(t, got, "You are Kwami")
}

func TestCompileInstructions_TraitsOrder(t *testing.T) {
	p := DefaultPersona()
	p.Traits = []string{"curious", "precise", "playful"}

	got := CompileInstructions(p)
	assert.Contains(t, got, "Key traits: curious, precise, playful")
}

func TestCompileInstructions_GuidanceLines(t *testing.T) {
	tests := []struct {
		name     string
		length   string
		tone     string
		expected []string
		absent   []string
	}{
		{
			name:     "short_neutral",
			length:   "short",
			tone:     "neutral",
			expected: []string{"Keep responses brief and concise (1-2 sentences).", "Maintain a balanced, objective tone."},
		},
		{
			name:     "long_enthusiastic",
			length:   "long",
			tone:     "enthusiastic",
			expected: []string{"Give comprehensive, detailed responses when appropriate.", "Show enthusiasm and energy in your responses."},
		},
		{
			name:     "calm_tone",
			length:   "medium",
			tone:     "calm",
			expected: []string{"Provide balanced responses with enough detail (2-4 sentences).", "Maintain a calm, soothing demeanor."},
		},
		{
			name:   "unknown_length_omitted",
			length: "verbose",
			tone:   "warm",
			absent: []string{"sentences"},
			expected: []string{
				"Express warmth and friendliness in your interactions.",
			},
		},
		{
			name:   "unknown_tone_omitted",
			length: "short",
			tone:   "angry",
			expected: []string{
				"Keep responses brief and concise (1-2 sentences).",
			},
			absent: []string{"tone.", "demeanor"},
		},
		{
			name:   "both_unknown",
			length: "",
			tone:   "",
			absent: []string{"sentences", "tone.", "demeanor"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPersona()
			p.ResponseLength = tt.length
			p.EmotionalTone = tt.tone

			got := CompileInstructions(p)
			for _, want := range tt.expected {
				assert.Contains(t, got, want)
			}
			for _, notWant := range tt.absent {
				assert.NotContains(t, got, notWant)
			}
			// Opening line survives regardless of guidance outcomes
			assert.True(t, strings.HasPrefix(got, "You are Kwami, "))
		})
	}
}

func TestCompileInstructions_Deterministic(t *testing.T) {
	p := PersonaConfig{
		Name:              "Ada",
		Personality:       "a meticulous research companion",
		Traits:            []string{"curious", "precise"},
		Language:          "en",
		ConversationStyle: "professional",
		ResponseLength:    LengthShort,
		EmotionalTone:     ToneCalm,
	}

	first := CompileInstructions(p)
	second := CompileInstructions(p)
	assert.Equal(t, first, second)
}

func TestCompileInstructions_LineOrder(t *testing.T) {
	p := PersonaConfig{
		Name:              "Ada",
		Personality:       "a meticulous research companion",
		Traits:            []string{"curious"},
		ConversationStyle: "professional",
		ResponseLength:    LengthShort,
		EmotionalTone:     ToneNeutral,
	}

	got := CompileInstructions(p)
	lines := strings.Split(got, "\n")

	assert.Len(t, lines, 5)
	assert.Equal(t, "You are Ada, a meticulous research companion.", lines[0])
	assert.Equal(t, "Key traits: curious", lines[1])
	assert.Equal(t, "Conversation style: professional", lines[2])
	assert.Equal(t, "Keep responses brief and concise (1-2 sentences).", lines[3])
	assert.Equal(t, "Maintain a balanced, objective tone.", lines[4])
}

func TestCompileInstructions_EmptyPersona(t *testing.T) {
	// A zero persona still yields a well-formed opening sentence.
	got := CompileInstructions(PersonaConfig{})
	assert.Equal(t, "You are , .", got)
}
