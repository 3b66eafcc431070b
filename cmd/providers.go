package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/kwami-ai/agent-go/internal/kwami"
	"github.com/kwami-ai/agent-go/internal/provider"
)

// handleProviders prints which engines can fill each pipeline slot and
// which one is the default.
func handleProviders(ctx context.Context, c *cli.Command) error {
	defaults := kwami.DefaultVoicePipeline()

	slots := []struct {
		name  string
		kinds []provider.Kind
		def   string
	}{
		{"stt", []provider.Kind{provider.KindDeepgram}, defaults.Stt.Provider},
		{"llm", []provider.Kind{provider.KindOpenAI}, defaults.Llm.Provider},
		{"tts", []provider.Kind{
			provider.KindCartesia,
			provider.KindOpenAI,
			provider.KindElevenLabs,
			provider.KindPolly,
			provider.KindGCP,
		}, defaults.Tts.Provider},
		{"vad", []provider.Kind{provider.KindSilero}, defaults.Vad.Provider},
	}

	slotColor := color.New(color.FgCyan, color.Bold)

	fmt.Println("Supported providers by pipeline slot:")
	fmt.Println()
	for _, slot := range slots {
		entries := make([]string, 0, len(slot.kinds))
		for _, kind := range slot.kinds {
			entry := kind.String()
			if entry == slot.def {
				entry = fmt.Sprintf("%s %s", entry, color.GreenString("(default)"))
			}
			entries = append(entries, entry)
		}
		fmt.Printf("  %s  %s\n", slotColor.Sprintf("%-4s", slot.name), strings.Join(entries, ", "))
	}
	fmt.Println()
	fmt.Println("Unknown provider names fall back to the slot default.")
	fmt.Println("API keys are read from the environment: DEEPGRAM_API_KEY,")
	fmt.Println("OPENAI_API_KEY, CARTESIA_API_KEY, ELEVENLABS_API_KEY, plus the")
	fmt.Println("standard AWS and Google Cloud credential chains.")
	return nil
}
