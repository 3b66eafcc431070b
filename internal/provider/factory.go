package provider

import (
	"github.com/rs/zerolog/log"

	"github.com/kwami-ai/agent-go/internal/kwami"
)

// Pipeline bundles one ready engine per slot plus the audio enhancement
// flags the transport applies around them.
type Pipeline struct {
	STT STT
	LLM LLM
	TTS TTS
	VAD VAD

	Enhancements kwami.EnhancementFlags
	PipelineType string
}

// Build resolves every slot of the given pipeline configuration. It never
// fails; misconfigured slots come back as the slot default. Construction
// is non-blocking; engines that need a remote client dial lazily.
func Build(cfg kwami.VoicePipelineConfig) *Pipeline {
	p := &Pipeline{
		STT:          NewSTT(cfg.Stt),
		LLM:          NewLLM(cfg.Llm),
		TTS:          NewTTS(cfg.Tts),
		VAD:          NewVAD(cfg.Vad),
		Enhancements: cfg.Enhancements,
		PipelineType: cfg.PipelineType,
	}

	log.Debug().
		Str("stt", p.STT.Name()).
		Str("llm", p.LLM.Name()).
		Str("tts", p.TTS.Name()).
		Str("vad", p.VAD.Name()).
		Msg("Resolved voice pipeline")

	return p
}

// NewSTT creates the transcription engine for the given parameters.
// Deepgram is the only engine wired for the slot.
func NewSTT(params kwami.SttParams) STT {
	kindOrDefault(params.Provider, KindDeepgram)
	return NewDeepgramSTT(params)
}

// NewLLM creates the language model engine for the given parameters.
// OpenAI is the only engine wired for the slot.
func NewLLM(params kwami.LlmParams) LLM {
	kindOrDefault(params.Provider, KindOpenAI)
	return NewOpenAILLM(params)
}

// NewTTS creates the synthesis engine for the given parameters.
func NewTTS(params kwami.TtsParams) TTS {
	switch kindOrDefault(params.Provider, KindCartesia) {
	case KindCartesia:
		return NewCartesiaTTS(params)
	case KindOpenAI:
		return NewOpenAITTS(params)
	case KindElevenLabs:
		return NewElevenLabsTTS(params)
	case KindPolly:
		return NewPollyTTS(params)
	case KindGCP:
		return NewGCPTTS(params)
	default:
		return NewCartesiaTTS(params)
	}
}

// NewVAD creates the speech activity detector for the given parameters.
// The silero slot is served by the local energy detector.
func NewVAD(params kwami.VadParams) VAD {
	kindOrDefault(params.Provider, KindSilero)
	return NewEnergyVAD(params)
}

// kindOrDefault parses a provider name, falling back to the slot default
// for anything outside the known set.
func kindOrDefault(name string, def Kind) Kind {
	k, ok := ParseKind(name)
	if !ok {
		log.Warn().Str("provider", name).Str("fallback", def.String()).Msg("Unknown provider, using slot default")
		return def
	}
	return k
}
