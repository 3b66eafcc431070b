package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kwami-ai/agent-go/internal/kwami"
)

const (
	ElevenLabsBaseURL     = "https://api.elevenlabs.io"
	ElevenLabsTTSEndpoint = "/v1/text-to-speech"
)

// ElevenLabsTTS implements the TTS interface for the ElevenLabs API v1.
type ElevenLabsTTS struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	voice string
	model string
}

// NewElevenLabsTTS creates a new ElevenLabs synthesis engine. The API key
// is read from ELEVENLABS_API_KEY.
func NewElevenLabsTTS(params kwami.TtsParams) *ElevenLabsTTS {
	voice := params.Voice
	if voice == "" {
		voice = "21m00Tcm4TlvDq8ikWAM" // Rachel
	}
	model := params.Model
	if model == "" {
		model = "eleven_turbo_v2_5"
	}

	return &ElevenLabsTTS{
		apiKey:  os.Getenv("ELEVENLABS_API_KEY"),
		baseURL: ElevenLabsBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // ElevenLabs can be slower than OpenAI
		},
		voice: voice,
		model: model,
	}
}

// Name returns the provider name
func (t *ElevenLabsTTS) Name() string {
	return "elevenlabs"
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type elevenLabsRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

// Synthesize generates audio from text using the ElevenLabs API.
func (t *ElevenLabsTTS) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	if t.apiKey == "" {
		return nil, fmt.Errorf("elevenlabs: %w", ErrNoAPIKey)
	}

	body, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: t.model,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	endpoint := fmt.Sprintf("%s%s/%s", t.baseURL, ElevenLabsTTSEndpoint, t.voice)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}

	req.Header.Set("xi-api-key", t.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	log.Debug().
		Str("voice", t.voice).
		Str("model", t.model).
		Msg("Making ElevenLabs synthesis request")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make synthesis request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ElevenLabs API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	return resp.Body, nil
}
