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
	CartesiaBaseURL       = "https://api.cartesia.ai"
	CartesiaBytesEndpoint = "/tts/bytes"
	CartesiaAPIVersion    = "2025-04-16"
)

// CartesiaTTS implements the TTS interface for the Cartesia bytes API.
type CartesiaTTS struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	voice string
	model string
	speed float64
}

// NewCartesiaTTS creates a new Cartesia synthesis engine. The API key is
// read from CARTESIA_API_KEY.
func NewCartesiaTTS(params kwami.TtsParams) *CartesiaTTS {
	voice := params.Voice
	if voice == "" {
		voice = kwami.DefaultVoicePipeline().Tts.Voice
	}
	model := params.Model
	if model == "" {
		model = "sonic"
	}

	return &CartesiaTTS{
		apiKey:  os.Getenv("CARTESIA_API_KEY"),
		baseURL: CartesiaBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		voice: voice,
		model: model,
		speed: params.Speed,
	}
}

// Name returns the provider name
func (t *CartesiaTTS) Name() string {
	return "cartesia"
}

type cartesiaVoice struct {
	Mode string `json:"mode"`
	ID   string `json:"id"`
}

type cartesiaOutputFormat struct {
	Container  string `json:"container"`
	BitRate    int    `json:"bit_rate,omitempty"`
	SampleRate int    `json:"sample_rate"`
}

type cartesiaGenerationConfig struct {
	Speed float64 `json:"speed"`
}

type cartesiaRequest struct {
	ModelID          string                    `json:"model_id"`
	Transcript       string                    `json:"transcript"`
	Voice            cartesiaVoice             `json:"voice"`
	OutputFormat     cartesiaOutputFormat      `json:"output_format"`
	Language         string                    `json:"language,omitempty"`
	GenerationConfig *cartesiaGenerationConfig `json:"generation_config,omitempty"`
}

// Synthesize generates audio from text using the Cartesia bytes API.
func (t *CartesiaTTS) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	if t.apiKey == "" {
		return nil, fmt.Errorf("cartesia: %w", ErrNoAPIKey)
	}

	reqBody := cartesiaRequest{
		ModelID:    t.model,
		Transcript: text,
		Voice: cartesiaVoice{
			Mode: "id",
			ID:   t.voice,
		},
		OutputFormat: cartesiaOutputFormat{
			Container:  "mp3",
			BitRate:    128000,
			SampleRate: 44100,
		},
	}
	if t.speed != 0 && t.speed != 1.0 {
		reqBody.GenerationConfig = &cartesiaGenerationConfig{Speed: t.speed}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.baseURL+CartesiaBytesEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}

	req.Header.Set("X-API-Key", t.apiKey)
	req.Header.Set("Cartesia-Version", CartesiaAPIVersion)
	req.Header.Set("Content-Type", "application/json")

	log.Debug().
		Str("voice", t.voice).
		Str("model", t.model).
		Msg("Making Cartesia synthesis request")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make synthesis request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Cartesia API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	return resp.Body, nil
}
