package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kwami-ai/agent-go/internal/kwami"
)

const (
	DeepgramBaseURL        = "https://api.deepgram.com"
	DeepgramListenEndpoint = "/v1/listen"
)

// DeepgramSTT implements the STT interface for the Deepgram prerecorded
// transcription API.
type DeepgramSTT struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	model      string
	language   string
}

// NewDeepgramSTT creates a new Deepgram transcription engine. The API key
// is read from DEEPGRAM_API_KEY; without it the engine still constructs
// and Transcribe fails with ErrNoAPIKey.
func NewDeepgramSTT(params kwami.SttParams) *DeepgramSTT {
	model := params.Model
	if model == "" {
		model = "nova-2"
	}
	language := params.Language
	if language == "" {
		language = "en"
	}

	return &DeepgramSTT{
		apiKey:  os.Getenv("DEEPGRAM_API_KEY"),
		baseURL: DeepgramBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		model:    model,
		language: language,
	}
}

// Name returns the provider name
func (s *DeepgramSTT) Name() string {
	return "deepgram"
}

// deepgramResponse mirrors the fields we read from the listen API.
type deepgramResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe sends the audio stream to Deepgram and returns the best
// transcript. An empty result means no speech was recognized.
func (s *DeepgramSTT) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("deepgram: %w", ErrNoAPIKey)
	}

	query := url.Values{}
	query.Set("model", s.model)
	query.Set("language", s.language)
	query.Set("smart_format", "true")
	endpoint := s.baseURL + DeepgramListenEndpoint + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, audio)
	if err != nil {
		return "", fmt.Errorf("failed to create transcription request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+s.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	log.Debug().
		Str("model", s.model).
		Str("language", s.language).
		Msg("Making Deepgram transcription request")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Deepgram API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var dgResp deepgramResponse
	if err := json.NewDecoder(resp.Body).Decode(&dgResp); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}

	if len(dgResp.Results.Channels) == 0 || len(dgResp.Results.Channels[0].Alternatives) == 0 {
		return "", nil
	}

	return dgResp.Results.Channels[0].Alternatives[0].Transcript, nil
}
