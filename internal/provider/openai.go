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
	OpenAIBaseURL      = "https://api.openai.com"
	OpenAIChatEndpoint = "/v1/chat/completions"
	OpenAITTSEndpoint  = "/v1/audio/speech"
)

// OpenAILLM implements the LLM interface for the OpenAI chat completions
// API.
type OpenAILLM struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	model       string
	temperature float64
}

// NewOpenAILLM creates a new OpenAI chat engine. The API key is read from
// OPENAI_API_KEY.
func NewOpenAILLM(params kwami.LlmParams) *OpenAILLM {
	model := params.Model
	if model == "" {
		model = "gpt-4o"
	}

	return &OpenAILLM{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		baseURL: OpenAIBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		model:       model,
		temperature: params.Temperature,
	}
}

// Name returns the provider name
func (l *OpenAILLM) Name() string {
	return "openai"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete generates a reply for one conversation turn.
func (l *OpenAILLM) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if l.apiKey == "" {
		return "", fmt.Errorf("openai: %w", ErrNoAPIKey)
	}

	model := req.Model
	if model == "" {
		model = l.model
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = l.temperature
	}

	messages := make([]chatMessage, 0, 2)
	if req.Instructions != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.Instructions})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Input})

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", l.baseURL+OpenAIChatEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+l.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	log.Debug().
		Str("model", model).
		Float64("temperature", temperature).
		Msg("Making OpenAI chat request")

	resp, err := l.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to make chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("OpenAI chat API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI chat API returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// OpenAITTS implements the TTS interface for the OpenAI Audio API.
type OpenAITTS struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	voice string
	model string
	speed float64
}

// NewOpenAITTS creates a new OpenAI synthesis engine. The API key is read
// from OPENAI_API_KEY.
func NewOpenAITTS(params kwami.TtsParams) *OpenAITTS {
	voice := params.Voice
	if voice == "" {
		voice = "alloy"
	}
	model := params.Model
	if model == "" {
		model = "tts-1"
	}
	speed := clampSpeed(params.Speed)

	return &OpenAITTS{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		baseURL: OpenAIBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		voice: voice,
		model: model,
		speed: speed,
	}
}

// Name returns the provider name
func (t *OpenAITTS) Name() string {
	return "openai"
}

// Synthesize generates audio from text using the OpenAI Audio API.
func (t *OpenAITTS) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	if t.apiKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrNoAPIKey)
	}

	body, err := json.Marshal(map[string]interface{}{
		"model":           t.model,
		"input":           text,
		"voice":           t.voice,
		"response_format": "mp3",
		"speed":           t.speed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.baseURL+OpenAITTSEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	log.Debug().
		Str("voice", t.voice).
		Str("model", t.model).
		Float64("speed", t.speed).
		Msg("Making OpenAI synthesis request")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make synthesis request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("OpenAI TTS API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	return resp.Body, nil
}

// clampSpeed bounds a speed multiplier to the range common to the HTTP
// synthesis APIs, treating zero as the neutral 1.0.
func clampSpeed(speed float64) float64 {
	if speed <= 0 {
		return 1.0
	}
	if speed < 0.25 {
		return 0.25
	}
	if speed > 4.0 {
		return 4.0
	}
	return speed
}
