package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/rs/zerolog/log"

	"github.com/kwami-ai/agent-go/internal/kwami"
)

// GCPClient interface defines the methods we need from the Cloud TTS
// client.
type GCPClient interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
}

// GCPTTS implements the TTS interface for Google Cloud Text-to-Speech.
// Authentication uses Application Default Credentials; the client is
// dialed lazily on first use so construction never fails.
type GCPTTS struct {
	voice    string
	language string
	speed    float64

	dialOnce sync.Once
	client   GCPClient
	dialErr  error
}

// NewGCPTTS creates a new Google Cloud synthesis engine.
func NewGCPTTS(params kwami.TtsParams) *GCPTTS {
	voice := params.Voice
	if voice == "" {
		voice = "en-US-Neural2-F"
	}

	return &GCPTTS{
		voice:    voice,
		language: languageFromVoice(voice),
		speed:    params.Speed,
	}
}

// Name returns the provider name
func (t *GCPTTS) Name() string {
	return "gcp"
}

func (t *GCPTTS) ensureClient(ctx context.Context) error {
	t.dialOnce.Do(func() {
		if t.client != nil {
			return
		}
		client, err := texttospeech.NewClient(ctx)
		if err != nil {
			t.dialErr = fmt.Errorf("failed to create GCP TTS client: %w", err)
			return
		}
		t.client = client
	})
	return t.dialErr
}

// Synthesize generates audio from text using Google Cloud TTS.
func (t *GCPTTS) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	if err := t.ensureClient(ctx); err != nil {
		return nil, err
	}

	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: t.language,
			Name:         t.voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  speakingRate(t.speed),
		},
	}

	log.Debug().
		Str("voice", t.voice).
		Str("language", t.language).
		Msg("Making GCP synthesis request")

	resp, err := t.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	return io.NopCloser(bytes.NewReader(resp.AudioContent)), nil
}

// speakingRate clamps a speed multiplier to the range the API accepts,
// treating zero as the neutral 1.0.
func speakingRate(speed float64) float64 {
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

// languageFromVoice derives the language code from a Cloud TTS voice name
// such as "en-US-Neural2-F".
func languageFromVoice(voice string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) >= 3 {
		return parts[0] + "-" + parts[1]
	}
	return "en-US"
}
