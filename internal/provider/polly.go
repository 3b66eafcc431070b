package provider

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kwami-ai/agent-go/internal/kwami"
)

// PollyClient interface defines the methods we need from the Polly client
type PollyClient interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// PollyTTS implements the TTS interface for Amazon Polly. The AWS client
// is dialed lazily on first use so construction never fails.
type PollyTTS struct {
	region string
	voice  string
	speed  float64

	dialOnce sync.Once
	client   PollyClient
	dialErr  error
}

// NewPollyTTS creates a new Amazon Polly synthesis engine. Credentials
// come from the default AWS chain; the region from AWS_REGION unless the
// environment overrides it.
func NewPollyTTS(params kwami.TtsParams) *PollyTTS {
	voice := params.Voice
	if voice == "" {
		voice = "Joanna"
	}
	// Polly voice IDs are title cased; accept any casing from the frontend
	voice = cases.Title(language.English).String(voice)
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	return &PollyTTS{
		region: region,
		voice:  voice,
		speed:  params.Speed,
	}
}

// Name returns the provider name
func (t *PollyTTS) Name() string {
	return "polly"
}

func (t *PollyTTS) ensureClient(ctx context.Context) error {
	t.dialOnce.Do(func() {
		if t.client != nil {
			return
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(t.region))
		if err != nil {
			t.dialErr = fmt.Errorf("failed to load AWS config: %w", err)
			return
		}
		t.client = polly.NewFromConfig(cfg)
	})
	return t.dialErr
}

// Synthesize generates audio from text using Amazon Polly.
func (t *PollyTTS) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	if err := t.ensureClient(ctx); err != nil {
		return nil, err
	}

	wrapped := pollyText(text, t.speed)
	input := &polly.SynthesizeSpeechInput{
		Text:         aws.String(wrapped),
		VoiceId:      types.VoiceId(t.voice),
		OutputFormat: types.OutputFormatMp3,
		Engine:       types.EngineNeural,
	}
	if strings.HasPrefix(wrapped, "<speak>") {
		input.TextType = types.TextTypeSsml
	} else {
		input.TextType = types.TextTypeText
	}

	log.Debug().
		Str("voice_id", t.voice).
		Str("text_type", string(input.TextType)).
		Msg("Making Polly synthesis request")

	result, err := t.client.SynthesizeSpeech(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	return result.AudioStream, nil
}

// pollyText wraps the text in a prosody SSML tag when a non-default speed
// is requested. Polly has no plain speed parameter.
func pollyText(text string, speed float64) string {
	if speed == 0 || speed == 1.0 {
		return text
	}
	rate := int(speed * 100)
	if rate < 20 {
		rate = 20
	}
	if rate > 200 {
		rate = 200
	}
	return fmt.Sprintf(`<speak><prosody rate="%d%%">%s</prosody></speak>`, rate, text)
}
