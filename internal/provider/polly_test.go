package provider

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kwami-ai/agent-go/internal/kwami"
)

// MockPollyClient is a mock for the Polly client
type MockPollyClient struct {
	mock.Mock
}

func (m *MockPollyClient) SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*polly.SynthesizeSpeechOutput), args.Error(1)
}

func TestPollyTTS_Name(t *testing.T) {
	assert.Equal(t, "polly", NewPollyTTS(kwami.TtsParams{}).Name())
}

func TestNewPollyTTS_Defaults(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	p := NewPollyTTS(kwami.TtsParams{})

	assert.Equal(t, "Joanna", p.voice)
	assert.Equal(t, "us-east-1", p.region)
}

func TestPollyTTS_Synthesize(t *testing.T) {
	t.Run("returns error for empty text", func(t *testing.T) {
		p := NewPollyTTS(kwami.TtsParams{})

		_, err := p.Synthesize(context.Background(), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "text cannot be empty")
	})

	t.Run("plain text request", func(t *testing.T) {
		mockClient := new(MockPollyClient)
		mockClient.On("SynthesizeSpeech", mock.Anything, mock.MatchedBy(func(in *polly.SynthesizeSpeechInput) bool {
			return in.VoiceId == types.VoiceId("Matthew") &&
				in.TextType == types.TextTypeText &&
				aws.ToString(in.Text) == "Hello world"
		})).Return(&polly.SynthesizeSpeechOutput{
			AudioStream: io.NopCloser(strings.NewReader("polly audio")),
		}, nil)

		// Lowercase voice names are normalized to Polly's title case
		p := NewPollyTTS(kwami.TtsParams{Voice: "matthew"})
		p.client = mockClient

		reader, err := p.Synthesize(context.Background(), "Hello world")
		require.NoError(t, err)
		defer reader.Close()

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, "polly audio", string(data))
		mockClient.AssertExpectations(t)
	})

	t.Run("non-default speed switches to SSML", func(t *testing.T) {
		mockClient := new(MockPollyClient)
		mockClient.On("SynthesizeSpeech", mock.Anything, mock.MatchedBy(func(in *polly.SynthesizeSpeechInput) bool {
			return in.TextType == types.TextTypeSsml &&
				strings.Contains(aws.ToString(in.Text), `rate="150%"`)
		})).Return(&polly.SynthesizeSpeechOutput{
			AudioStream: io.NopCloser(strings.NewReader("fast audio")),
		}, nil)

		p := NewPollyTTS(kwami.TtsParams{Voice: "Joanna", Speed: 1.5})
		p.client = mockClient

		reader, err := p.Synthesize(context.Background(), "Hello")
		require.NoError(t, err)
		reader.Close()
		mockClient.AssertExpectations(t)
	})
}

func TestPollyText(t *testing.T) {
	tests := []struct {
		name     string
		speed    float64
		expected string
	}{
		{"zero_speed_passthrough", 0, "hi"},
		{"unit_speed_passthrough", 1.0, "hi"},
		{"fast", 1.5, `<speak><prosody rate="150%">hi</prosody></speak>`},
		{"slow", 0.5, `<speak><prosody rate="50%">hi</prosody></speak>`},
		{"clamped_low", 0.1, `<speak><prosody rate="20%">hi</prosody></speak>`},
		{"clamped_high", 3.0, `<speak><prosody rate="200%">hi</prosody></speak>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pollyText("hi", tt.speed))
		})
	}
}
