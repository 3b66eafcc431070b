package provider

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwami-ai/agent-go/internal/kwami"
)

func TestNewDeepgramSTT_Defaults(t *testing.T) {
	s := NewDeepgramSTT(kwami.SttParams{})

	assert.Equal(t, "nova-2", s.model)
	assert.Equal(t, "en", s.language)
	assert.Equal(t, DeepgramBaseURL, s.baseURL)
	assert.NotNil(t, s.httpClient)
}

func TestDeepgramSTT_Name(t *testing.T) {
	assert.Equal(t, "deepgram", NewDeepgramSTT(kwami.SttParams{}).Name())
}

func TestDeepgramSTT_Transcribe(t *testing.T) {
	t.Run("returns error without API key", func(t *testing.T) {
		t.Setenv("DEEPGRAM_API_KEY", "")
		s := NewDeepgramSTT(kwami.SttParams{})

		_, err := s.Transcribe(context.Background(), strings.NewReader("audio"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoAPIKey)
	})

	t.Run("successful transcription", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "Token test-key", r.Header.Get("Authorization"))
			assert.Equal(t, "nova-3", r.URL.Query().Get("model"))
			assert.Equal(t, "fr", r.URL.Query().Get("language"))

			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, "fake audio bytes", string(body))

			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"bonjour le monde","confidence":0.98}]}]}}`))
		}))
		defer server.Close()

		t.Setenv("DEEPGRAM_API_KEY", "test-key")
		s := NewDeepgramSTT(kwami.SttParams{Model: "nova-3", Language: "fr"})
		s.baseURL = server.URL

		text, err := s.Transcribe(context.Background(), strings.NewReader("fake audio bytes"))
		require.NoError(t, err)
		assert.Equal(t, "bonjour le monde", text)
	})

	t.Run("empty result means no speech", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"results":{"channels":[]}}`))
		}))
		defer server.Close()

		t.Setenv("DEEPGRAM_API_KEY", "test-key")
		s := NewDeepgramSTT(kwami.SttParams{})
		s.baseURL = server.URL

		text, err := s.Transcribe(context.Background(), strings.NewReader("audio"))
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("surfaces API errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"err_msg":"invalid credentials"}`))
		}))
		defer server.Close()

		t.Setenv("DEEPGRAM_API_KEY", "bad-key")
		s := NewDeepgramSTT(kwami.SttParams{})
		s.baseURL = server.URL

		_, err := s.Transcribe(context.Background(), strings.NewReader("audio"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 401")
		assert.Contains(t, err.Error(), "invalid credentials")
	})
}
