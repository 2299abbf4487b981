package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(Options{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
}

func TestGenerateTextConcatenatesFirstCandidateParts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Contains(t, r.URL.Path, "models/gemini-2.5-flash:generateContent")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "Hello "},
					{"text": "there"},
				}}},
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "ignored second candidate"},
				}}},
			},
		})
	})

	text, err := client.GenerateText(context.Background(), TextRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: "hi"}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello there", text)
}

func TestGenerateTextSendsSystemInstruction(t *testing.T) {
	var got generateContentRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	})

	_, err := client.GenerateText(context.Background(), TextRequest{
		Contents:          []Content{{Role: "user", Parts: []Part{{Text: "hi"}}}},
		SystemInstruction: "be brief",
		Temperature:       0.7,
	})
	require.NoError(t, err)

	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "be brief", got.SystemInstruction.Parts[0].Text)
	assert.Equal(t, 0.7, got.GenerationConfig.Temperature)
}

func TestGenerateTextUpstreamErrorIncludesBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	})

	_, err := client.GenerateText(context.Background(), TextRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: "hi"}}}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerateTextMissingAPIKey(t *testing.T) {
	client := New(Options{APIKey: ""})

	_, err := client.GenerateText(context.Background(), TextRequest{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGenerateSpeechExtractsAudioPayload(t *testing.T) {
	var got generateContentRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Contains(t, r.URL.Path, "models/gemini-2.5-flash-preview-tts:generateContent")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"inlineData": map[string]any{"mimeType": "audio/L16", "data": "QUJD"}},
				}}},
			},
		})
	})

	audio, err := client.GenerateSpeech(context.Background(), SpeechRequest{Text: "good morning"})
	require.NoError(t, err)
	assert.Equal(t, "QUJD", audio)

	assert.Equal(t, []string{"AUDIO"}, got.GenerationConfig.ResponseModalities)
	require.NotNil(t, got.GenerationConfig.SpeechConfig)
	assert.Equal(t, "Kore", got.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
}

func TestGenerateSpeechMissingAudioIsErrNoAudio(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "sorry, no audio today"},
				}}},
			},
		})
	})

	_, err := client.GenerateSpeech(context.Background(), SpeechRequest{Text: "hello"})
	assert.ErrorIs(t, err, ErrNoAudio)
}

func TestGenerateSpeechTransportErrorIsNotErrNoAudio(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.GenerateSpeech(context.Background(), SpeechRequest{Text: "hello"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoAudio)
}
