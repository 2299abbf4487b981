package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const (
	DefaultTextModel   = "gemini-2.5-flash"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice       = "Kore"
)

// ErrMissingAPIKey is returned on first use when no credential was configured.
// The server is allowed to start without one so the health probe can report it.
var ErrMissingAPIKey = errors.New("gemini: api key is not configured")

// ErrNoAudio means the call itself succeeded but the reply carried no inline
// audio payload. Callers treat this differently from a transport failure.
var ErrNoAudio = errors.New("gemini: response contains no audio data")

type Options struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	apiKey     string
	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = "v1beta"
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		apiVersion: apiVersion,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

type TextRequest struct {
	Model             string
	Contents          []Content
	SystemInstruction string
	Temperature       float64
}

type SpeechRequest struct {
	Model string
	Text  string
	Voice string
}

// GenerateText performs a text-modality generateContent call and returns the
// concatenated text of the first candidate. The caller owns any further
// shaping of the reply.
func (c *Client) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = DefaultTextModel
	}

	payload := generateContentRequest{
		Contents: req.Contents,
		GenerationConfig: generationConfig{
			Temperature: req.Temperature,
		},
	}
	if req.SystemInstruction != "" {
		payload.SystemInstruction = &Content{
			Role:  "user",
			Parts: []Part{{Text: req.SystemInstruction}},
		}
	}

	resp, err := c.generateContent(ctx, model, payload)
	if err != nil {
		return "", err
	}

	return firstCandidateText(resp), nil
}

// GenerateSpeech performs an audio-modality generateContent call with a fixed
// prebuilt voice and returns the base64 audio payload of the first part.
func (c *Client) GenerateSpeech(ctx context.Context, req SpeechRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = DefaultSpeechModel
	}
	voice := strings.TrimSpace(req.Voice)
	if voice == "" {
		voice = DefaultVoice
	}

	payload := generateContentRequest{
		Contents: []Content{
			{Role: "user", Parts: []Part{{Text: req.Text}}},
		},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voice},
				},
			},
		},
	}

	resp, err := c.generateContent(ctx, model, payload)
	if err != nil {
		return "", err
	}

	audio, ok := firstCandidateAudio(resp)
	if !ok {
		return "", ErrNoAudio
	}
	return audio, nil
}

func (c *Client) generateContent(ctx context.Context, model string, payload generateContentRequest) (generateContentResponse, error) {
	if c.apiKey == "" {
		return generateContentResponse{}, ErrMissingAPIKey
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return generateContentResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, c.apiVersion, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return generateContentResponse{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return generateContentResponse{}, fmt.Errorf("request: %w", err)
	}
	defer httpResp.Body.Close()

	rawBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return generateContentResponse{}, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		return generateContentResponse{}, fmt.Errorf("gemini API %s: %s", httpResp.Status, strings.TrimSpace(string(rawBody)))
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return generateContentResponse{}, fmt.Errorf("decode response: %w", err)
	}

	c.logger.Debug("gemini call complete", "model", model, "candidates", len(decoded.Candidates))

	return decoded, nil
}

func firstCandidateText(resp generateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

func firstCandidateAudio(resp generateContentResponse) (string, bool) {
	if len(resp.Candidates) == 0 {
		return "", false
	}

	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].InlineData == nil || parts[0].InlineData.Data == "" {
		return "", false
	}
	return parts[0].InlineData.Data, true
}
