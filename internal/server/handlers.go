package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"silvercare-assistant/internal/analyze"
	"silvercare-assistant/internal/gemini"
)

const (
	analysisTemperature = 0.3
	chatTemperature     = 0.7
)

type imagePayload struct {
	MimeType string `json:"mimeType"`
	Base64   string `json:"base64"`
}

type documentPayload struct {
	Base64 string `json:"base64"`
}

type analyzeRequest struct {
	Mode    string           `json:"mode"`
	Images  []imagePayload   `json:"images"`
	PDFData *documentPayload `json:"pdfData"`
}

type ttsRequest struct {
	Text string `json:"text"`
}

type chatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type chatRequest struct {
	Message        string     `json:"message"`
	ContextType    string     `json:"contextType"`
	ContextItem    string     `json:"contextItem"`
	ContextContent string     `json:"contextContent"`
	History        []chatTurn `json:"history"`
}

func (s *Server) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req analyzeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if req.Mode == "" {
		writeError(w, http.StatusBadRequest, "mode is required")
		return
	}
	hasDocument := req.PDFData != nil && req.PDFData.Base64 != ""
	if len(req.Images) == 0 && !hasDocument {
		writeError(w, http.StatusBadRequest, "at least one image or a pdf document is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	if err := s.acquire(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server is busy, please try again")
		return
	}
	defer s.release()

	mode := analyze.Mode(req.Mode)
	instruction := analyze.BuildPrompt(mode)

	images := make([]analyze.Image, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, analyze.Image{MimeType: img.MimeType, Data: img.Base64})
	}
	var document *analyze.Document
	if hasDocument {
		document = &analyze.Document{Data: req.PDFData.Base64}
	}

	parts := analyze.BuildContentParts(images, document, instruction)

	text, err := s.gw.GenerateText(ctx, gemini.TextRequest{
		Model:       s.textModel,
		Contents:    []gemini.Content{{Role: "user", Parts: parts}},
		Temperature: analysisTemperature,
	})
	if err != nil {
		s.logger.Error("analysis call failed", "mode", req.Mode, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "analysis failed",
			Details: err.Error(),
		})
		return
	}

	raw, err := analyze.ExtractJSON(text)
	if err != nil {
		s.logger.Error("analysis reply unusable", "mode", req.Mode, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "analysis failed",
			Details: err.Error(),
		})
		return
	}

	result := analyze.DecodeResult(mode, raw)
	if !result.Typed() {
		s.logger.Warn("analysis reply does not match documented schema", "mode", req.Mode)
	}

	writeJSON(w, http.StatusOK, analyzeResponse{Success: true, Data: result.Raw})
}

func (s *Server) HandleTTS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ttsRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	if err := s.acquire(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server is busy, please try again")
		return
	}
	defer s.release()

	audio, err := s.gw.GenerateSpeech(ctx, gemini.SpeechRequest{
		Model: s.speechModel,
		Text:  req.Text,
		Voice: s.speechVoice,
	})
	if err != nil {
		s.logger.Error("tts call failed", "err", err)
		if errors.Is(err, gemini.ErrNoAudio) {
			writeError(w, http.StatusInternalServerError, "speech generation failed")
		} else {
			writeError(w, http.StatusInternalServerError, "text-to-speech request failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, ttsResponse{Success: true, Audio: audio})
}

func (s *Server) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req chatRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	history := req.History
	if len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}
	turns := make([]analyze.ChatMessage, 0, len(history))
	for _, turn := range history {
		turns = append(turns, analyze.ChatMessage{Role: turn.Role, Text: turn.Text})
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	if err := s.acquire(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server is busy, please try again")
		return
	}
	defer s.release()

	reply, err := s.gw.GenerateText(ctx, gemini.TextRequest{
		Model:             s.textModel,
		Contents:          analyze.BuildChatContents(turns, req.Message),
		SystemInstruction: analyze.BuildChatPrompt(req.ContextType, req.ContextItem, req.ContextContent),
		Temperature:       chatTemperature,
	})
	if err != nil {
		s.logger.Error("chat call failed", "err", err)
		writeError(w, http.StatusInternalServerError, "chat request failed")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Success: true, Reply: reply})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", HasAPIKey: s.gw.HasAPIKey()})
}

// decodeBody caps and decodes the request body, writing a 400 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
