package server

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type healthResponse struct {
	Status    string `json:"status"`
	HasAPIKey bool   `json:"hasApiKey"`
}

type analyzeResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type ttsResponse struct {
	Success bool   `json:"success"`
	Audio   string `json:"audio"`
}

type chatResponse struct {
	Success bool   `json:"success"`
	Reply   string `json:"reply"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
