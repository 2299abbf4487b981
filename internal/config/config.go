package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	Addr string `env:"WEB_ADDR" envDefault:":8080"`
	Port string `env:"PORT"`

	// GeminiAPIKey is intentionally not required here: the health endpoint
	// must come up without it, and the gateway fails lazily on first use.
	GeminiAPIKey     string `env:"GEMINI_API_KEY"`
	GeminiBaseURL    string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	GeminiAPIVersion string `env:"GEMINI_API_VERSION" envDefault:"v1beta"`

	TextModel   string `env:"GEMINI_TEXT_MODEL" envDefault:"gemini-2.5-flash"`
	SpeechModel string `env:"GEMINI_TTS_MODEL" envDefault:"gemini-2.5-flash-preview-tts"`
	SpeechVoice string `env:"GEMINI_TTS_VOICE" envDefault:"Kore"`

	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	PreferIPv4 bool   `env:"PREFER_IPV4" envDefault:"true"`

	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT" envDefault:"180s"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"180s"`

	MaxBodyBytes       int64 `env:"MAX_BODY_BYTES" envDefault:"26214400"`
	MaxConcurrent      int64 `env:"MAX_CONCURRENT" envDefault:"32"`
	MaxHistoryMessages int   `env:"MAX_HISTORY_MESSAGES" envDefault:"20"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing env config: %w", err)
	}

	cfg.GeminiAPIKey = strings.TrimSpace(cfg.GeminiAPIKey)
	cfg.GeminiBaseURL = strings.TrimSpace(cfg.GeminiBaseURL)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if port := strings.TrimSpace(cfg.Port); port != "" {
		cfg.Addr = ":" + port
	}

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 180 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 25 << 20
	}
	if cfg.MaxHistoryMessages < 1 {
		cfg.MaxHistoryMessages = 1
	}

	return cfg, nil
}
