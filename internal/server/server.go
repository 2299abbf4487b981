package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"

	"silvercare-assistant/internal/gemini"
)

// Gateway is the outbound model surface the handlers depend on. The concrete
// implementation is *gemini.Client; tests substitute a fake.
type Gateway interface {
	GenerateText(ctx context.Context, req gemini.TextRequest) (string, error)
	GenerateSpeech(ctx context.Context, req gemini.SpeechRequest) (string, error)
	HasAPIKey() bool
}

type Options struct {
	Gateway Gateway
	Logger  *slog.Logger

	TextModel   string
	SpeechModel string
	SpeechVoice string

	RequestTimeout     time.Duration
	MaxBodyBytes       int64
	MaxConcurrent      int64
	MaxHistoryMessages int
}

type Server struct {
	gw     Gateway
	logger *slog.Logger

	textModel   string
	speechModel string
	speechVoice string

	requestTimeout time.Duration
	maxBodyBytes   int64
	maxHistory     int

	// sem caps in-flight upstream model calls; nil means uncapped.
	sem *semaphore.Weighted
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	requestTimeout := opts.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 180 * time.Second
	}
	maxBodyBytes := opts.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = 25 << 20
	}
	maxHistory := opts.MaxHistoryMessages
	if maxHistory < 1 {
		maxHistory = 20
	}

	var sem *semaphore.Weighted
	if opts.MaxConcurrent > 0 {
		sem = semaphore.NewWeighted(opts.MaxConcurrent)
	}

	return &Server{
		gw:             opts.Gateway,
		logger:         logger,
		textModel:      opts.TextModel,
		speechModel:    opts.SpeechModel,
		speechVoice:    opts.SpeechVoice,
		requestTimeout: requestTimeout,
		maxBodyBytes:   maxBodyBytes,
		maxHistory:     maxHistory,
		sem:            sem,
	}
}

// Routes registers the API endpoints on mux. The static front-end fallback is
// registered by the caller, which owns the embedded filesystem.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/analyze", s.HandleAnalyze)
	mux.HandleFunc("/api/tts", s.HandleTTS)
	mux.HandleFunc("/api/chat", s.HandleChat)
	mux.HandleFunc("/api/health", s.HandleHealth)
}

// acquire reserves an upstream slot, giving up when the request context dies
// while waiting.
func (s *Server) acquire(ctx context.Context) error {
	if s.sem == nil {
		return nil
	}
	return s.sem.Acquire(ctx, 1)
}

func (s *Server) release() {
	if s.sem != nil {
		s.sem.Release(1)
	}
}
