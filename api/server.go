// Package api exposes research, auth, project and agent endpoints over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
	authx "github.com/tanpawarit/pharmapilot/pkg/auth"
	mailerx "github.com/tanpawarit/pharmapilot/pkg/mailer"
	storex "github.com/tanpawarit/pharmapilot/store"
)

const ServiceName = "Pharma Innovation AI Agent"

type Config struct {
	Addr           string        `envconfig:"ADDR" default:":10000"`
	ReadTimeout    time.Duration `split_words:"true" default:"30s"`
	WriteTimeout   time.Duration `split_words:"true" default:"5m"`
	AllowedOrigins []string      `split_words:"true" default:"*"`
	RateLimit      float64       `split_words:"true" default:"1"`
	RateBurst      int           `split_words:"true" default:"5"`
}

type Researcher interface {
	Research(ctx context.Context, req contractx.ResearchRequest) (contractx.ResearchResult, error)
}

// Deps are the collaborators behind the handlers. Researcher and Agents are required.
type Deps struct {
	Researcher  Researcher
	Agents      contractx.Registry
	Users       storex.Users
	Projects    storex.Projects
	ResetTokens storex.ResetTokens
	Tokens      *authx.Manager
	Mailer      mailerx.Sender
}

type Server struct {
	cfg     Config
	deps    Deps
	limiter *ipLimiter
	now     func() time.Time
}

func NewServer(cfg Config, deps Deps) (*Server, error) {
	if deps.Researcher == nil {
		return nil, errors.New("researcher is required")
	}
	if deps.Agents == nil {
		return nil, errors.New("agent registry is required")
	}
	if deps.Users == nil || deps.Projects == nil || deps.ResetTokens == nil {
		return nil, errors.New("stores are required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("token manager is required")
	}
	if deps.Mailer == nil {
		deps.Mailer = mailerx.LogSender{}
	}
	if cfg.Addr == "" {
		cfg.Addr = ":10000"
	}
	return &Server{
		cfg:     cfg,
		deps:    deps,
		limiter: newIPLimiter(cfg.RateLimit, cfg.RateBurst),
		now:     time.Now,
	}, nil
}

// Handler builds the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	chat := s.limiter.middleware(http.HandlerFunc(s.handleChat))
	mux.Handle("POST /api/v1/chat", chat)
	mux.Handle("POST /api/v1/chat/generate", chat)

	mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.Handle("GET /api/v1/auth/me", s.requireAuth(http.HandlerFunc(s.handleMe)))
	mux.HandleFunc("POST /api/v1/auth/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/v1/auth/logout", s.handleLogout)
	mux.HandleFunc("POST /api/v1/auth/forgot-password", s.handleForgotPassword)
	mux.HandleFunc("POST /api/v1/auth/reset-password", s.handleResetPassword)

	mux.Handle("GET /api/v1/projects", s.requireAuth(http.HandlerFunc(s.handleListProjects)))
	mux.Handle("POST /api/v1/projects", s.requireAuth(http.HandlerFunc(s.handleCreateProject)))
	mux.Handle("GET /api/v1/projects/{id}", s.requireAuth(http.HandlerFunc(s.handleGetProject)))
	mux.Handle("PUT /api/v1/projects/{id}", s.requireAuth(http.HandlerFunc(s.handleUpdateProject)))
	mux.Handle("DELETE /api/v1/projects/{id}", s.requireAuth(http.HandlerFunc(s.handleDeleteProject)))

	mux.Handle("POST /api/v1/agents/execute", s.requireAuth(s.limiter.middleware(http.HandlerFunc(s.handleExecuteAgent))))

	mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/{$}", s.handleInfo)
	mux.Handle("GET /metrics", promhttp.Handler())

	var h http.Handler = mux
	h = cors(s.cfg.AllowedOrigins)(h)
	h = recoverer(h)
	h = accessLog(h)
	h = requestID(h)
	return h
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
