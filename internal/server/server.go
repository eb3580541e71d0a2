package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jackzampolin/presence/internal/api"
	"github.com/jackzampolin/presence/internal/config"
	"github.com/jackzampolin/presence/internal/generation"
	"github.com/jackzampolin/presence/internal/llmcall"
	"github.com/jackzampolin/presence/internal/prompts"
	"github.com/jackzampolin/presence/internal/prompts/content"
	"github.com/jackzampolin/presence/internal/prompts/intel"
	"github.com/jackzampolin/presence/internal/prompts/optimizer"
	"github.com/jackzampolin/presence/internal/prompts/scoring"
	"github.com/jackzampolin/presence/internal/prompts/strategy"
	"github.com/jackzampolin/presence/internal/providers"
	"github.com/jackzampolin/presence/internal/server/endpoints"
	"github.com/jackzampolin/presence/internal/session"
	"github.com/jackzampolin/presence/internal/studio"
	"github.com/jackzampolin/presence/internal/svcctx"
)

// Server is the main Presence HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	registry   *providers.Registry
	engine     *generation.Engine
	studio     *studio.Studio
	sessions   *session.Manager
	recorder   *llmcall.Recorder
	configMgr  *config.Manager
	logger     *slog.Logger

	// generator overrides the registry-backed generator when set
	generator generation.TextGenerator

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support.
	// When nil the built-in defaults are used.
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
	// Generator replaces the configured provider. Used by tests.
	Generator generation.TextGenerator
	// Now is the clock for cooldowns and history; defaults to time.Now.
	Now func() time.Time
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	appCfg := config.DefaultConfig()
	if cfg.ConfigManager != nil {
		appCfg = cfg.ConfigManager.Get()
	}

	// Create provider registry
	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)
	registry.Reload(appCfg.ToProviderRegistryConfig())

	resolver := prompts.NewResolver(cfg.Logger)
	content.RegisterPrompts(resolver)
	strategy.RegisterPrompts(resolver)
	optimizer.RegisterPrompts(resolver)
	scoring.RegisterPrompts(resolver)
	intel.RegisterPrompts(resolver)

	recorder := llmcall.NewRecorder(llmcall.DefaultCapacity)
	engine := generation.NewEngine(generation.Config{Logger: cfg.Logger})

	s := &Server{
		registry:  registry,
		engine:    engine,
		recorder:  recorder,
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
		generator: cfg.Generator,
		sessions:  session.NewManager(appCfg.History.Cap),
		studio: studio.New(studio.Config{
			Engine: engine,
			Logger: cfg.Logger,
			Now:    cfg.Now,
		}),
	}
	s.applyConfig(appCfg)

	s.services = &svcctx.Services{
		Sessions:  s.sessions,
		Studio:    s.studio,
		Registry:  registry,
		Prompts:   resolver,
		Recorder:  recorder,
		ConfigMgr: cfg.ConfigManager,
		Logger:    cfg.Logger,
	}

	// Watch for config changes
	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			registry.Reload(c.ToProviderRegistryConfig())
			s.applyConfig(c)
			cfg.Logger.Info("settings reloaded from config", "generator_online", engine.Online())
		})
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{Now: cfg.Now}) {
		s.endpointRegistry.Register(ep)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(s.logRequests)
	router.Use(middleware.Recoverer)
	router.Use(s.withServices)
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, api.ErrorResponse{Error: "not found"})
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, api.ErrorResponse{Error: "method not allowed"})
	})
	s.endpointRegistry.RegisterRoutes(router, s.requireInit)
	s.handler = router

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// applyConfig pushes generation, cooldown and history settings into the
// running services.
func (s *Server) applyConfig(c *config.Config) {
	gen := s.generator
	if gen == nil {
		g, err := generation.FromRegistry(s.registry, c.Defaults.LLMProvider, content.SystemPrompt(), s.recorder)
		if err != nil {
			s.logger.Warn("generator offline", "provider", c.Defaults.LLMProvider, "error", err)
		}
		gen = g
	}

	s.engine.Apply(generation.Settings{
		Generator:   gen,
		Temperature: c.Defaults.Temperature,
		MaxTokens:   c.Defaults.MaxTokens,
	})
	s.studio.Apply(studio.Settings{
		Cooldown:       c.Cooldown(),
		RequireBullets: c.Generation.RequireBullets,
	})
	s.sessions.SetHistoryCap(c.History.Cap)
}

// Start starts the server.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if s.configMgr != nil && s.configMgr.ConfigFile() != "" {
		s.configMgr.WatchConfig()
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr, "generator_online", s.engine.Online())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped", "sessions", s.sessions.Count())
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// Sessions returns the session manager.
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// Endpoints returns the endpoint registry, for building CLI commands.
func (s *Server) Endpoints() *api.Registry {
	return s.endpointRegistry
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures session services are ready.
// Returns 503 Service Unavailable otherwise.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.services == nil || s.sessions == nil || s.studio == nil {
			writeJSON(w, http.StatusServiceUnavailable, api.ErrorResponse{Error: "server not fully initialized"})
			return
		}
		next(w, r)
	}
}

// logRequests logs one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			level := slog.LevelInfo
			if r.URL.Path == "/health" {
				level = slog.LevelDebug
			}
			s.logger.Log(r.Context(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
