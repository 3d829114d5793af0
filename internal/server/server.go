package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ollamarouter/internal/cache"
	"ollamarouter/internal/config"
	"ollamarouter/internal/core"
	"ollamarouter/internal/manager"
	"ollamarouter/internal/metrics"
	"ollamarouter/internal/ollama"
	"ollamarouter/internal/util"

	"github.com/gin-gonic/gin"
)

// Server application server
type Server struct {
	port    string
	ginMode string

	manager    *manager.Manager
	httpClient *http.Client
	router     *gin.Engine

	cache          *cache.LRUCache
	metricsService *metrics.MetricsService

	validClientKeys map[string]bool

	config config.ServerConfig

	rateLimiter *rateLimiter

	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// NewServer creates a new server instance
func NewServer(cfg config.ServerConfig) (*Server, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required in ServerConfig")
	}

	httpClient := createOptimizedHTTPClient(cfg.HTTPClientSettings)
	cacheService := cache.NewCache()
	metricsService := metrics.NewMetricsService()

	client := ollama.NewClient(cfg.OllamaBaseURL, httpClient, cfg.Logger)
	cfg.Logger.Info("Using Ollama backend at %s", client.BaseURL())

	mgr := manager.NewManager(manager.ManagerConfig{
		Client:       client,
		Cache:        cacheService,
		Storage:      cfg.Storage,
		Tasks:        cfg.Routing.Tasks,
		Capabilities: cfg.Routing.Capabilities,
		DefaultChain: cfg.Routing.DefaultChain,
		Metrics:      metricsService,
		Logger:       cfg.Logger,
	})

	// Warm the catalog. Fail-soft: an unreachable backend at startup is
	// not fatal, the next status or refresh call retries.
	if resp := mgr.Refresh(context.Background()); resp.Refreshed {
		cfg.Logger.Info("Discovered %d models at startup", resp.TotalModels)
	} else {
		cfg.Logger.Warn("Could not reach Ollama backend at startup")
	}

	validClientKeys := make(map[string]bool)
	for _, key := range cfg.ClientAPIKeys {
		validClientKeys[key] = true
	}

	rateLimit := util.EnvIntOrDefault("RATE_LIMIT", 120)
	if rateLimit <= 0 {
		cfg.Logger.Warn("Invalid RATE_LIMIT value %d, using default 120", rateLimit)
		rateLimit = 120
	}

	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	server := &Server{
		port:            cfg.Port,
		ginMode:         cfg.GinMode,
		manager:         mgr,
		httpClient:      httpClient,
		cache:           cacheService,
		metricsService:  metricsService,
		validClientKeys: validClientKeys,
		config:          cfg,
		rateLimiter:     newRateLimiter(rateLimit),
		shutdownCtx:     shutdownCtx,
		shutdownCancel:  shutdownCancel,
	}

	server.setupRoutes()

	return server, nil
}

func createOptimizedHTTPClient(settings config.HTTPClientSettings) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:          settings.MaxIdleConns,
		MaxIdleConnsPerHost:   settings.MaxIdleConnsPerHost,
		MaxConnsPerHost:       settings.MaxConnsPerHost,
		IdleConnTimeout:       settings.IdleConnTimeout,
		TLSHandshakeTimeout:   settings.TLSHandshakeTimeout,
		ExpectContinueTimeout: core.HTTPExpectContinueTimeout,
		DisableKeepAlives:     false,
		ForceAttemptHTTP2:     true,
		ResponseHeaderTimeout: core.HTTPResponseHeaderTimeout,
		DisableCompression:    false,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   settings.RequestTimeout,
	}
}

// Run runs the server
func (s *Server) Run() error {
	s.setupGracefulShutdown()

	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Generation requests can hold the connection for minutes.
		WriteTimeout: 5 * time.Minute,
	}

	go func() {
		<-s.shutdownCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			s.config.Logger.Error("Server shutdown error: %v", err)
		}
	}()

	s.config.Logger.Info("Server starting on port %s", s.port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (s *Server) setupGracefulShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		s.config.Logger.Info("Shutdown signal received, shutting down gracefully...")
		s.shutdownCancel()
	}()
}

// Close flushes state and releases resources.
func (s *Server) Close() error {
	if s.shutdownCancel != nil {
		s.shutdownCancel()
	}

	var closeErr error

	if s.manager != nil {
		if err := s.manager.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close manager: %w", err))
		}
	}

	if s.cache != nil {
		s.cache.Stop()
	}

	return closeErr
}
