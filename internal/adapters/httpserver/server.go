package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/verifyit/verifyit/internal/alert"
	"github.com/verifyit/verifyit/internal/core"
	"go.uber.org/zap"
)

// Server exposes the verification API over HTTP
type Server struct {
	analysis    *core.AnalysisService
	alerts      *alert.Service
	subscribers core.SubscriberRepository
	aiProvider  string
	aiModel     string
	listenAddr  string
	httpServer  *http.Server
	logger      *zap.Logger
}

// NewServer creates a new API server
func NewServer(
	analysis *core.AnalysisService,
	alerts *alert.Service,
	subscribers core.SubscriberRepository,
	aiProvider string,
	aiModel string,
	listenAddr string,
	corsAllowedOrigins []string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		analysis:    analysis,
		alerts:      alerts,
		subscribers: subscribers,
		aiProvider:  aiProvider,
		aiModel:     aiModel,
		listenAddr:  listenAddr,
		logger:      logger,
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/verify", s.handleVerify)
		rt.Get("/health", s.handleHealth)
		rt.Get("/ai-status", s.handleAIStatus)
		rt.Post("/newsletter/subscribe", s.handleSubscribe)
		rt.Post("/newsletter/test-high-risk", s.handleTestHighRisk)
	})

	s.httpServer = &http.Server{
		Addr:         listenAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	return s
}

// Start starts the HTTP server in a background goroutine
func (s *Server) Start() error {
	s.logger.Info("API server starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
