package server

import (
	"ollamarouter/internal/metrics"

	"github.com/gin-gonic/gin"
)

func (s *Server) setupRoutes() {
	gin.SetMode(s.ginMode)
	s.router = gin.New()

	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(s.corsMiddleware())
	s.router.Use(s.maxBodySizeMiddleware())
	s.router.Use(s.rateLimitMiddleware())
	s.router.Use(s.requestIDMiddleware())
	s.router.Use(s.metricsMiddleware())

	// Public routes (no auth)
	s.router.GET("/", metrics.ShowStatsPage)
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/api/stats", s.getStatsData)

	// API routes (auth required when keys are configured)
	api := s.router.Group("/api")
	api.Use(s.authenticateClient)
	{
		api.GET("/status", s.getStatus)
		api.POST("/models/refresh", s.postRefresh)
		api.POST("/models/load", s.postLoad)
		api.POST("/models/select", s.postSelect)
		api.POST("/generate", s.postGenerate)
	}
}
