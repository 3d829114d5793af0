package server

import (
	"net/http"
	"time"

	"ollamarouter/internal/core"

	"github.com/gin-gonic/gin"
)

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// getStatus reports the full catalog and routing state. The underlying
// refresh is debounced, so dashboards can poll this freely.
func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.manager.Status(c.Request.Context()))
}

func (s *Server) postRefresh(c *gin.Context) {
	resp := s.manager.Refresh(c.Request.Context())
	if !resp.Refreshed {
		s.metricsService.RecordHTTPError()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) postLoad(c *gin.Context) {
	var req core.LoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Model == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model is required"})
		return
	}

	c.JSON(http.StatusOK, s.manager.Load(c.Request.Context(), req.Model))
}

func (s *Server) postSelect(c *gin.Context) {
	var req core.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, s.manager.Select(&req))
}

// postGenerate runs one generation. Backend failures are part of the
// response shape, not HTTP errors: the status is 200 either way and the
// caller checks the success flag.
func (s *Server) postGenerate(c *gin.Context) {
	var req core.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	result := s.manager.Generate(c.Request.Context(), &req)
	if !result.Success {
		s.metricsService.RecordHTTPError()
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) getStatsData(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"current_time": time.Now().Format(core.TimeFormatDateTime),
		"requests":     s.metricsService.GetRequestStats(),
		"models":       s.manager.Stats(),
	})
}
