package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Angelito-Alit/comments-api/internal/version"
)

func (s *Server) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Comments API",
		"status":    "running",
		"timestamp": s.clk.Now().Format(time.RFC3339),
		"version":   version.Version,
	})
}

func (s *Server) Health(c *gin.Context) {
	report := s.checker.Check(c.Request.Context())
	c.JSON(http.StatusOK, report)
}
