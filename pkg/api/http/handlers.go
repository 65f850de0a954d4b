package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	rootPath   = "/"
	healthPath = "/healthz"

	// greeting is the exact body served from the root endpoint.
	greeting = "Hello from SRE Test!"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// handleRoot serves the static greeting
func (s *Server) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, greeting)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
