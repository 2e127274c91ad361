package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandlers struct{}

func NewHealthHandlers() *HealthHandlers {
	return &HealthHandlers{}
}

// Health check handler
func (h *HealthHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "dashboard-service",
		"version": "1.0.0",
	})
}

// Ready check handler - indicates the service is ready to accept traffic
func (h *HealthHandlers) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"service": "dashboard-service",
	})
}
