package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dashboard-service/internal/events"
	"dashboard-service/internal/services"
)

type WebsiteHandlers struct {
	legacy          *services.LegacyService
	websites        *services.WebsiteService
	eventsPublisher *events.Publisher
	logger          *logrus.Logger
}

func NewWebsiteHandlers(legacy *services.LegacyService, websites *services.WebsiteService, eventsPublisher *events.Publisher, logger *logrus.Logger) *WebsiteHandlers {
	return &WebsiteHandlers{
		legacy:          legacy,
		websites:        websites,
		eventsPublisher: eventsPublisher,
		logger:          logger,
	}
}

// AddWebsiteRequest adds a URL to the monitored list.
type AddWebsiteRequest struct {
	Token  string `json:"token" binding:"required"`
	NewURL string `json:"new_url" binding:"required"`
}

// RemoveWebsiteRequest removes a URL from the monitored list.
type RemoveWebsiteRequest struct {
	Token     string `json:"token" binding:"required"`
	RemoveURL string `json:"remove_url" binding:"required"`
}

// AddWebsite appends a monitored website for a professional-tier customer.
func (h *WebsiteHandlers) AddWebsite(c *gin.Context) {
	var req AddWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "token and new_url fields required",
		})
		return
	}

	identity, err := h.legacy.Authenticate(c.Request.Context(), req.Token, "")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	websites, err := h.websites.Add(c.Request.Context(), identity, req.NewURL)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.eventsPublisher.Publish(c.Request.Context(), events.SubjectWebsiteAdded, identity.CustomerID, c.ClientIP(), map[string]interface{}{
		"website_count": len(websites),
	})

	c.JSON(http.StatusOK, gin.H{"websites": websites})
}

// RemoveWebsite deletes a monitored website. The last remaining site cannot
// be removed.
func (h *WebsiteHandlers) RemoveWebsite(c *gin.Context) {
	var req RemoveWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "token and remove_url fields required",
		})
		return
	}

	identity, err := h.legacy.Authenticate(c.Request.Context(), req.Token, "")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	websites, err := h.websites.Remove(c.Request.Context(), identity, req.RemoveURL)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.eventsPublisher.Publish(c.Request.Context(), events.SubjectWebsiteRemoved, identity.CustomerID, c.ClientIP(), map[string]interface{}{
		"website_count": len(websites),
	})

	c.JSON(http.StatusOK, gin.H{"websites": websites})
}
