package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dashboard-service/internal/models"
	"dashboard-service/internal/services"
)

type CustomerHandlers struct {
	legacy    *services.LegacyService
	dashboard *services.DashboardService
	logger    *logrus.Logger
}

func NewCustomerHandlers(legacy *services.LegacyService, dashboard *services.DashboardService, logger *logrus.Logger) *CustomerHandlers {
	return &CustomerHandlers{
		legacy:    legacy,
		dashboard: dashboard,
		logger:    logger,
	}
}

// GetCustomerData returns the aggregated dashboard payload. The caller
// supplies either a bearer token or a raw customer identifier as a query
// parameter.
func (h *CustomerHandlers) GetCustomerData(c *gin.Context) {
	token := c.Query("token")
	id := c.Query("id")
	if token == "" && id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "token or id query parameter required",
		})
		return
	}

	identity, err := h.legacy.Authenticate(c.Request.Context(), token, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	payload, err := h.dashboard.Aggregate(c.Request.Context(), identity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, payload)
}

// GetProfessionalData returns the multi-site account view. Restricted to
// professional-tier customers.
func (h *CustomerHandlers) GetProfessionalData(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "token query parameter required",
		})
		return
	}

	identity, err := h.legacy.Authenticate(c.Request.Context(), token, "")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if !identityIsProfessional(identity.Plan) {
		respondError(c, h.logger, services.ErrPlanRequired)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer": identity,
		"websites": identity.Websites,
	})
}

func identityIsProfessional(plan string) bool {
	return strings.EqualFold(strings.TrimSpace(plan), models.PlanProfessional)
}
