package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dashboard-service/internal/events"
	"dashboard-service/internal/services"
)

type SubscriptionHandlers struct {
	subscriptions   *services.SubscriptionService
	eventsPublisher *events.Publisher
	logger          *logrus.Logger
}

func NewSubscriptionHandlers(subscriptions *services.SubscriptionService, eventsPublisher *events.Publisher, logger *logrus.Logger) *SubscriptionHandlers {
	return &SubscriptionHandlers{
		subscriptions:   subscriptions,
		eventsPublisher: eventsPublisher,
		logger:          logger,
	}
}

// CancelSubscriptionRequest comes from the trusted billing caller.
type CancelSubscriptionRequest struct {
	CustomerID       string `json:"customer_id" binding:"required"`
	CurrentPeriodEnd string `json:"current_period_end" binding:"required"`
}

// CancelSubscription marks the customer's subscription cancelled, effective
// the day after the current period ends.
func (h *SubscriptionHandlers) CancelSubscription(c *gin.Context) {
	var req CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "customer_id and current_period_end fields required",
		})
		return
	}

	result, err := h.subscriptions.Cancel(c.Request.Context(), req.CustomerID, req.CurrentPeriodEnd)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.eventsPublisher.Publish(c.Request.Context(), events.SubjectSubscriptionCancelled, req.CustomerID, c.ClientIP(), map[string]interface{}{
		"cancellation_date": result.CancellationDate,
	})

	c.JSON(http.StatusOK, gin.H{
		"cancellation_date": result.CancellationDate,
		"status":            result.Status,
	})
}
