package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dashboard-service/internal/events"
	"dashboard-service/internal/services"
)

type SessionHandlers struct {
	sessions        *services.SessionService
	eventsPublisher *events.Publisher
	logger          *logrus.Logger
}

func NewSessionHandlers(sessions *services.SessionService, eventsPublisher *events.Publisher, logger *logrus.Logger) *SessionHandlers {
	return &SessionHandlers{
		sessions:        sessions,
		eventsPublisher: eventsPublisher,
		logger:          logger,
	}
}

// ValidateSessionRequest carries the signed session token.
type ValidateSessionRequest struct {
	Session string `json:"session" binding:"required"`
}

// ValidateSession validates a signed session token and returns the identity
// claims it was issued with.
func (h *SessionHandlers) ValidateSession(c *gin.Context) {
	var req ValidateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "session field required",
			"valid": false,
		})
		return
	}

	identity, err := h.sessions.Authenticate(c.Request.Context(), req.Session)
	if err != nil {
		h.eventsPublisher.Publish(c.Request.Context(), events.SubjectSessionRejected, "", c.ClientIP(), map[string]interface{}{
			"reason": statusMessage(err),
		})
		respondAuthError(c, h.logger, err)
		return
	}

	h.eventsPublisher.Publish(c.Request.Context(), events.SubjectSessionValidated, identity.CustomerID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{
		"valid":       true,
		"customer_id": identity.CustomerID,
		"email":       identity.Email,
		"plan":        identity.Plan,
	})
}

// statusMessage returns the client-facing message for an error without its
// HTTP status, for audit metadata.
func statusMessage(err error) string {
	_, msg := statusForError(err)
	return msg
}
