package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dashboard-service/internal/services"
)

// statusForError maps the service error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is an upstream failure: 500, with a generic
// message so row-store details and secret material never reach the client.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrMissingCredential),
		errors.Is(err, services.ErrMalformedToken),
		errors.Is(err, services.ErrMalformedClaims),
		errors.Is(err, services.ErrInvalidURL),
		errors.Is(err, services.ErrLimitExceeded),
		errors.Is(err, services.ErrDuplicateURL),
		errors.Is(err, services.ErrLastWebsite),
		errors.Is(err, services.ErrInvalidPeriodEnd):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrExpired),
		errors.Is(err, services.ErrInvalidSignature),
		errors.Is(err, services.ErrRevoked),
		errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrPlanRequired):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrWebsiteNotFound),
		errors.Is(err, services.ErrSubscriptionNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrSecretUnavailable):
		return http.StatusInternalServerError, "authentication is not configured"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// respondError writes the JSON error envelope for non-auth endpoints.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	status, msg := statusForError(err)
	if status == http.StatusInternalServerError && logger != nil {
		logger.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
	}
	c.JSON(status, gin.H{"error": msg})
}

// respondAuthError writes the error envelope for authentication endpoints,
// which additionally carry valid:false.
func respondAuthError(c *gin.Context, logger *logrus.Logger, err error) {
	status, msg := statusForError(err)
	if status == http.StatusInternalServerError && logger != nil {
		logger.WithError(err).WithField("path", c.FullPath()).Error("Authentication request failed")
	}
	c.JSON(status, gin.H{"error": msg, "valid": false})
}
