package services

import "errors"

// Authentication failures. Handlers map these onto 400/401/403/404; anything
// not in this taxonomy is treated as an upstream failure (500).
var (
	ErrMalformedToken    = errors.New("malformed token")
	ErrMalformedClaims   = errors.New("malformed token claims")
	ErrInvalidSignature  = errors.New("invalid token signature")
	ErrExpired           = errors.New("token expired")
	ErrSecretUnavailable = errors.New("signing secret unavailable")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrRevoked           = errors.New("token revoked")
	ErrInvalidToken      = errors.New("invalid token")
	ErrMissingCredential = errors.New("missing credential")
)

// Website mutation failures.
var (
	ErrPlanRequired    = errors.New("professional plan required")
	ErrInvalidURL      = errors.New("invalid website URL")
	ErrLimitExceeded   = errors.New("website limit exceeded")
	ErrDuplicateURL    = errors.New("website already monitored")
	ErrWebsiteNotFound = errors.New("website not in monitored list")
	ErrLastWebsite     = errors.New("cannot remove the last monitored website")
)

// Subscription failures.
var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidPeriodEnd     = errors.New("invalid current_period_end date")
)
