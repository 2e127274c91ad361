package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"dashboard-service/internal/models"
	"dashboard-service/internal/repository"
)

// SessionService validates signed session tokens: signature, expiry,
// customer existence, and revocation against the on-file bearer token.
// A customer has a single active session; issuing a new token overwrites the
// on-file value, which revokes every earlier signed token.
type SessionService struct {
	tokens    *TokenService
	customers CustomerStore
	appConfig ConfigStore
	logger    *logrus.Entry
	now       func() time.Time
}

func NewSessionService(tokens *TokenService, customers CustomerStore, appConfig ConfigStore, logger *logrus.Logger) *SessionService {
	if logger == nil {
		logger = logrus.New()
	}
	return &SessionService{
		tokens:    tokens,
		customers: customers,
		appConfig: appConfig,
		logger:    logger.WithField("component", "services.session"),
		now:       time.Now,
	}
}

// Authenticate resolves a signed token to an identity or a typed failure.
// The identity is taken from the claims, not re-derived from the customer
// row. Row-store failures surface as upstream errors, never as
// unauthenticated.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	secret, err := s.appConfig.Get(ctx, repository.SigningSecretKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Operator misconfiguration, not a client failure.
			s.logger.Error("Signing secret missing from config store")
			return nil, ErrSecretUnavailable
		}
		return nil, fmt.Errorf("failed to load signing secret: %w", err)
	}

	claims, err := s.tokens.VerifyAndDecode(token, []byte(secret))
	if err != nil {
		// Best-effort rejection log. The claims are unverified here, so
		// only timestamp metadata is recorded.
		if meta, decodeErr := s.tokens.Decode(token); decodeErr == nil {
			expired := meta.ExpiresAt != nil && s.now().After(meta.ExpiresAt.Time)
			s.logTokenMetadata(meta, expired)
		}
		return nil, err
	}

	// A token without an expiry claim is never treated as non-expiring.
	if claims.ExpiresAt == nil {
		return nil, ErrMalformedToken
	}

	if s.now().After(claims.ExpiresAt.Time) {
		s.logTokenMetadata(claims, true)
		return nil, ErrExpired
	}

	customer, err := s.customers.GetByID(ctx, claims.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}

	if customer.APIToken != token {
		s.logTokenMetadata(claims, false)
		return nil, ErrRevoked
	}

	return &models.Identity{
		CustomerID: claims.CustomerID,
		Email:      claims.Email,
		Plan:       claims.Plan,
	}, nil
}

// logTokenMetadata records non-sensitive token fields on rejection. The
// token string, claims email, and secret never reach the log.
func (s *SessionService) logTokenMetadata(claims *SessionClaims, expired bool) {
	fields := logrus.Fields{"expired": expired}
	if claims.IssuedAt != nil {
		fields["issued_at"] = claims.IssuedAt.Time.UTC().Format(time.RFC3339)
	}
	if claims.ExpiresAt != nil {
		fields["expires_at"] = claims.ExpiresAt.Time.UTC().Format(time.RFC3339)
	}
	s.logger.WithFields(fields).Info("Session token rejected")
}
