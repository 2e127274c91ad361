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

// DefaultLegacyTokenTTL bounds the age of a long-lived bearer token.
const DefaultLegacyTokenTTL = time.Hour

// LegacyService authenticates the pre-session credential forms: an opaque
// bearer token, or a raw customer identifier. Both forms are subject to the
// same issuance age limit; identifier access was never given a separate
// admin capability, so it does not bypass expiry.
type LegacyService struct {
	customers CustomerStore
	tokenTTL  time.Duration
	logger    *logrus.Entry
	now       func() time.Time
}

func NewLegacyService(customers CustomerStore, tokenTTL time.Duration, logger *logrus.Logger) *LegacyService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultLegacyTokenTTL
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &LegacyService{
		customers: customers,
		tokenTTL:  tokenTTL,
		logger:    logger.WithField("component", "services.legacy"),
		now:       time.Now,
	}
}

// Authenticate resolves exactly one of (bearer, customerID) to an identity.
func (s *LegacyService) Authenticate(ctx context.Context, bearer, customerID string) (*models.Identity, error) {
	var (
		customer *models.Customer
		err      error
	)

	switch {
	case bearer != "":
		customer, err = s.customers.GetByToken(ctx, bearer)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrInvalidToken
			}
			return nil, fmt.Errorf("failed to look up customer by token: %w", err)
		}
	case customerID != "":
		customer, err = s.customers.GetByID(ctx, customerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrCustomerNotFound
			}
			return nil, fmt.Errorf("failed to look up customer by id: %w", err)
		}
	default:
		return nil, ErrMissingCredential
	}

	if err := s.checkTokenAge(customer); err != nil {
		return nil, err
	}

	return &models.Identity{
		CustomerID: customer.ID,
		Email:      customer.Email,
		Plan:       customer.Plan,
		Websites:   customer.Websites,
	}, nil
}

// checkTokenAge enforces the issuance age limit. A row with no recorded
// issuance timestamp fails closed rather than granting permanent access.
func (s *LegacyService) checkTokenAge(customer *models.Customer) error {
	if customer.TokenIssuedAt.IsZero() {
		s.logger.WithField("customer_id", customer.ID).Warn("Customer row has no token issuance timestamp")
		return ErrExpired
	}
	age := s.now().Sub(customer.TokenIssuedAt)
	if age > s.tokenTTL {
		s.logger.WithFields(logrus.Fields{
			"customer_id": customer.ID,
			"issued_at":   customer.TokenIssuedAt.UTC().Format(time.RFC3339),
			"expired":     true,
		}).Info("Legacy token rejected")
		return ErrExpired
	}
	return nil
}
