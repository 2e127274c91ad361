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

// periodEndLayout is the calendar-date format billing writes and reads.
const periodEndLayout = "2006-01-02"

// SubscriptionService cancels subscriptions on behalf of the billing
// gateway's trusted webhook caller.
type SubscriptionService struct {
	subscriptions SubscriptionStore
	logger        *logrus.Entry
}

func NewSubscriptionService(subscriptions SubscriptionStore, logger *logrus.Logger) *SubscriptionService {
	if logger == nil {
		logger = logrus.New()
	}
	return &SubscriptionService{
		subscriptions: subscriptions,
		logger:        logger.WithField("component", "services.subscription"),
	}
}

// Cancel marks the customer's subscription cancelled. The cancellation date
// is always the day after the current period end.
func (s *SubscriptionService) Cancel(ctx context.Context, customerID, currentPeriodEnd string) (*models.CancellationResult, error) {
	periodEnd, err := time.Parse(periodEndLayout, currentPeriodEnd)
	if err != nil {
		return nil, ErrInvalidPeriodEnd
	}
	cancelledDate := periodEnd.AddDate(0, 0, 1).Format(periodEndLayout)

	sub, err := s.subscriptions.GetByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	if err := s.subscriptions.Cancel(ctx, sub, cancelledDate); err != nil {
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"customer_id":    customerID,
		"cancelled_date": cancelledDate,
	}).Info("Subscription cancelled")

	return &models.CancellationResult{
		CustomerID:       customerID,
		Status:           models.SubscriptionCancelled,
		CancellationDate: cancelledDate,
	}, nil
}
