package services

import (
	"context"

	"dashboard-service/internal/models"
)

// Store interfaces consumed by the services. The sheet-backed repositories
// satisfy them; tests substitute fakes.

type CustomerStore interface {
	GetByID(ctx context.Context, customerID string) (*models.Customer, error)
	GetByToken(ctx context.Context, token string) (*models.Customer, error)
	UpdateWebsites(ctx context.Context, customer *models.Customer, websites []string) error
}

type SubscriptionStore interface {
	GetByCustomerID(ctx context.Context, customerID string) (*models.Subscription, error)
	Cancel(ctx context.Context, sub *models.Subscription, cancelledDate string) error
}

type ScanStore interface {
	ListByCustomer(ctx context.Context, customerID string) ([]models.ScanSummary, error)
	ListViolationsByScan(ctx context.Context, scanID string) ([]models.Violation, error)
}

type ConfigStore interface {
	Get(ctx context.Context, key string) (string, error)
}
