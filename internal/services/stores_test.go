package services

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"dashboard-service/internal/models"
	"dashboard-service/internal/repository"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeCustomerStore is an in-memory CustomerStore. UpdateWebsites mutates
// the stored customer, so post-write verification sees the new list.
type fakeCustomerStore struct {
	customers   []*models.Customer
	readErr     error
	updateErr   error
	updateCalls int
}

func (f *fakeCustomerStore) GetByID(ctx context.Context, customerID string) (*models.Customer, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	for _, c := range f.customers {
		if c.ID == customerID {
			clone := *c
			clone.Websites = append([]string(nil), c.Websites...)
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCustomerStore) GetByToken(ctx context.Context, token string) (*models.Customer, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	for _, c := range f.customers {
		if c.APIToken == token {
			clone := *c
			clone.Websites = append([]string(nil), c.Websites...)
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCustomerStore) UpdateWebsites(ctx context.Context, customer *models.Customer, websites []string) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, c := range f.customers {
		if c.ID == customer.ID {
			c.Websites = append([]string(nil), websites...)
			return nil
		}
	}
	return errors.New("customer not stored")
}

type fakeSubscriptionStore struct {
	subscriptions map[string]*models.Subscription
	readErr       error
	cancelErr     error
	cancelled     map[string]string // customer ID -> cancelled date
}

func (f *fakeSubscriptionStore) GetByCustomerID(ctx context.Context, customerID string) (*models.Subscription, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	sub, ok := f.subscriptions[customerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *sub
	return &clone, nil
}

func (f *fakeSubscriptionStore) Cancel(ctx context.Context, sub *models.Subscription, cancelledDate string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	if f.cancelled == nil {
		f.cancelled = make(map[string]string)
	}
	f.cancelled[sub.CustomerID] = cancelledDate
	if stored, ok := f.subscriptions[sub.CustomerID]; ok {
		stored.Status = models.SubscriptionCancelled
		stored.CancelledDate = cancelledDate
	}
	return nil
}

type fakeScanStore struct {
	scans      []models.ScanSummary
	violations map[string][]models.Violation // keyed by scan ID
	scanErr    error
	violErr    error
}

func (f *fakeScanStore) ListByCustomer(ctx context.Context, customerID string) ([]models.ScanSummary, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	var out []models.ScanSummary
	for _, s := range f.scans {
		if s.CustomerID == customerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScanStore) ListViolationsByScan(ctx context.Context, scanID string) ([]models.Violation, error) {
	if f.violErr != nil {
		return nil, f.violErr
	}
	return f.violations[scanID], nil
}

type fakeConfigStore struct {
	values  map[string]string
	readErr error
}

func (f *fakeConfigStore) Get(ctx context.Context, key string) (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	v, ok := f.values[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return v, nil
}
