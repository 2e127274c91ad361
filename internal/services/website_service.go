package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"dashboard-service/internal/models"
	"dashboard-service/internal/repository"
)

// writeAttempts bounds the optimistic read-modify-write loop. The row store
// exposes no transactions or row locks, so a concurrent mutation of the same
// customer row can invalidate a write; each attempt re-reads the list and
// verifies the stored value after writing.
const writeAttempts = 3

// WebsiteService mutates a customer's monitored-website list under the plan
// and cardinality invariants: professional tier only for adds, 1..5 entries,
// no duplicates.
type WebsiteService struct {
	customers CustomerStore
	logger    *logrus.Entry
}

func NewWebsiteService(customers CustomerStore, logger *logrus.Logger) *WebsiteService {
	if logger == nil {
		logger = logrus.New()
	}
	return &WebsiteService{
		customers: customers,
		logger:    logger.WithField("component", "services.website"),
	}
}

// Add appends a URL to the identity's monitored list and returns the updated
// list.
func (s *WebsiteService) Add(ctx context.Context, identity *models.Identity, rawURL string) ([]string, error) {
	if !strings.EqualFold(strings.TrimSpace(identity.Plan), models.PlanProfessional) {
		return nil, ErrPlanRequired
	}

	newURL := strings.TrimSpace(rawURL)
	if !isValidWebsiteURL(newURL) {
		return nil, ErrInvalidURL
	}

	return s.mutate(ctx, identity.CustomerID, func(current []string) ([]string, error) {
		// The limit is checked first: a full list rejects every add, even
		// one that would fail the duplicate rule too.
		if len(current)+1 > models.MaxWebsites {
			return nil, ErrLimitExceeded
		}
		for _, existing := range current {
			if existing == newURL {
				return nil, ErrDuplicateURL
			}
		}
		updated := make([]string, 0, len(current)+1)
		updated = append(updated, current...)
		return append(updated, newURL), nil
	})
}

// Remove deletes a URL from the identity's monitored list and returns the
// updated list. The last remaining website cannot be removed.
func (s *WebsiteService) Remove(ctx context.Context, identity *models.Identity, rawURL string) ([]string, error) {
	target := strings.TrimSpace(rawURL)
	if target == "" {
		return nil, ErrWebsiteNotFound
	}

	return s.mutate(ctx, identity.CustomerID, func(current []string) ([]string, error) {
		updated := make([]string, 0, len(current))
		found := false
		for _, existing := range current {
			if existing == target {
				found = true
				continue
			}
			updated = append(updated, existing)
		}
		if !found {
			return nil, ErrWebsiteNotFound
		}
		if len(updated) == 0 {
			return nil, ErrLastWebsite
		}
		return updated, nil
	})
}

// mutate runs the read-modify-write cycle with post-write verification.
// apply receives the freshly read list and returns the replacement or a
// typed rule failure; rule failures abort without retrying.
func (s *WebsiteService) mutate(ctx context.Context, customerID string, apply func([]string) ([]string, error)) ([]string, error) {
	for attempt := 1; attempt <= writeAttempts; attempt++ {
		customer, err := s.customers.GetByID(ctx, customerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrCustomerNotFound
			}
			return nil, fmt.Errorf("failed to load customer: %w", err)
		}

		updated, err := apply(customer.Websites)
		if err != nil {
			return nil, err
		}

		if err := s.customers.UpdateWebsites(ctx, customer, updated); err != nil {
			return nil, fmt.Errorf("failed to write website list: %w", err)
		}

		stored, err := s.customers.GetByID(ctx, customerID)
		if err != nil {
			return nil, fmt.Errorf("failed to verify website list: %w", err)
		}
		if listsEqual(stored.Websites, updated) {
			return updated, nil
		}

		s.logger.WithFields(logrus.Fields{
			"customer_id": customerID,
			"attempt":     attempt,
		}).Warn("Website list changed concurrently, retrying")
	}
	return nil, fmt.Errorf("website list for %s kept changing concurrently after %d attempts", customerID, writeAttempts)
}

func listsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// isValidWebsiteURL requires a syntactically valid absolute http(s) URL.
func isValidWebsiteURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
