package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard-service/internal/models"
)

var customerHeader = []string{
	"customer_id", "email", "company_name", "websites", "plan",
	"scan_frequency", "status", "api_token", "token_issued_at",
}

func customerRow(id, email, websites, plan, token, issuedAt string) []string {
	return []string{id, email, "Acme Corp", websites, plan, "weekly", "active", token, issuedAt}
}

func TestCustomerGetByID(t *testing.T) {
	store := newFakeRowStore()
	store.setSheet("Customers", [][]string{
		customerHeader,
		customerRow("CUST001", "one@example.com", "https://example.com,https://shop.example.com", "professional", "tok_1", "2025-01-15T10:00:00Z"),
		customerRow("CUST002", "two@example.com", "https://two.example.com", "free", "tok_2", ""),
	})
	repo := NewCustomerRepository(store, "Customers")

	customer, err := repo.GetByID(context.Background(), "CUST001")
	require.NoError(t, err)
	assert.Equal(t, "one@example.com", customer.Email)
	assert.Equal(t, []string{"https://example.com", "https://shop.example.com"}, customer.Websites)
	assert.Equal(t, "tok_1", customer.APIToken)
	assert.Equal(t, 2, customer.RowNumber)
	assert.Equal(t, time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC), customer.TokenIssuedAt.UTC())

	_, err = repo.GetByID(context.Background(), "CUST404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerGetByToken(t *testing.T) {
	store := newFakeRowStore()
	store.setSheet("Customers", [][]string{
		customerHeader,
		customerRow("CUST001", "one@example.com", "https://example.com", "free", "tok_1", "2025-01-15 10:00:00"),
	})
	repo := NewCustomerRepository(store, "Customers")

	customer, err := repo.GetByToken(context.Background(), "tok_1")
	require.NoError(t, err)
	assert.Equal(t, "CUST001", customer.ID)
	assert.False(t, customer.TokenIssuedAt.IsZero())

	_, err = repo.GetByToken(context.Background(), "tok_other")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerGetByTokenEmptyNeverMatches(t *testing.T) {
	// A row with a blank token cell must not match an empty bearer string.
	store := newFakeRowStore()
	store.setSheet("Customers", [][]string{
		customerHeader,
		customerRow("CUST001", "one@example.com", "https://example.com", "free", "", ""),
	})
	repo := NewCustomerRepository(store, "Customers")

	_, err := repo.GetByToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerColumnsFollowHeaderDrift(t *testing.T) {
	// Same logical columns, rearranged between deployments. The header row
	// decides, not the position.
	store := newFakeRowStore()
	store.setSheet("Customers", [][]string{
		{"email", "customer_id", "plan", "API Token", "websites", "token_issued_at"},
		{"one@example.com", "CUST001", "professional", "tok_1", "https://example.com", "2025-01-15T10:00:00Z"},
	})
	repo := NewCustomerRepository(store, "Customers")

	customer, err := repo.GetByID(context.Background(), "CUST001")
	require.NoError(t, err)
	assert.Equal(t, "one@example.com", customer.Email)
	assert.Equal(t, "tok_1", customer.APIToken)
	assert.Equal(t, []string{"https://example.com"}, customer.Websites)
}

func TestCustomerHeaderlessSheetUsesDefaults(t *testing.T) {
	store := newFakeRowStore()
	store.setSheet("Customers", [][]string{
		{"", "", "", "", "", "", "", "", ""},
		customerRow("CUST001", "one@example.com", "https://example.com", "free", "tok_1", ""),
	})
	repo := NewCustomerRepository(store, "Customers")

	customer, err := repo.GetByID(context.Background(), "CUST001")
	require.NoError(t, err)
	assert.Equal(t, "tok_1", customer.APIToken)
}

func TestCustomerRaggedRowParses(t *testing.T) {
	// Trailing empty cells are omitted by the API.
	store := newFakeRowStore()
	store.setSheet("Customers", [][]string{
		customerHeader,
		{"CUST001", "one@example.com"},
	})
	repo := NewCustomerRepository(store, "Customers")

	customer, err := repo.GetByID(context.Background(), "CUST001")
	require.NoError(t, err)
	assert.Empty(t, customer.APIToken)
	assert.Empty(t, customer.Websites)
	assert.True(t, customer.TokenIssuedAt.IsZero())
}

func TestCustomerUpdateWebsites(t *testing.T) {
	store := newFakeRowStore()
	store.setSheet("Customers", [][]string{
		customerHeader,
		customerRow("CUST001", "one@example.com", "https://example.com", "professional", "tok_1", ""),
	})
	repo := NewCustomerRepository(store, "Customers")

	customer, err := repo.GetByID(context.Background(), "CUST001")
	require.NoError(t, err)

	err = repo.UpdateWebsites(context.Background(), customer, []string{"https://example.com", "https://shop.example.com"})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com,https://shop.example.com", store.data["Customers"][1][3])

	reread, err := repo.GetByID(context.Background(), "CUST001")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com", "https://shop.example.com"}, reread.Websites)
}

func TestCustomerUpdateWebsitesFollowsHeaderDrift(t *testing.T) {
	store := newFakeRowStore()
	store.setSheet("Customers", [][]string{
		{"customer_id", "websites_old", "email", "websites"},
		{"CUST001", "stale", "one@example.com", "https://example.com"},
	})
	repo := NewCustomerRepository(store, "Customers")

	customer, err := repo.GetByID(context.Background(), "CUST001")
	require.NoError(t, err)

	err = repo.UpdateWebsites(context.Background(), customer, []string{"https://new.example.com"})
	require.NoError(t, err)

	assert.Equal(t, "stale", store.data["Customers"][1][1])
	assert.Equal(t, "https://new.example.com", store.data["Customers"][1][3])
}

func TestCustomerUpdateWebsitesRequiresRowNumber(t *testing.T) {
	repo := NewCustomerRepository(newFakeRowStore(), "Customers")

	err := repo.UpdateWebsites(context.Background(), &models.Customer{ID: "CUST001"}, []string{"https://example.com"})
	assert.Error(t, err)
}
