package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard-service/internal/models"
)

func dashboardIdentity(customerID string) *models.Identity {
	return &models.Identity{CustomerID: customerID, Email: "owner@example.com", Plan: models.PlanFree}
}

func scan(id, customerID, url, date string, score int) models.ScanSummary {
	return models.ScanSummary{
		ScanID:          id,
		CustomerID:      customerID,
		WebsiteURL:      url,
		ComplianceScore: score,
		ScanDate:        date,
		Status:          "completed",
	}
}

func newDashboardFixture(customers []*models.Customer, subs map[string]*models.Subscription, scans *fakeScanStore) *DashboardService {
	return NewDashboardService(
		&fakeCustomerStore{customers: customers},
		&fakeSubscriptionStore{subscriptions: subs},
		scans,
		quietLogger(),
	)
}

func TestAggregateLatestScanWinsRegardlessOfRowOrder(t *testing.T) {
	customer := &models.Customer{ID: "CUST001", Plan: models.PlanFree, Websites: []string{"https://example.com"}}
	scanStore := &fakeScanStore{
		// Rows arrive out of date order.
		scans: []models.ScanSummary{
			scan("SCAN-2", "CUST001", "https://example.com", "2025-02-01", 80),
			scan("SCAN-3", "CUST001", "https://example.com", "2025-03-01", 90),
			scan("SCAN-1", "CUST001", "https://example.com", "2025-01-01", 70),
		},
		violations: map[string][]models.Violation{
			"SCAN-3": {{ViolationID: "V1", ScanID: "SCAN-3", RuleID: "image-alt", Impact: "critical"}},
		},
	}
	svc := newDashboardFixture([]*models.Customer{customer}, nil, scanStore)

	payload, err := svc.Aggregate(context.Background(), dashboardIdentity("CUST001"))
	require.NoError(t, err)

	require.NotNil(t, payload.Score)
	assert.Equal(t, 90, *payload.Score)
	require.NotNil(t, payload.LastScan)
	assert.Equal(t, "SCAN-3", payload.LastScan.ScanID)

	require.Len(t, payload.Historical, 3)
	assert.Equal(t, []models.HistoricalPoint{
		{Date: "2025-01-01", Score: 70},
		{Date: "2025-02-01", Score: 80},
		{Date: "2025-03-01", Score: 90},
	}, payload.Historical)

	require.Len(t, payload.Violations, 1)
	assert.Equal(t, "image-alt", payload.Violations[0].RuleID)
}

func TestAggregateHistoricalKeepsLastTen(t *testing.T) {
	customer := &models.Customer{ID: "CUST001", Plan: models.PlanFree}
	scanStore := &fakeScanStore{}
	for i := 1; i <= 14; i++ {
		date := "2025-01-" + twoDigits(i)
		scanStore.scans = append(scanStore.scans, scan("SCAN-"+twoDigits(i), "CUST001", "https://example.com", date, 60+i))
	}
	svc := newDashboardFixture([]*models.Customer{customer}, nil, scanStore)

	payload, err := svc.Aggregate(context.Background(), dashboardIdentity("CUST001"))
	require.NoError(t, err)

	require.Len(t, payload.Historical, 10)
	assert.Equal(t, "2025-01-05", payload.Historical[0].Date)
	assert.Equal(t, 65, payload.Historical[0].Score)
	assert.Equal(t, "2025-01-14", payload.Historical[9].Date)
	assert.Equal(t, 74, payload.Historical[9].Score)
}

func TestAggregateSameDateTieBreaksOnScanID(t *testing.T) {
	customer := &models.Customer{ID: "CUST001", Plan: models.PlanFree}
	scanStore := &fakeScanStore{
		scans: []models.ScanSummary{
			scan("SCAN-B", "CUST001", "https://example.com", "2025-03-01", 50),
			scan("SCAN-A", "CUST001", "https://example.com", "2025-03-01", 40),
		},
	}
	svc := newDashboardFixture([]*models.Customer{customer}, nil, scanStore)

	first, err := svc.Aggregate(context.Background(), dashboardIdentity("CUST001"))
	require.NoError(t, err)
	second, err := svc.Aggregate(context.Background(), dashboardIdentity("CUST001"))
	require.NoError(t, err)

	assert.Equal(t, "SCAN-B", first.LastScan.ScanID)
	assert.Equal(t, first, second)
}

func TestAggregateNoScans(t *testing.T) {
	customer := &models.Customer{ID: "CUST001", Plan: models.PlanFree}
	svc := newDashboardFixture([]*models.Customer{customer}, nil, &fakeScanStore{})

	payload, err := svc.Aggregate(context.Background(), dashboardIdentity("CUST001"))
	require.NoError(t, err)

	assert.Nil(t, payload.Score)
	assert.Nil(t, payload.LastScan)
	assert.Empty(t, payload.Historical)
	assert.Empty(t, payload.Violations)
}

func TestAggregateMissingSubscription(t *testing.T) {
	customer := &models.Customer{ID: "CUST001", Plan: models.PlanFree}
	svc := newDashboardFixture([]*models.Customer{customer}, nil, &fakeScanStore{})

	payload, err := svc.Aggregate(context.Background(), dashboardIdentity("CUST001"))
	require.NoError(t, err)
	assert.Nil(t, payload.Subscription)
}

func TestAggregateIncludesSubscription(t *testing.T) {
	customer := &models.Customer{ID: "CUST001", Plan: models.PlanProfessional}
	subs := map[string]*models.Subscription{
		"CUST001": {CustomerID: "CUST001", Plan: models.PlanProfessional, Status: models.SubscriptionActive, CurrentPeriodEnd: "2025-06-30"},
	}
	svc := newDashboardFixture([]*models.Customer{customer}, subs, &fakeScanStore{})

	payload, err := svc.Aggregate(context.Background(), dashboardIdentity("CUST001"))
	require.NoError(t, err)
	require.NotNil(t, payload.Subscription)
	assert.Equal(t, models.SubscriptionActive, payload.Subscription.Status)
}

func TestAggregateUnknownCustomer(t *testing.T) {
	svc := newDashboardFixture(nil, nil, &fakeScanStore{})

	_, err := svc.Aggregate(context.Background(), dashboardIdentity("CUST404"))
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestAggregateProfessionalMultiSiteReports(t *testing.T) {
	customer := &models.Customer{
		ID:       "CUST001",
		Plan:     models.PlanProfessional,
		Websites: []string{"https://example.com", "https://shop.example.com", "https://blog.example.com"},
	}
	scanStore := &fakeScanStore{
		scans: []models.ScanSummary{
			scan("SCAN-1", "CUST001", "https://example.com", "2025-01-01", 70),
			scan("SCAN-2", "CUST001", "https://shop.example.com", "2025-01-02", 85),
			scan("SCAN-3", "CUST001", "https://example.com", "2025-01-03", 75),
		},
		violations: map[string][]models.Violation{
			"SCAN-3": {{ViolationID: "V1", ScanID: "SCAN-3", RuleID: "color-contrast", Impact: "serious"}},
		},
	}
	svc := newDashboardFixture([]*models.Customer{customer}, nil, scanStore)

	payload, err := svc.Aggregate(context.Background(), dashboardIdentity("CUST001"))
	require.NoError(t, err)

	require.Len(t, payload.Sites, 3)

	assert.Equal(t, "https://example.com", payload.Sites[0].WebsiteURL)
	require.NotNil(t, payload.Sites[0].Score)
	assert.Equal(t, 75, *payload.Sites[0].Score)
	assert.Len(t, payload.Sites[0].Violations, 1)
	assert.Len(t, payload.Sites[0].Historical, 2)

	assert.Equal(t, "https://shop.example.com", payload.Sites[1].WebsiteURL)
	require.NotNil(t, payload.Sites[1].Score)
	assert.Equal(t, 85, *payload.Sites[1].Score)

	// Never-scanned site still gets a report with empty fields.
	assert.Equal(t, "https://blog.example.com", payload.Sites[2].WebsiteURL)
	assert.Nil(t, payload.Sites[2].Score)
	assert.Nil(t, payload.Sites[2].LastScan)
	assert.Empty(t, payload.Sites[2].Violations)
}

func TestAggregateFreePlanGetsNoSiteReports(t *testing.T) {
	customer := &models.Customer{
		ID:       "CUST001",
		Plan:     models.PlanFree,
		Websites: []string{"https://example.com", "https://shop.example.com"},
	}
	svc := newDashboardFixture([]*models.Customer{customer}, nil, &fakeScanStore{})

	payload, err := svc.Aggregate(context.Background(), dashboardIdentity("CUST001"))
	require.NoError(t, err)
	assert.Nil(t, payload.Sites)
}

func TestAggregateSingleSiteProfessionalGetsNoSiteReports(t *testing.T) {
	customer := &models.Customer{
		ID:       "CUST001",
		Plan:     models.PlanProfessional,
		Websites: []string{"https://example.com"},
	}
	svc := newDashboardFixture([]*models.Customer{customer}, nil, &fakeScanStore{})

	payload, err := svc.Aggregate(context.Background(), dashboardIdentity("CUST001"))
	require.NoError(t, err)
	assert.Nil(t, payload.Sites)
}

func twoDigits(i int) string {
	return fmt.Sprintf("%02d", i)
}
