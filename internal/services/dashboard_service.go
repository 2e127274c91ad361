package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"dashboard-service/internal/models"
	"dashboard-service/internal/repository"
)

// historyLength is the size of the dashboard trend series.
const historyLength = 10

// DashboardService joins customer, subscription, scan, and violation rows
// into the single dashboard payload. Missing subscriptions, scans, or
// violations degrade to null/empty fields; only identity resolution and
// row-store failures are errors.
type DashboardService struct {
	customers     CustomerStore
	subscriptions SubscriptionStore
	scans         ScanStore
	logger        *logrus.Entry
}

func NewDashboardService(customers CustomerStore, subscriptions SubscriptionStore, scans ScanStore, logger *logrus.Logger) *DashboardService {
	if logger == nil {
		logger = logrus.New()
	}
	return &DashboardService{
		customers:     customers,
		subscriptions: subscriptions,
		scans:         scans,
		logger:        logger.WithField("component", "services.dashboard"),
	}
}

// Aggregate builds the dashboard payload for an authenticated identity.
// Repeated calls with no intervening mutation produce identical payloads:
// scan ordering is deterministic (date, then scan ID).
func (s *DashboardService) Aggregate(ctx context.Context, identity *models.Identity) (*models.DashboardPayload, error) {
	customer, err := s.customers.GetByID(ctx, identity.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	subscription, err := s.subscriptions.GetByCustomerID(ctx, customer.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	scans, err := s.scans.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scans: %w", err)
	}
	sortScans(scans)

	payload := &models.DashboardPayload{
		Customer:     customer,
		Subscription: subscription,
		Violations:   []models.Violation{},
		Historical:   []models.HistoricalPoint{},
	}

	if len(scans) > 0 {
		latest := scans[len(scans)-1]
		payload.LastScan = &latest
		score := latest.ComplianceScore
		payload.Score = &score
		payload.Historical = historicalSeries(scans)

		violations, err := s.scans.ListViolationsByScan(ctx, latest.ScanID)
		if err != nil {
			return nil, fmt.Errorf("failed to load violations: %w", err)
		}
		if violations != nil {
			payload.Violations = violations
		}
	}

	if customer.IsProfessional() && len(customer.Websites) > 1 {
		sites, err := s.siteReports(ctx, customer, scans)
		if err != nil {
			return nil, err
		}
		payload.Sites = sites
	}

	return payload, nil
}

// siteReports repeats the scan/violation/historical join per monitored URL,
// keyed by exact URL string match.
func (s *DashboardService) siteReports(ctx context.Context, customer *models.Customer, scans []models.ScanSummary) ([]models.SiteReport, error) {
	reports := make([]models.SiteReport, 0, len(customer.Websites))
	for _, url := range customer.Websites {
		var siteScans []models.ScanSummary
		for _, scan := range scans {
			if scan.WebsiteURL == url {
				siteScans = append(siteScans, scan)
			}
		}

		report := models.SiteReport{
			WebsiteURL: url,
			Violations: []models.Violation{},
			Historical: []models.HistoricalPoint{},
		}
		if len(siteScans) > 0 {
			latest := siteScans[len(siteScans)-1]
			report.LastScan = &latest
			score := latest.ComplianceScore
			report.Score = &score
			report.Historical = historicalSeries(siteScans)

			violations, err := s.scans.ListViolationsByScan(ctx, latest.ScanID)
			if err != nil {
				return nil, fmt.Errorf("failed to load violations for %s: %w", url, err)
			}
			if violations != nil {
				report.Violations = violations
			}
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// sortScans orders scans by scan date ascending; ties break by scan ID so
// the ordering is total.
func sortScans(scans []models.ScanSummary) {
	sort.SliceStable(scans, func(i, j int) bool {
		ti, okI := parseScanDate(scans[i].ScanDate)
		tj, okJ := parseScanDate(scans[j].ScanDate)
		switch {
		case okI && okJ && !ti.Equal(tj):
			return ti.Before(tj)
		case okI != okJ:
			// Unparseable dates sort first so real data wins "most recent".
			return !okI
		case scans[i].ScanDate != scans[j].ScanDate:
			return scans[i].ScanDate < scans[j].ScanDate
		default:
			return scans[i].ScanID < scans[j].ScanID
		}
	})
}

// historicalSeries returns the last historyLength scans as (date, score)
// pairs ordered oldest to newest.
func historicalSeries(scans []models.ScanSummary) []models.HistoricalPoint {
	start := 0
	if len(scans) > historyLength {
		start = len(scans) - historyLength
	}
	points := make([]models.HistoricalPoint, 0, len(scans)-start)
	for _, scan := range scans[start:] {
		points = append(points, models.HistoricalPoint{
			Date:  scan.ScanDate,
			Score: scan.ComplianceScore,
		})
	}
	return points
}

func parseScanDate(raw string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "01/02/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
