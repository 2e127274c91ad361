package repository

import (
	"context"
	"fmt"
	"strings"

	"dashboard-service/internal/models"
	"dashboard-service/internal/sheets"
)

var scanDefaults = map[string]int{
	"scan_id":          0,
	"customer_id":      1,
	"website_url":      2,
	"pages_scanned":    3,
	"compliance_score": 4,
	"critical_count":   5,
	"serious_count":    6,
	"moderate_count":   7,
	"minor_count":      8,
	"scan_date":        9,
	"duration":         10,
	"status":           11,
	"ai_analysis":      12,
}

var violationDefaults = map[string]int{
	"violation_id":  0,
	"scan_id":       1,
	"rule_id":       2,
	"impact":        3,
	"description":   4,
	"selector":      5,
	"help_url":      6,
	"status":        7,
	"detected_date": 8,
	"fixed_date":    9,
}

// ScanRepository reads the scanner-written Scan Summary and Violations
// sheets. Both are read-only to this service.
type ScanRepository struct {
	store           RowStore
	scanSheet       string
	violationsSheet string
}

func NewScanRepository(store RowStore, scanSheet, violationsSheet string) *ScanRepository {
	return &ScanRepository{store: store, scanSheet: scanSheet, violationsSheet: violationsSheet}
}

// ListByCustomer returns every scan recorded for the customer, in sheet
// order. Ordering guarantees are the aggregator's concern.
func (r *ScanRepository) ListByCustomer(ctx context.Context, customerID string) ([]models.ScanSummary, error) {
	rows, err := r.store.ReadRange(ctx, sheets.QuoteSheet(r.scanSheet)+"!A:Z")
	if err != nil {
		return nil, fmt.Errorf("failed to read scan summary sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	schema := newSheetSchema(rows[0], scanDefaults)
	idCol := schema.col("customer_id")

	var scans []models.ScanSummary
	for _, row := range rows[1:] {
		if cell(row, idCol) != customerID {
			continue
		}
		scans = append(scans, models.ScanSummary{
			ScanID:          cell(row, schema.col("scan_id")),
			CustomerID:      cell(row, schema.col("customer_id")),
			WebsiteURL:      cell(row, schema.col("website_url")),
			PagesScanned:    cellInt(row, schema.col("pages_scanned")),
			ComplianceScore: cellInt(row, schema.col("compliance_score")),
			CriticalCount:   cellInt(row, schema.col("critical_count")),
			SeriousCount:    cellInt(row, schema.col("serious_count")),
			ModerateCount:   cellInt(row, schema.col("moderate_count")),
			MinorCount:      cellInt(row, schema.col("minor_count")),
			ScanDate:        cell(row, schema.col("scan_date")),
			Duration:        cell(row, schema.col("duration")),
			Status:          cell(row, schema.col("status")),
			AIAnalysis:      cell(row, schema.col("ai_analysis")),
		})
	}
	return scans, nil
}

// ListViolationsByScan returns the violations recorded for one scan.
// Upstream data entry is not type-consistent (numeric scan IDs appear both
// quoted and unquoted), so the match trims whitespace and compares the
// string forms.
func (r *ScanRepository) ListViolationsByScan(ctx context.Context, scanID string) ([]models.Violation, error) {
	rows, err := r.store.ReadRange(ctx, sheets.QuoteSheet(r.violationsSheet)+"!A:Z")
	if err != nil {
		return nil, fmt.Errorf("failed to read violations sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	schema := newSheetSchema(rows[0], violationDefaults)
	scanCol := schema.col("scan_id")
	want := strings.TrimSpace(scanID)

	var violations []models.Violation
	for _, row := range rows[1:] {
		if strings.TrimSpace(cell(row, scanCol)) != want {
			continue
		}
		violations = append(violations, models.Violation{
			ViolationID:  cell(row, schema.col("violation_id")),
			ScanID:       cell(row, schema.col("scan_id")),
			RuleID:       cell(row, schema.col("rule_id")),
			Impact:       cell(row, schema.col("impact")),
			Description:  cell(row, schema.col("description")),
			Selector:     cell(row, schema.col("selector")),
			HelpURL:      cell(row, schema.col("help_url")),
			Status:       cell(row, schema.col("status")),
			DetectedDate: cell(row, schema.col("detected_date")),
			FixedDate:    cell(row, schema.col("fixed_date")),
		})
	}
	return violations, nil
}
