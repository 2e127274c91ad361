package repository

import (
	"context"
	"errors"

	"dashboard-service/internal/sheets"
)

// ErrNotFound is returned when no row matches a lookup.
var ErrNotFound = errors.New("record not found")

// RowStore is the subset of the sheets client the repositories need.
// Declared here so tests can supply an in-memory implementation.
type RowStore interface {
	ReadRange(ctx context.Context, a1Range string) ([][]string, error)
	UpdateRange(ctx context.Context, a1Range string, values [][]interface{}) error
	BatchUpdate(ctx context.Context, updates []sheets.ValueRange) error
}

// SheetNames holds the (configurable) tab names of the backing spreadsheet.
type SheetNames struct {
	Customers     string
	Subscriptions string
	ScanSummary   string
	Violations    string
	Config        string
}

// DefaultSheetNames matches the tab names of the production spreadsheet.
func DefaultSheetNames() SheetNames {
	return SheetNames{
		Customers:     "Customers",
		Subscriptions: "Subscriptions",
		ScanSummary:   "Scan Summary",
		Violations:    "Violations",
		Config:        "Config",
	}
}
