package repository

import (
	"context"
	"fmt"

	"dashboard-service/internal/models"
	"dashboard-service/internal/sheets"
)

var subscriptionDefaults = map[string]int{
	"customer_id":          0,
	"billing_reference":    1,
	"plan":                 2,
	"status":               3,
	"current_period_start": 4,
	"current_period_end":   5,
	"amount":               6,
	"created_date":         7,
	"cancelled_date":       8,
}

type SubscriptionRepository struct {
	store RowStore
	sheet string
}

func NewSubscriptionRepository(store RowStore, sheet string) *SubscriptionRepository {
	return &SubscriptionRepository{store: store, sheet: sheet}
}

func (r *SubscriptionRepository) readAll(ctx context.Context) (*sheetSchema, [][]string, error) {
	rows, err := r.store.ReadRange(ctx, sheets.QuoteSheet(r.sheet)+"!A:Z")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read subscriptions sheet: %w", err)
	}
	if len(rows) == 0 {
		return newSheetSchema(nil, subscriptionDefaults), nil, nil
	}
	return newSheetSchema(rows[0], subscriptionDefaults), rows[1:], nil
}

func (r *SubscriptionRepository) parse(schema *sheetSchema, row []string, rowNumber int) *models.Subscription {
	return &models.Subscription{
		CustomerID:         cell(row, schema.col("customer_id")),
		BillingReference:   cell(row, schema.col("billing_reference")),
		Plan:               cell(row, schema.col("plan")),
		Status:             cell(row, schema.col("status")),
		CurrentPeriodStart: cell(row, schema.col("current_period_start")),
		CurrentPeriodEnd:   cell(row, schema.col("current_period_end")),
		Amount:             cellFloat(row, schema.col("amount")),
		CreatedDate:        cell(row, schema.col("created_date")),
		CancelledDate:      cell(row, schema.col("cancelled_date")),
		RowNumber:          rowNumber,
	}
}

// GetByCustomerID retrieves the customer's subscription (one-to-one).
func (r *SubscriptionRepository) GetByCustomerID(ctx context.Context, customerID string) (*models.Subscription, error) {
	schema, rows, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	idCol := schema.col("customer_id")
	for i, row := range rows {
		if cell(row, idCol) == customerID {
			return r.parse(schema, row, i+2), nil
		}
	}
	return nil, ErrNotFound
}

// Cancel writes status and cancelled_date on the subscription row in one
// batch update.
func (r *SubscriptionRepository) Cancel(ctx context.Context, sub *models.Subscription, cancelledDate string) error {
	if sub.RowNumber < 2 {
		return fmt.Errorf("subscription for %s has no sheet row", sub.CustomerID)
	}

	header, err := r.store.ReadRange(ctx, sheets.QuoteSheet(r.sheet)+"!1:1")
	if err != nil {
		return fmt.Errorf("failed to read subscriptions header: %w", err)
	}
	var headerRow []string
	if len(header) > 0 {
		headerRow = header[0]
	}
	schema := newSheetSchema(headerRow, subscriptionDefaults)

	quoted := sheets.QuoteSheet(r.sheet)
	updates := []sheets.ValueRange{
		{
			Range:  fmt.Sprintf("%s!%s%d", quoted, columnLetter(schema.col("status")), sub.RowNumber),
			Values: [][]interface{}{{models.SubscriptionCancelled}},
		},
		{
			Range:  fmt.Sprintf("%s!%s%d", quoted, columnLetter(schema.col("cancelled_date")), sub.RowNumber),
			Values: [][]interface{}{{cancelledDate}},
		},
	}
	if err := r.store.BatchUpdate(ctx, updates); err != nil {
		return fmt.Errorf("failed to cancel subscription for %s: %w", sub.CustomerID, err)
	}
	return nil
}
