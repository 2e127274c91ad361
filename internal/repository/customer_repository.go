package repository

import (
	"context"
	"fmt"
	"time"

	"dashboard-service/internal/models"
	"dashboard-service/internal/sheets"
)

// customerDefaults documents the canonical Customers column order. The
// header row wins when present; these positions only apply to headerless
// exports.
var customerDefaults = map[string]int{
	"customer_id":     0,
	"email":           1,
	"company_name":    2,
	"websites":        3,
	"plan":            4,
	"scan_frequency":  5,
	"status":          6,
	"api_token":       7,
	"token_issued_at": 8,
}

type CustomerRepository struct {
	store RowStore
	sheet string
}

func NewCustomerRepository(store RowStore, sheet string) *CustomerRepository {
	return &CustomerRepository{store: store, sheet: sheet}
}

// readAll fetches the sheet and returns the resolved schema plus data rows.
// The header row is excluded from the data.
func (r *CustomerRepository) readAll(ctx context.Context) (*sheetSchema, [][]string, error) {
	rows, err := r.store.ReadRange(ctx, sheets.QuoteSheet(r.sheet)+"!A:Z")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read customers sheet: %w", err)
	}
	if len(rows) == 0 {
		return newSheetSchema(nil, customerDefaults), nil, nil
	}
	return newSheetSchema(rows[0], customerDefaults), rows[1:], nil
}

func (r *CustomerRepository) parse(schema *sheetSchema, row []string, rowNumber int) *models.Customer {
	c := &models.Customer{
		ID:            cell(row, schema.col("customer_id")),
		Email:         cell(row, schema.col("email")),
		CompanyName:   cell(row, schema.col("company_name")),
		Websites:      splitWebsites(cell(row, schema.col("websites"))),
		Plan:          cell(row, schema.col("plan")),
		ScanFrequency: cell(row, schema.col("scan_frequency")),
		Status:        cell(row, schema.col("status")),
		APIToken:      cell(row, schema.col("api_token")),
		RowNumber:     rowNumber,
	}
	if raw := cell(row, schema.col("token_issued_at")); raw != "" {
		c.TokenIssuedAt = parseTimestamp(raw)
	}
	return c
}

// GetByID retrieves the customer whose identifier matches exactly.
func (r *CustomerRepository) GetByID(ctx context.Context, customerID string) (*models.Customer, error) {
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

// GetByToken retrieves the customer whose on-file bearer token matches the
// supplied string exactly.
func (r *CustomerRepository) GetByToken(ctx context.Context, token string) (*models.Customer, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	schema, rows, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	tokenCol := schema.col("api_token")
	for i, row := range rows {
		if cell(row, tokenCol) == token {
			return r.parse(schema, row, i+2), nil
		}
	}
	return nil, ErrNotFound
}

// UpdateWebsites writes the comma-joined website list back to the single
// source-of-truth cell on the customer's row.
func (r *CustomerRepository) UpdateWebsites(ctx context.Context, customer *models.Customer, websites []string) error {
	if customer.RowNumber < 2 {
		return fmt.Errorf("customer %s has no sheet row", customer.ID)
	}

	header, err := r.store.ReadRange(ctx, sheets.QuoteSheet(r.sheet)+"!1:1")
	if err != nil {
		return fmt.Errorf("failed to read customers header: %w", err)
	}
	var headerRow []string
	if len(header) > 0 {
		headerRow = header[0]
	}
	schema := newSheetSchema(headerRow, customerDefaults)

	col := schema.col("websites")
	cellRange := fmt.Sprintf("%s!%s%d", sheets.QuoteSheet(r.sheet), columnLetter(col), customer.RowNumber)
	values := [][]interface{}{{joinWebsites(websites)}}
	if err := r.store.UpdateRange(ctx, cellRange, values); err != nil {
		return fmt.Errorf("failed to update websites for %s: %w", customer.ID, err)
	}
	return nil
}

// parseTimestamp accepts the formats the provisioning process has written
// over time: RFC3339 and the sheet-native "2006-01-02 15:04:05".
func parseTimestamp(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
