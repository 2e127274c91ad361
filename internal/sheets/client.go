package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// ValueRange is one targeted write in a batch update.
type ValueRange struct {
	Range  string
	Values [][]interface{}
}

// Config holds the connection settings for the backing spreadsheet.
type Config struct {
	SpreadsheetID   string
	CredentialsFile string
	CredentialsJSON []byte
}

// Client wraps the Google Sheets API for the row store. All reads are
// range-based; writes address single cells or rows in A1 notation.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	logger        *logrus.Entry
}

// NewClient creates a Sheets client. Credentials resolve in order: explicit
// JSON, key file, then application default credentials.
func NewClient(ctx context.Context, cfg *Config, logger *logrus.Logger) (*Client, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet ID is required")
	}

	var opts []option.ClientOption
	opts = append(opts, option.WithScopes(sheetsapi.SpreadsheetsScope))
	if len(cfg.CredentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	} else if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger.WithField("component", "sheets.client"),
	}, nil
}

// ReadRange returns all rows in the A1 range, each cell coerced to string.
// Trailing empty cells are not padded; callers index defensively.
func (c *Client) ReadRange(ctx context.Context, a1Range string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, a1Range).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", a1Range, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprintf("%v", cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// UpdateRange overwrites the cells in the A1 range with the given values.
func (c *Client) UpdateRange(ctx context.Context, a1Range string, values [][]interface{}) error {
	body := &sheetsapi.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, a1Range, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update range %s: %w", a1Range, err)
	}
	return nil
}

// BatchUpdate applies several targeted writes in one API call.
func (c *Client) BatchUpdate(ctx context.Context, updates []ValueRange) error {
	if len(updates) == 0 {
		return nil
	}

	data := make([]*sheetsapi.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheetsapi.ValueRange{Range: u.Range, Values: u.Values})
	}

	req := &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}
	_, err := c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to batch update %d ranges: %w", len(updates), err)
	}
	return nil
}

// QuoteSheet wraps a sheet name in single quotes when A1 notation requires
// it (names containing spaces, e.g. "Scan Summary").
func QuoteSheet(name string) string {
	if strings.ContainsAny(name, " !'") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}
