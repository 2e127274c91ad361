package repository

import (
	"context"
	"fmt"

	"dashboard-service/internal/sheets"
)

// SigningSecretKey is the Config sheet key holding the HMAC signing secret.
const SigningSecretKey = "jwt_secret"

// AppConfigRepository reads the key/value Config sheet. Operational
// configuration (the signing secret in particular) lives in the store, not
// in code or process environment.
type AppConfigRepository struct {
	store RowStore
	sheet string
}

func NewAppConfigRepository(store RowStore, sheet string) *AppConfigRepository {
	return &AppConfigRepository{store: store, sheet: sheet}
}

// Get returns the value for a config key, or ErrNotFound.
func (r *AppConfigRepository) Get(ctx context.Context, key string) (string, error) {
	rows, err := r.store.ReadRange(ctx, sheets.QuoteSheet(r.sheet)+"!A:B")
	if err != nil {
		return "", fmt.Errorf("failed to read config sheet: %w", err)
	}

	// The Config sheet may or may not carry a header row; a "key" header is
	// skipped, any other first row is treated as data.
	for i, row := range rows {
		k := cell(row, 0)
		if i == 0 && normalizeHeader(k) == "key" {
			continue
		}
		if k == key {
			if v := cell(row, 1); v != "" {
				return v, nil
			}
			return "", ErrNotFound
		}
	}
	return "", ErrNotFound
}
