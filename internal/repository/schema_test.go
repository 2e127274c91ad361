package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaHeaderWinsOverDefaults(t *testing.T) {
	defaults := map[string]int{"customer_id": 0, "api_token": 7}
	schema := newSheetSchema([]string{"api_token", "customer_id"}, defaults)

	assert.Equal(t, 1, schema.col("customer_id"))
	assert.Equal(t, 0, schema.col("api_token"))
}

func TestSchemaFallsBackToDefaults(t *testing.T) {
	defaults := map[string]int{"customer_id": 0, "api_token": 7}
	schema := newSheetSchema([]string{"unrelated"}, defaults)

	assert.Equal(t, 7, schema.col("api_token"))
	assert.Equal(t, -1, schema.col("never_defined"))
}

func TestSchemaNormalizesHeaderNames(t *testing.T) {
	schema := newSheetSchema([]string{" Customer ID ", "API-Token", "token issued at"}, nil)

	assert.Equal(t, 0, schema.col("customer_id"))
	assert.Equal(t, 1, schema.col("api_token"))
	assert.Equal(t, 2, schema.col("token_issued_at"))
}

func TestSchemaFirstDuplicateWins(t *testing.T) {
	schema := newSheetSchema([]string{"status", "status"}, nil)
	assert.Equal(t, 0, schema.col("status"))
}

func TestColumnLetter(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "A"},
		{3, "D"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, columnLetter(tt.index), "index %d", tt.index)
	}
}

func TestCellIsRaggedRowSafe(t *testing.T) {
	row := []string{"a", " b "}

	assert.Equal(t, "a", cell(row, 0))
	assert.Equal(t, "b", cell(row, 1))
	assert.Equal(t, "", cell(row, 5))
	assert.Equal(t, "", cell(row, -1))
}

func TestSplitAndJoinWebsites(t *testing.T) {
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"},
		splitWebsites(" https://a.example.com , https://b.example.com ,"))
	assert.Empty(t, splitWebsites(""))
	assert.Equal(t, "https://a.example.com,https://b.example.com",
		joinWebsites([]string{"https://a.example.com", "https://b.example.com"}))
}
