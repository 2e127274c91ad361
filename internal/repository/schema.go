package repository

import (
	"strconv"
	"strings"
)

// sheetSchema resolves column positions from a sheet's header row. Earlier
// revisions of the spreadsheet moved columns between deployments (the
// customer token has lived in both column L and column P), so positional
// indexing is never trusted when a header is present: columns are located by
// normalized header name, with the documented default position as fallback.
type sheetSchema struct {
	byName   map[string]int
	defaults map[string]int
}

func newSheetSchema(header []string, defaults map[string]int) *sheetSchema {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		name := normalizeHeader(h)
		if name == "" {
			continue
		}
		if _, dup := byName[name]; !dup {
			byName[name] = i
		}
	}
	return &sheetSchema{byName: byName, defaults: defaults}
}

// col returns the resolved index for a logical column name, or -1 when the
// column exists in neither the header nor the defaults.
func (s *sheetSchema) col(name string) int {
	if i, ok := s.byName[name]; ok {
		return i
	}
	if i, ok := s.defaults[name]; ok {
		return i
	}
	return -1
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, "-", "_")
	return h
}

// cell returns row[i] trimmed, or "" when the row is shorter than i+1. Sheet
// rows are ragged: trailing empty cells are omitted by the API.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func cellInt(row []string, i int) int {
	v, err := strconv.Atoi(cell(row, i))
	if err != nil {
		return 0
	}
	return v
}

func cellFloat(row []string, i int) float64 {
	v, err := strconv.ParseFloat(cell(row, i), 64)
	if err != nil {
		return 0
	}
	return v
}

// columnLetter converts a zero-based column index to its A1 letter ("A",
// "Z", "AA", ...).
func columnLetter(i int) string {
	letter := ""
	for i >= 0 {
		letter = string(rune('A'+i%26)) + letter
		i = i/26 - 1
	}
	return letter
}

// splitWebsites parses the comma-joined website list cell, trimming each
// entry and dropping empties.
func splitWebsites(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// joinWebsites renders the list back into its single source-of-truth cell.
func joinWebsites(urls []string) string {
	return strings.Join(urls, ",")
}
