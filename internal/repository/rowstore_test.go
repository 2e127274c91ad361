package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"dashboard-service/internal/sheets"
)

// fakeRowStore is an in-memory RowStore keyed by sheet name. It understands
// the range shapes the repositories use: full-sheet reads ("A:Z", "A:B"),
// header reads ("1:1"), and single-cell updates ("D5").
type fakeRowStore struct {
	data    map[string][][]string
	readErr error
}

func newFakeRowStore() *fakeRowStore {
	return &fakeRowStore{data: make(map[string][][]string)}
}

func (f *fakeRowStore) setSheet(sheet string, rows [][]string) {
	f.data[sheet] = rows
}

func splitRange(a1Range string) (sheet, ref string) {
	parts := strings.SplitN(a1Range, "!", 2)
	sheet = strings.Trim(parts[0], "'")
	if len(parts) == 2 {
		ref = parts[1]
	}
	return sheet, ref
}

func (f *fakeRowStore) ReadRange(ctx context.Context, a1Range string) ([][]string, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	sheet, ref := splitRange(a1Range)
	rows := f.data[sheet]
	if ref == "1:1" {
		if len(rows) == 0 {
			return nil, nil
		}
		return rows[:1], nil
	}
	return rows, nil
}

func (f *fakeRowStore) UpdateRange(ctx context.Context, a1Range string, values [][]interface{}) error {
	sheet, ref := splitRange(a1Range)
	col, rowNum, err := parseCellRef(ref)
	if err != nil {
		return err
	}
	rows := f.data[sheet]
	if rowNum > len(rows) {
		return fmt.Errorf("row %d out of range for sheet %s", rowNum, sheet)
	}
	row := rows[rowNum-1]
	for col >= len(row) {
		row = append(row, "")
	}
	row[col] = fmt.Sprintf("%v", values[0][0])
	rows[rowNum-1] = row
	return nil
}

func (f *fakeRowStore) BatchUpdate(ctx context.Context, updates []sheets.ValueRange) error {
	for _, u := range updates {
		if err := f.UpdateRange(ctx, u.Range, u.Values); err != nil {
			return err
		}
	}
	return nil
}

// parseCellRef decodes a single-cell reference like "D5" into a zero-based
// column and one-based row.
func parseCellRef(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, fmt.Errorf("unsupported cell reference %q", ref)
	}
	row, err = strconv.Atoi(ref[i:])
	if err != nil {
		return 0, 0, fmt.Errorf("unsupported cell reference %q", ref)
	}
	return col - 1, row, nil
}
