package firms

import (
	"fmt"
	"slices"
	"strings"
)

// RequiredColumns lists the header names every input must declare.
var RequiredColumns = []string{
	ColState,
	ColCity,
	ColPracticeArea,
	ColFirmName,
	ColLatitude,
	ColLongitude,
}

// MissingColumnsError reports required columns absent from the input header.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required CSV columns: %s", strings.Join(e.Columns, ", "))
}

// MissingColumns returns the required columns not declared in header, in
// RequiredColumns order. Only header names are inspected; empty cells in
// individual rows are handled by the row skip rule.
func MissingColumns(header []string) []string {
	declared := make([]string, len(header))
	for i, h := range header {
		declared[i] = normalizeHeader(h)
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !slices.Contains(declared, col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// ValidateHeader returns a *MissingColumnsError when header lacks a required column.
func ValidateHeader(header []string) error {
	if missing := MissingColumns(header); len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

func normalizeHeader(h string) string {
	return strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
}
