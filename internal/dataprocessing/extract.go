package dataprocessing

import (
	"strings"

	"finboard/pkg/contracts/domain"
)

// FindRow locates the first row whose label contains searchText,
// case-insensitively, scanning in row order. The second return is false when
// no row matches.
func FindRow(sheet domain.Sheet, searchText string) (domain.Row, bool) {
	needle := strings.ToLower(strings.TrimSpace(searchText))
	for _, row := range sheet.Rows {
		label := strings.ToLower(row.Label())
		if label != "" && strings.Contains(label, needle) {
			return row, true
		}
	}
	return nil, false
}

// FindRowValue resolves a numeric KPI: locate the row via FindRow and read
// the cell at colIndex. The value is absent (ok=false) when the row is not
// found, the cell is empty, the cell is a formula-error sentinel, or the
// cell is any non-numeric kind. Text that merely looks numeric is not
// coerced; zero is a legitimate business value and is only ever returned
// with ok=true.
func FindRowValue(sheet domain.Sheet, searchText string, colIndex int) (float64, bool) {
	row, found := FindRow(sheet, searchText)
	if !found {
		return 0, false
	}
	cell := row.Cell(colIndex)
	if cell.IsEmpty() || cell.IsErrSentinel() {
		return 0, false
	}
	if cell.Kind != domain.CellNumber {
		return 0, false
	}
	return cell.Number, true
}
