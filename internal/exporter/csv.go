package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"finboard/pkg/contracts/domain"
)

// CSVOptions configures sheet CSV export.
type CSVOptions struct {
	// BOMPrefix writes a UTF-8 BOM so Excel recognizes the encoding.
	BOMPrefix bool
	// Raw emits unformatted values (numbers as plain decimals) instead of
	// display formatting.
	Raw bool
}

// WriteSheetCSV streams one normalized sheet as CSV. Rows are padded to the
// sheet width so every record has the same column count.
func WriteSheetCSV(w io.Writer, sheet domain.Sheet, options CSVOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	width := sheet.Width()

	for i, row := range sheet.Rows {
		record := make([]string, width)
		for col := 0; col < width; col++ {
			cell := row.Cell(col)
			if options.Raw {
				record[col] = rawCellString(cell)
			} else {
				record[col] = FormatCell(cell).Text
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func rawCellString(c domain.Cell) string {
	switch c.Kind {
	case domain.CellText:
		return c.Text
	case domain.CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case domain.CellDate:
		return c.Date.Format("2006-01-02")
	case domain.CellBool:
		return strconv.FormatBool(c.Bool)
	default:
		return ""
	}
}
