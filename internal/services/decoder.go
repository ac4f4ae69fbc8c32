package services

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"finboard/internal/dataprocessing"
	"finboard/pkg/contracts/domain"
)

// DecodeWorkbook reads an xlsx file and extracts every sheet into the raw
// grid model. Cell types are carried through untouched: text stays text
// even when it looks numeric, and spreadsheet error values such as
// "#DIV/0!" surface as text so downstream extraction can skip them.
func DecodeWorkbook(data []byte) (dataprocessing.RawWorkbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkbookUnreadable, err)
	}
	defer f.Close()

	sheetNames := f.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, fmt.Errorf("%w: file contains no sheets", ErrWorkbookUnreadable)
	}

	var raw dataprocessing.RawWorkbook
	for _, name := range sheetNames {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read sheet %q: %v", ErrWorkbookUnreadable, name, err)
		}

		grid := make([]domain.Row, len(rows))
		for r, cols := range rows {
			row := make(domain.Row, len(cols))
			for c, rawValue := range cols {
				row[c] = decodeCell(f, name, r, c, rawValue)
			}
			grid[r] = row
		}

		raw = append(raw, dataprocessing.RawSheet{Name: name, Grid: grid})
	}

	return raw, nil
}

func decodeCell(f *excelize.File, sheet string, rowIdx, colIdx int, raw string) domain.Cell {
	if strings.TrimSpace(raw) == "" {
		return domain.Empty()
	}

	axis, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
	if err != nil {
		return domain.NewText(raw)
	}

	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		cellType = excelize.CellTypeUnset
	}

	switch cellType {
	case excelize.CellTypeBool:
		return domain.NewBool(raw == "1" || strings.EqualFold(raw, "true"))

	case excelize.CellTypeDate:
		serial, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.NewText(raw)
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return domain.NewText(raw)
		}
		return domain.NewDate(t)

	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		// error values like #DIV/0! stay textual on purpose
		return domain.NewText(raw)

	default:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return domain.NewNumber(n)
		}
		return domain.NewText(raw)
	}
}
