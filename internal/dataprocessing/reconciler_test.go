package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"finboard/pkg/contracts/domain"
)

func TestShortKey(t *testing.T) {
	tests := []struct {
		name      string
		sheetName string
		want      string
	}{
		{name: "month stamp stripped", sheetName: "IAV P&L NOV 2025", want: "IAV P&L"},
		{name: "different month same key", sheetName: "IAV P&L FEB 2026", want: "IAV P&L"},
		{name: "lowercase stamp", sheetName: "alpha jan 2025", want: "alpha"},
		{name: "no stamp is identity", sheetName: "ORDERS SHEET", want: "ORDERS SHEET"},
		{name: "trailing space trimmed", sheetName: "STATEWISE SALE ", want: "STATEWISE SALE"},
		{name: "stamp only keeps original", sheetName: "NOV 2025", want: "NOV 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShortKey(tt.sheetName))
		})
	}
}

func TestShortKey_StableAcrossPeriods(t *testing.T) {
	// Two workbooks carrying the same logical sheet under different month
	// stamps must reconcile to one key.
	assert.Equal(t, ShortKey("ALPHA JAN 2025"), ShortKey("ALPHA FEB 2025"))
}

func TestFindByShortKey(t *testing.T) {
	sd := domain.SheetData{
		{Name: "% Sheet", Rows: []domain.Row{{text("Margin %")}}},
		{Name: "IAV P&L NOV 2025", Rows: []domain.Row{{text("Net Sale"), num(1000)}}},
	}

	t.Run("month-stamped sheet found by logical key", func(t *testing.T) {
		s := FindByShortKey(sd, "IAV P&L")
		assert.Equal(t, "IAV P&L NOV 2025", s.Name)
		assert.Len(t, s.Rows, 1)
	})

	t.Run("identity key found", func(t *testing.T) {
		s := FindByShortKey(sd, "% Sheet")
		assert.Equal(t, "% Sheet", s.Name)
	})

	t.Run("missing key yields empty sheet", func(t *testing.T) {
		s := FindByShortKey(sd, "STOCK VALUE")
		assert.Empty(t, s.Name)
		assert.Empty(t, s.Rows)
	})
}

func TestAllShortKeys(t *testing.T) {
	sd := domain.SheetData{
		{Name: "IAV P&L NOV 2025"},
		{Name: "% Sheet"},
		{Name: "IAV P&L DEC 2025"}, // duplicate logical key
		{Name: "ORDERS SHEET"},
	}

	assert.Equal(t, []string{"IAV P&L", "% Sheet", "ORDERS SHEET"}, AllShortKeys(sd))
}
