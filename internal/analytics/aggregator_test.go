package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/pkg/contracts/domain"
)

func text(s string) domain.Cell { return domain.NewText(s) }
func num(f float64) domain.Cell { return domain.NewNumber(f) }

// workbookFor builds a minimal normalized workbook with the given net sales,
// COGS and channel sales figures.
func workbookFor(stamp string, netSale, cogs float64, channelSales []float64) domain.SheetData {
	salesRow := domain.Row{text("Sales (Rs.)")}
	marginRow := domain.Row{text("Margin %")}
	for _, v := range channelSales {
		salesRow = append(salesRow, num(v))
		marginRow = append(marginRow, num(0.25))
	}
	return domain.SheetData{
		{Name: "IAV P&L " + stamp, Rows: []domain.Row{
			{text("Net Sale"), num(netSale)},
			{text("Total COGS"), num(cogs)},
		}},
		{Name: "% Sheet", Rows: []domain.Row{salesRow, marginRow}},
	}
}

func TestAlignMetric(t *testing.T) {
	agg := NewAggregator(nil)

	byPeriod := map[string]domain.SheetData{
		"2025-10": workbookFor("OCT 2025", 1000000, 400000, nil),
		"2025-11": workbookFor("NOV 2025", 1100000, 420000, nil),
	}
	periods := []string{"2025-11", "2025-10"} // caller order, not sorted

	got := agg.AlignMetric(periods, byPeriod, "Net Sale", SheetKeyPL, 1)

	require.Len(t, got, 2)
	assert.Equal(t, PeriodValue{Period: "2025-11", Value: 1100000, OK: true}, got[0])
	assert.Equal(t, PeriodValue{Period: "2025-10", Value: 1000000, OK: true}, got[1])
}

func TestAlignMetric_MissingPeriodIsAbsent(t *testing.T) {
	agg := NewAggregator(nil)

	byPeriod := map[string]domain.SheetData{
		"2025-11": workbookFor("NOV 2025", 1100000, 420000, nil),
	}
	got := agg.AlignMetric([]string{"2025-11", "2025-12"}, byPeriod, "Net Sale", SheetKeyPL, 1)

	require.Len(t, got, 2)
	assert.True(t, got[0].OK)
	assert.False(t, got[1].OK, "period without a workbook must be absent, not zero")
}

func TestAlignChannelSeries_DefaultsToZero(t *testing.T) {
	agg := NewAggregator(nil)

	byPeriod := map[string]domain.SheetData{
		"2025-10": workbookFor("OCT 2025", 1, 1, []float64{500, 300}),
		// 2025-11 carries no % Sheet values at all
		"2025-11": {{Name: "IAV P&L NOV 2025"}},
	}
	periods := []string{"2025-10", "2025-11"}

	got := agg.AlignChannelSeries(periods, byPeriod, SheetKeyPct, "Sales (Rs.)", Channels[:2])

	require.Len(t, got, 2)
	assert.Equal(t, []ChannelPoint{{Period: "2025-10", Value: 500}, {Period: "2025-11", Value: 0}}, got["AMAZON.IN"])
	assert.Equal(t, []ChannelPoint{{Period: "2025-10", Value: 300}, {Period: "2025-11", Value: 0}}, got["FLIPKART"])
}

func TestComputeDelta(t *testing.T) {
	tests := []struct {
		name   string
		v0, v1 float64
		want   float64
		wantOK bool
	}{
		{name: "ten percent up", v0: 1100000, v1: 1000000, want: 10.0, wantOK: true},
		{name: "decline", v0: 900, v1: 1000, want: -10.0, wantOK: true},
		{name: "negative base uses magnitude", v0: -50, v1: -100, want: 50.0, wantOK: true},
		{name: "zero base undefined", v0: 100, v1: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeDelta(tt.v0, tt.v1)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}
