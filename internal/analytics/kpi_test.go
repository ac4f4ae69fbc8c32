package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/pkg/contracts/domain"
)

func kpiByLabel(t *testing.T, kpis []KPI, label string) KPI {
	t.Helper()
	for _, k := range kpis {
		if k.Label == label {
			return k
		}
	}
	t.Fatalf("kpi %q not found", label)
	return KPI{}
}

func TestSnapshot_BasicKPIs(t *testing.T) {
	agg := NewAggregator(nil)

	sd := domain.SheetData{
		{Name: "IAV P&L NOV 2025", Rows: []domain.Row{
			{text("Net Sale"), num(1000000), num(250000)},
			{text("Total COGS"), num(400000)},
		}},
		{Name: "ORDERS SHEET", Rows: []domain.Row{
			{text("TOTAL ORDERS"), num(900)},
			{text("RETURN ORDERS"), num(45)},
		}},
		{Name: "STOCK VALUE", Rows: []domain.Row{
			{text("TOTAL STOCK VALUE AT COST"), num(0), num(7500000)},
		}},
	}

	snap := agg.Snapshot(sd)

	ns := kpiByLabel(t, snap.KPIs, "Net Sales")
	require.True(t, ns.OK)
	assert.Equal(t, 1000000.0, ns.Value)

	gm := kpiByLabel(t, snap.KPIs, "Gross Margin %")
	require.True(t, gm.OK)
	assert.InDelta(t, 0.6, gm.Value, 1e-9)

	rr := kpiByLabel(t, snap.KPIs, "Return Rate")
	require.True(t, rr.OK)
	assert.InDelta(t, 0.05, rr.Value, 1e-9)

	cs := kpiByLabel(t, snap.KPIs, "Closing Stock")
	require.True(t, cs.OK)
	assert.Equal(t, 7500000.0, cs.Value)
}

func TestSnapshot_MissingKPIPropagatesAbsence(t *testing.T) {
	agg := NewAggregator(nil)

	// P&L has Net Sale but no Total COGS row anywhere.
	sd := domain.SheetData{
		{Name: "IAV P&L NOV 2025", Rows: []domain.Row{
			{text("Net Sale"), num(1000000)},
		}},
	}

	snap := agg.Snapshot(sd)

	assert.True(t, kpiByLabel(t, snap.KPIs, "Net Sales").OK)
	assert.False(t, kpiByLabel(t, snap.KPIs, "Total COGS").OK)
	// Gross margin depends on COGS; it must be absent, not a
	// divide-by-zero artifact.
	assert.False(t, kpiByLabel(t, snap.KPIs, "Gross Margin %").OK)
	assert.False(t, kpiByLabel(t, snap.KPIs, "Total Orders").OK)
}

func TestCompare_TwoPeriodDelta(t *testing.T) {
	agg := NewAggregator(nil)

	byPeriod := map[string]domain.SheetData{
		"2025-11": workbookFor("NOV 2025", 1100000, 450000, nil),
		"2025-10": workbookFor("OCT 2025", 1000000, 400000, nil),
	}

	cmp, err := agg.Compare([]string{"2025-11", "2025-10"}, byPeriod)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-11", "2025-10"}, cmp.Periods)

	var nsRow ComparisonKPI
	for _, row := range cmp.KPIs {
		if row.Label == "Net Sales" {
			nsRow = row
		}
	}
	require.Len(t, nsRow.Values, 2)
	require.NotNil(t, nsRow.DeltaPct)
	assert.InDelta(t, 10.0, *nsRow.DeltaPct, 1e-9)

	require.Len(t, cmp.Trend, 2)
	assert.Equal(t, 1100000.0, cmp.Trend[0].NetSales)
	assert.Equal(t, 400000.0, cmp.Trend[1].COGS)
}

func TestCompare_NoDeltaForMoreThanTwoPeriods(t *testing.T) {
	agg := NewAggregator(nil)

	byPeriod := map[string]domain.SheetData{
		"2025-09": workbookFor("SEP 2025", 900000, 380000, nil),
		"2025-10": workbookFor("OCT 2025", 1000000, 400000, nil),
		"2025-11": workbookFor("NOV 2025", 1100000, 450000, nil),
	}

	cmp, err := agg.Compare([]string{"2025-09", "2025-10", "2025-11"}, byPeriod)
	require.NoError(t, err)
	for _, row := range cmp.KPIs {
		assert.Nil(t, row.DeltaPct, "delta only applies to two-period compares")
	}
}

func TestCompare_InsufficientPeriods(t *testing.T) {
	agg := NewAggregator(nil)

	byPeriod := map[string]domain.SheetData{
		"2025-11": workbookFor("NOV 2025", 1100000, 450000, nil),
	}

	_, err := agg.Compare([]string{"2025-11"}, byPeriod)
	assert.ErrorIs(t, err, ErrInsufficientPeriods)

	_, err = agg.Compare(nil, byPeriod)
	assert.ErrorIs(t, err, ErrInsufficientPeriods)
}

func TestCompare_AbsentEndpointSuppressesDelta(t *testing.T) {
	agg := NewAggregator(nil)

	// October workbook has no P&L sheet at all.
	byPeriod := map[string]domain.SheetData{
		"2025-11": workbookFor("NOV 2025", 1100000, 450000, nil),
		"2025-10": {{Name: "% Sheet"}},
	}

	cmp, err := agg.Compare([]string{"2025-11", "2025-10"}, byPeriod)
	require.NoError(t, err)
	for _, row := range cmp.KPIs {
		assert.Nil(t, row.DeltaPct)
	}
}
