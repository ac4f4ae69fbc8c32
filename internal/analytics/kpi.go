package analytics

import (
	"math"

	"finboard/internal/dataprocessing"
	"finboard/pkg/contracts/domain"
)

// Logical sheet keys of the tabs KPIs are read from.
const (
	SheetKeyPL     = "IAV P&L"
	SheetKeyPct    = "% Sheet"
	SheetKeyOrders = "ORDERS SHEET"
	SheetKeyStock  = "STOCK VALUE"
)

// Value formats a KPI renders with.
const (
	FormatINR     = "inr"
	FormatPercent = "pct"
	FormatCount   = "count"
)

// KPI is one scalar business metric. OK=false means the metric could not be
// derived from this workbook and renders as a dash.
type KPI struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	OK     bool    `json:"ok"`
	Format string  `json:"format"`
	Sub    string  `json:"sub,omitempty"`
}

// kpiDef binds a KPI label to its extractor. The catalogue is ordered the
// way the cards render.
type kpiDef struct {
	label   string
	format  string
	sub     string
	extract func(sd domain.SheetData) (float64, bool)
}

func netSales(sd domain.SheetData) (float64, bool) {
	return dataprocessing.FindRowValue(dataprocessing.FindByShortKey(sd, SheetKeyPL), "Net Sale", 1)
}

func totalCOGS(sd domain.SheetData) (float64, bool) {
	return dataprocessing.FindRowValue(dataprocessing.FindByShortKey(sd, SheetKeyPL), "Total COGS", 1)
}

func grossMargin(sd domain.SheetData) (float64, bool) {
	ns, nsOK := netSales(sd)
	cogs, cogsOK := totalCOGS(sd)
	// A zero on either side leaves the ratio meaningless for these reports,
	// so it is treated as underivable rather than computed.
	if !nsOK || !cogsOK || ns == 0 || cogs == 0 {
		return 0, false
	}
	return (ns - cogs) / ns, true
}

func totalOrders(sd domain.SheetData) (float64, bool) {
	return dataprocessing.FindRowValue(dataprocessing.FindByShortKey(sd, SheetKeyOrders), "TOTAL ORDERS", 1)
}

func returnRate(sd domain.SheetData) (float64, bool) {
	tot, totOK := totalOrders(sd)
	ret, retOK := dataprocessing.FindRowValue(dataprocessing.FindByShortKey(sd, SheetKeyOrders), "RETURN ORDERS", 1)
	if !totOK || !retOK || tot == 0 || ret == 0 {
		return 0, false
	}
	return ret / tot, true
}

func closingStock(sd domain.SheetData) (float64, bool) {
	return dataprocessing.FindRowValue(dataprocessing.FindByShortKey(sd, SheetKeyStock), "TOTAL STOCK VALUE AT COST", 2)
}

var kpiCatalogue = []kpiDef{
	{label: "Net Sales", format: FormatINR, sub: "Total across all channels", extract: netSales},
	{label: "Total COGS", format: FormatINR, sub: "Cost of goods sold", extract: totalCOGS},
	{label: "Gross Margin %", format: FormatPercent, sub: "(Net Sales − COGS) / Net Sales", extract: grossMargin},
	{label: "Total Orders", format: FormatCount, sub: "All channels", extract: totalOrders},
	{label: "Return Rate", format: FormatPercent, sub: "Returns / total orders", extract: returnRate},
	{label: "Closing Stock", format: FormatINR, sub: "At cost", extract: closingStock},
}

// Snapshot is the single-month dashboard view: KPI cards plus the
// per-channel sales and margin rows used by the charts.
type Snapshot struct {
	KPIs          []KPI              `json:"kpis"`
	ChannelSales  map[string]float64 `json:"channelSales"`
	ChannelMargin map[string]float64 `json:"channelMargin"`
}

// Snapshot derives the dashboard view for one normalized workbook.
func (a *Aggregator) Snapshot(sd domain.SheetData) Snapshot {
	snap := Snapshot{
		KPIs:          make([]KPI, 0, len(kpiCatalogue)),
		ChannelSales:  make(map[string]float64, len(Channels)),
		ChannelMargin: make(map[string]float64, len(Channels)),
	}
	for _, def := range kpiCatalogue {
		k := KPI{Label: def.label, Format: def.format, Sub: def.sub}
		k.Value, k.OK = def.extract(sd)
		snap.KPIs = append(snap.KPIs, k)
	}

	pct := dataprocessing.FindByShortKey(sd, SheetKeyPct)
	for ci, ch := range Channels {
		if v, ok := dataprocessing.FindRowValue(pct, "Sales (Rs.)", ci+1); ok {
			snap.ChannelSales[ch] = v
		} else {
			snap.ChannelSales[ch] = 0
		}
		if v, ok := dataprocessing.FindRowValue(pct, "Margin %", ci+1); ok {
			snap.ChannelMargin[ch] = roundMarginPct(v)
		} else {
			snap.ChannelMargin[ch] = 0
		}
	}
	return snap
}

// ComparisonKPI is one metric row of the cross-period comparison table.
// Delta is present only when exactly two periods were compared and both
// endpoint values were derivable with a non-zero base.
type ComparisonKPI struct {
	Label    string        `json:"label"`
	Format   string        `json:"format"`
	Values   []PeriodValue `json:"values"`
	DeltaPct *float64      `json:"deltaPct,omitempty"`
}

// TrendPoint is one period of the sales/COGS trend chart. Missing values
// chart as 0.
type TrendPoint struct {
	Period   string  `json:"period"`
	NetSales float64 `json:"netSales"`
	COGS     float64 `json:"cogs"`
}

// Comparison is the cross-period view: the KPI table, grouped channel
// series, and the month-over-month trend.
type Comparison struct {
	Periods       []string                  `json:"periods"`
	KPIs          []ComparisonKPI           `json:"kpis"`
	ChannelSales  map[string][]ChannelPoint `json:"channelSales"`
	ChannelMargin map[string][]ChannelPoint `json:"channelMargin"`
	Trend         []TrendPoint              `json:"trend"`
}

// Compare aligns N workbooks for cross-period comparison, preserving the
// caller's period order. Fewer than two periods is ErrInsufficientPeriods.
func (a *Aggregator) Compare(periods []string, byPeriod map[string]domain.SheetData) (Comparison, error) {
	if len(periods) < 2 {
		return Comparison{}, ErrInsufficientPeriods
	}

	cmp := Comparison{
		Periods: periods,
		KPIs:    make([]ComparisonKPI, 0, len(kpiCatalogue)),
	}

	for _, def := range kpiCatalogue {
		row := ComparisonKPI{Label: def.label, Format: def.format}
		for _, p := range periods {
			pv := PeriodValue{Period: p}
			if sd, ok := byPeriod[p]; ok {
				pv.Value, pv.OK = def.extract(sd)
			}
			row.Values = append(row.Values, pv)
		}
		if len(periods) == 2 && row.Values[0].OK && row.Values[1].OK {
			if d, ok := ComputeDelta(row.Values[0].Value, row.Values[1].Value); ok {
				row.DeltaPct = &d
			}
		}
		cmp.KPIs = append(cmp.KPIs, row)
	}

	cmp.ChannelSales = a.AlignChannelSeries(periods, byPeriod, SheetKeyPct, "Sales (Rs.)", Channels)
	cmp.ChannelMargin = a.AlignChannelSeries(periods, byPeriod, SheetKeyPct, "Margin %", Channels)
	for ch, series := range cmp.ChannelMargin {
		for i := range series {
			series[i].Value = roundMarginPct(series[i].Value)
		}
		cmp.ChannelMargin[ch] = series
	}

	for _, p := range periods {
		tp := TrendPoint{Period: p}
		if sd, ok := byPeriod[p]; ok {
			if v, ok := netSales(sd); ok {
				tp.NetSales = v
			}
			if v, ok := totalCOGS(sd); ok {
				tp.COGS = v
			}
		}
		cmp.Trend = append(cmp.Trend, tp)
	}

	return cmp, nil
}

// roundMarginPct converts a margin ratio to a percentage with one decimal,
// matching how the margin charts have always displayed it.
func roundMarginPct(ratio float64) float64 {
	return math.Round(ratio*1000) / 10
}
