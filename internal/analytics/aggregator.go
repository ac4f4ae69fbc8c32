// Package analytics aligns normalized workbooks across reporting periods:
// per-metric series, per-channel series, and two-period deltas for the
// comparison views.
package analytics

import (
	"errors"
	"log/slog"
	"math"

	"finboard/internal/dataprocessing"
	"finboard/pkg/contracts/domain"
)

// ErrInsufficientPeriods is returned when a comparison is requested over
// fewer than two periods. The caller must block the comparison rather than
// attempt a one-sided one.
var ErrInsufficientPeriods = errors.New("at least two periods are required for comparison")

// Channels lists the sales channels in their fixed workbook column order;
// channel i reads column i+1 of a channel row.
var Channels = []string{
	"AMAZON.IN",
	"FLIPKART",
	"MYNTRA",
	"INDIAN ART VILLA.IN",
	"BULK DOMESTIC",
	"INDIAN ART VILLA.COM",
	"BULK EXPORT",
}

// PeriodValue is one point of an aligned metric series. OK=false means the
// value could not be derived for that period; it is rendered as a
// placeholder, never as zero.
type PeriodValue struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
	OK     bool    `json:"ok"`
}

// ChannelPoint is one point of a per-channel series. Missing channel/period
// combinations default to 0: a missing channel contribution charts as zero,
// unlike a missing KPI.
type ChannelPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// Aggregator produces aligned cross-period series from normalized workbooks.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator. A nil logger falls back to the
// default.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		logger: logger.With(slog.String("component", "aggregator")),
	}
}

// AlignMetric extracts one metric for every supplied period, preserving the
// caller's period order. The sheet is located by logical key so that
// month-stamped sheet names align across workbooks.
func (a *Aggregator) AlignMetric(periods []string, byPeriod map[string]domain.SheetData, metricLabel, sheetKey string, colIndex int) []PeriodValue {
	out := make([]PeriodValue, 0, len(periods))
	for _, p := range periods {
		pv := PeriodValue{Period: p}
		if sd, ok := byPeriod[p]; ok {
			sheet := dataprocessing.FindByShortKey(sd, sheetKey)
			pv.Value, pv.OK = dataprocessing.FindRowValue(sheet, metricLabel, colIndex)
		}
		out = append(out, pv)
	}
	return out
}

// AlignChannelSeries extracts a per-channel series for every supplied
// period from the row labelled rowLabel inside the sheet with the given
// logical key. Channel i reads column i+1. Missing values chart as 0.
func (a *Aggregator) AlignChannelSeries(periods []string, byPeriod map[string]domain.SheetData, sheetKey, rowLabel string, channels []string) map[string][]ChannelPoint {
	out := make(map[string][]ChannelPoint, len(channels))
	for ci, ch := range channels {
		series := make([]ChannelPoint, 0, len(periods))
		for _, p := range periods {
			point := ChannelPoint{Period: p}
			if sd, ok := byPeriod[p]; ok {
				sheet := dataprocessing.FindByShortKey(sd, sheetKey)
				if v, ok := dataprocessing.FindRowValue(sheet, rowLabel, ci+1); ok {
					point.Value = v
				}
			}
			series = append(series, point)
		}
		out[ch] = series
	}
	return out
}

// ComputeDelta returns the percent change from v1 to v0: (v0−v1)/|v1|·100.
// The delta is undefined (ok=false) when v1 is zero. Only meaningful when
// exactly two periods are being compared.
func ComputeDelta(v0, v1 float64) (float64, bool) {
	if v1 == 0 {
		return 0, false
	}
	return (v0 - v1) / math.Abs(v1) * 100, true
}
