package exporter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"finboard/pkg/contracts/domain"
)

// Dash is the placeholder rendered for values that cannot be derived.
const Dash = "—"

// CellDisplay is a render-ready cell: the display text plus a class the UI
// maps to styling ("err", "pct", "neg", "pos" or empty).
type CellDisplay struct {
	Text  string `json:"text"`
	Class string `json:"class,omitempty"`
}

// FormatCell renders one cell for tabular display. Formula-error sentinels
// become a dash tagged "err"; dates render as Mon-YYYY; small non-integer
// numbers with long fractions render as percentages; large magnitudes render
// as rupee amounts with Indian digit grouping.
func FormatCell(c domain.Cell) CellDisplay {
	if c.IsEmpty() {
		return CellDisplay{}
	}

	switch c.Kind {
	case domain.CellText:
		if c.IsErrSentinel() {
			return CellDisplay{Text: Dash, Class: "err"}
		}
		return CellDisplay{Text: c.Text}

	case domain.CellDate:
		return CellDisplay{Text: c.Date.Format("Jan-2006")}

	case domain.CellBool:
		if c.Bool {
			return CellDisplay{Text: "true"}
		}
		return CellDisplay{Text: "false"}

	case domain.CellNumber:
		return formatNumber(c.Number)

	default:
		return CellDisplay{}
	}
}

func formatNumber(v float64) CellDisplay {
	if looksLikeRatio(v) {
		return CellDisplay{Text: fmt.Sprintf("%.2f%%", v*100), Class: "pct"}
	}

	sign := ""
	class := ""
	switch {
	case v < 0:
		class = "neg"
	case v > 0:
		class = "pos"
	}

	if math.Abs(v) >= 100 {
		if v < 0 {
			sign = "-₹"
		} else {
			sign = "₹"
		}
		return CellDisplay{Text: sign + groupINR(math.Abs(v), 2), Class: class}
	}
	if v < 0 {
		return CellDisplay{Text: "-" + groupINR(math.Abs(v), 2), Class: class}
	}
	return CellDisplay{Text: groupINR(v, 2), Class: class}
}

// looksLikeRatio reports whether a raw number is really a percentage ratio:
// small magnitude, non-zero, non-integer, with more than three significant
// fraction digits. Tuned to how the % sheets store their ratios.
func looksLikeRatio(v float64) bool {
	if v == 0 || math.Abs(v) > 2 {
		return false
	}
	if v == math.Trunc(v) {
		return false
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	_, frac, found := strings.Cut(s, ".")
	return found && len(frac) > 3
}

// FormatINR renders a rupee amount for the KPI cards, compressing to lakh
// and crore units. Underivable values render as a dash.
func FormatINR(v float64, ok bool) string {
	if !ok || math.IsNaN(v) {
		return Dash
	}
	abs := math.Abs(v)
	var s string
	switch {
	case abs >= 1e7:
		s = fmt.Sprintf("%.2f Cr", v/1e7)
	case abs >= 1e5:
		s = fmt.Sprintf("%.2f L", v/1e5)
	default:
		s = groupINR(abs, 0)
	}
	s = strings.TrimPrefix(s, "-")
	if v < 0 {
		return "-₹" + s
	}
	return "₹" + s
}

// FormatPercent renders a ratio as a percentage with one decimal.
func FormatPercent(v float64, ok bool) string {
	if !ok || math.IsNaN(v) {
		return Dash
	}
	return fmt.Sprintf("%.1f%%", v*100)
}

// FormatCount renders an order-count style value with Indian grouping.
func FormatCount(v float64, ok bool) string {
	if !ok || math.IsNaN(v) {
		return Dash
	}
	return groupINR(v, 0)
}

// groupINR formats a non-negative number with Indian digit grouping
// (12,34,567) and at most maxFrac fraction digits, trailing zeros trimmed.
func groupINR(v float64, maxFrac int) string {
	scale := math.Pow(10, float64(maxFrac))
	rounded := math.Round(v*scale) / scale
	s := strconv.FormatFloat(rounded, 'f', -1, 64)

	intPart, frac, hasFrac := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	// The last three digits group together; every two digits after that.
	if len(intPart) > 3 {
		head := intPart[:len(intPart)-3]
		tail := intPart[len(intPart)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		intPart = strings.Join(append(groups, tail), ",")
	}

	out := intPart
	if hasFrac && frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
