package dataprocessing

import "finboard/pkg/contracts/domain"

// Registry maps exact source sheet names to their layout metadata. It is
// read-only process-wide configuration: built once at startup and safe to
// share across concurrent normalization calls.
type Registry struct {
	layouts map[string]domain.Layout
}

// NewRegistry builds a registry over an explicit layout table. The table is
// copied; later mutation of the argument does not affect the registry.
func NewRegistry(layouts map[string]domain.Layout) *Registry {
	m := make(map[string]domain.Layout, len(layouts))
	for name, l := range layouts {
		m[name] = l
	}
	return &Registry{layouts: m}
}

// DefaultRegistry returns the registry for the production monthly workbook.
// Sheet names are exact, including their trailing-space quirks. Hidden row
// numbers are 1-based positions in the unfiltered source grid.
func DefaultRegistry() *Registry {
	return NewRegistry(map[string]domain.Layout{
		"IAV P&L NOV 2025": {
			Short: "P&L Nov-25", HeaderRows: 6, TitleRows: 2, HiddenRows: []int{19},
		},
		"% Sheet": {
			Short: "% Analysis", HeaderRows: 2, TitleRows: 1,
		},
		"COMPARATIVE %": {
			Short: "Comparative %", HeaderRows: 3, TitleRows: 1,
		},
		"IAV GROUP MONT. COMPARATIVE P&L": {
			Short: "Group Comparative", HeaderRows: 4, TitleRows: 2,
		},
		"AMAZON MONTHLY COMPARATIVE P&L": {
			Short: "Amazon Monthly", HeaderRows: 4, TitleRows: 2,
		},
		"AMAZON QTRLY COMPARATIVE P&L": {
			Short: "Amazon Quarterly", HeaderRows: 4, TitleRows: 2,
		},
		"ORDERS SHEET": {
			Short: "Orders", HeaderRows: 4, TitleRows: 1, HiddenRows: []int{12, 13, 14, 15, 16},
		},
		"AMAZON STATEWISE P&L": {
			Short: "Amazon Statewise", HeaderRows: 3, TitleRows: 2,
		},
		"STATEWISE SALE ": {
			Short: "Statewise Sale", HeaderRows: 2, TitleRows: 1,
		},
		"STOCK VALUE": {
			Short: "Stock Value", HeaderRows: 1, TitleRows: 0,
		},
		"AMAZON EXP SHEET": {
			Short: "Amazon Expenses", HeaderRows: 3, TitleRows: 1,
		},
		"FLIPKART EXP SHEET": {
			Short: "Flipkart Expenses", HeaderRows: 3, TitleRows: 1,
		},
	})
}

// Lookup returns the layout for the given source sheet name. Unrecognized
// names degrade to a one-header-row default rather than erroring, since the
// workbook producers add new tabs without notice.
func (r *Registry) Lookup(sheetName string) domain.Layout {
	if l, ok := r.layouts[sheetName]; ok {
		return l
	}
	return domain.Layout{Short: sheetName, HeaderRows: 1, TitleRows: 0}
}

// Known reports whether the sheet name has an explicit layout entry.
func (r *Registry) Known(sheetName string) bool {
	_, ok := r.layouts[sheetName]
	return ok
}
