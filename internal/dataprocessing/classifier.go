package dataprocessing

import (
	"strings"

	"finboard/pkg/contracts/domain"
)

// totalPrefixes are the label prefixes that mark an aggregate row, matched
// case-insensitively in order. "successfull" is a misspelling present in the
// source workbooks and must stay verbatim.
var totalPrefixes = []string{
	"total",
	"net sale",
	"ebit",
	"ebt",
	"contribution",
	"sales after",
	"successfull",
	"earnings before",
}

// SectionSlack is how many non-empty trailing cells a row may carry and
// still count as a section divider. The threshold is tuned to the production
// workbook layouts; changing it silently reclassifies rows.
const SectionSlack = 2

// Rule is one step of the ordered classification heuristic chain. Rules are
// applied in sequence to rows past the title/header block; the first match
// wins.
type Rule interface {
	Match(row domain.Row, maxCols int) (domain.RowClass, bool)
}

// SectionRule matches divider rows: a non-empty label followed by almost
// nothing. At least maxCols−slack of the remaining columns (bounded by the
// actual row length) must be empty.
type SectionRule struct {
	Slack int
}

func (r SectionRule) Match(row domain.Row, maxCols int) (domain.RowClass, bool) {
	if row.Label() == "" {
		return "", false
	}
	limit := len(row)
	if maxCols < limit {
		limit = maxCols
	}
	empties := 0
	for i := 1; i < limit; i++ {
		if row[i].IsEmpty() {
			empties++
		}
	}
	if empties >= limit-r.Slack {
		return domain.RowClassSection, true
	}
	return "", false
}

// TotalPrefixRule matches aggregate rows by label prefix.
type TotalPrefixRule struct {
	Prefixes []string
}

func (r TotalPrefixRule) Match(row domain.Row, _ int) (domain.RowClass, bool) {
	label := strings.ToLower(row.Label())
	for _, p := range r.Prefixes {
		if strings.HasPrefix(label, p) {
			return domain.RowClassTotal, true
		}
	}
	return "", false
}

// Classifier assigns semantic row classes. The zero value is not usable;
// construct with NewClassifier.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a classifier with the default rule chain: section
// detection first, then total-prefix matching. A row whose label satisfies
// both heuristics is a section.
func NewClassifier() *Classifier {
	return &Classifier{
		rules: []Rule{
			SectionRule{Slack: SectionSlack},
			TotalPrefixRule{Prefixes: totalPrefixes},
		},
	}
}

// Classify derives the class of the row at rowIdx within a sheet whose
// leading structure is titleRows title rows followed by headerRows header
// rows. maxCols is the sheet width. All-empty rows are not special-cased
// here; callers that suppress blanks check Row.IsEmpty first.
func (c *Classifier) Classify(rowIdx int, row domain.Row, titleRows, headerRows, maxCols int) domain.RowClass {
	if rowIdx < titleRows {
		return domain.RowClassTitle
	}
	if rowIdx < titleRows+headerRows {
		return domain.RowClassHeader
	}
	for _, rule := range c.rules {
		if class, ok := rule.Match(row, maxCols); ok {
			return class
		}
	}
	return domain.RowClassData
}

// ClassifySheet derives the class of every row in a normalized sheet using
// its layout. Blank rows are tagged RowClassEmpty so displays can suppress
// them; that tag is a caller-side convention, not a classifier outcome.
func (c *Classifier) ClassifySheet(sheet domain.Sheet, layout domain.Layout) []domain.RowClass {
	maxCols := sheet.Width()
	classes := make([]domain.RowClass, len(sheet.Rows))
	for i, row := range sheet.Rows {
		if i >= layout.TitleRows+layout.HeaderRows && row.IsEmpty() {
			classes[i] = domain.RowClassEmpty
			continue
		}
		classes[i] = c.Classify(i, row, layout.TitleRows, layout.HeaderRows, maxCols)
	}
	return classes
}
