package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// CellKind identifies the payload type carried by a Cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
	CellBool
)

// Cell is a tagged union of the value kinds a spreadsheet cell can carry.
// Exactly one payload field is meaningful, selected by Kind. The core never
// coerces between kinds; callers must switch on Kind explicitly.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
	Bool   bool
}

// Empty returns the empty cell.
func Empty() Cell { return Cell{Kind: CellEmpty} }

// Text cell constructors.
func NewText(s string) Cell      { return Cell{Kind: CellText, Text: s} }
func NewNumber(f float64) Cell   { return Cell{Kind: CellNumber, Number: f} }
func NewDate(t time.Time) Cell   { return Cell{Kind: CellDate, Date: t} }
func NewBool(b bool) Cell        { return Cell{Kind: CellBool, Bool: b} }

// IsEmpty reports whether the cell carries no value. Text cells containing
// only whitespace count as empty, matching how blank spreadsheet cells are
// delivered by the decode boundary.
func (c Cell) IsEmpty() bool {
	if c.Kind == CellEmpty {
		return true
	}
	return c.Kind == CellText && strings.TrimSpace(c.Text) == ""
}

// IsErrSentinel reports whether the cell is a formula-error marker: a text
// value beginning with "#" (e.g. #DIV/0!, #REF!) or a lone "-".
func (c Cell) IsErrSentinel() bool {
	if c.Kind != CellText {
		return false
	}
	t := strings.TrimSpace(c.Text)
	return strings.HasPrefix(t, "#") || t == "-"
}

// MarshalJSON encodes the cell as a small kind-tagged object so clients can
// render each kind without guessing.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellText:
		return json.Marshal(struct {
			Kind  string `json:"kind"`
			Value string `json:"value"`
		}{"text", c.Text})
	case CellNumber:
		return json.Marshal(struct {
			Kind  string  `json:"kind"`
			Value float64 `json:"value"`
		}{"number", c.Number})
	case CellDate:
		return json.Marshal(struct {
			Kind  string    `json:"kind"`
			Value time.Time `json:"value"`
		}{"date", c.Date})
	case CellBool:
		return json.Marshal(struct {
			Kind  string `json:"kind"`
			Value bool   `json:"value"`
		}{"bool", c.Bool})
	default:
		return json.Marshal(struct {
			Kind string `json:"kind"`
		}{"empty"})
	}
}

// Row is an ordered, fixed-position sequence of cells. Position 0 is the
// row's label; positions >= 1 are data columns.
type Row []Cell

// Cell returns the cell at position i. Positions beyond the row's length
// read as empty rather than panicking: short source rows are sparse, not
// malformed.
func (r Row) Cell(i int) Cell {
	if i < 0 || i >= len(r) {
		return Empty()
	}
	return r[i]
}

// Label returns the trimmed text of the row's first cell. Non-text first
// cells yield an empty label.
func (r Row) Label() string {
	c := r.Cell(0)
	if c.Kind != CellText {
		return ""
	}
	return strings.TrimSpace(c.Text)
}

// IsEmpty reports whether every cell in the row is empty.
func (r Row) IsEmpty() bool {
	for _, c := range r {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Sheet is one named tab: an ordered sequence of rows. Row order is
// significant and carries the title/header/data structure.
type Sheet struct {
	Name string `json:"name"`
	Rows []Row  `json:"rows"`
}

// Width returns the sheet's column count: the maximum row length.
func (s Sheet) Width() int {
	w := 0
	for _, r := range s.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// SheetData is the canonical, hidden-rows-filtered representation of one
// workbook: sheets in source order, names unique. One SheetData corresponds
// to exactly one reporting period.
type SheetData []Sheet

// Sheet returns the sheet with the given source name, or false if absent.
func (sd SheetData) Sheet(name string) (Sheet, bool) {
	for _, s := range sd {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// Names returns the sheet names in source order.
func (sd SheetData) Names() []string {
	names := make([]string, len(sd))
	for i, s := range sd {
		names[i] = s.Name
	}
	return names
}

// RowClass is the derived semantic tag of a row. It is recomputed by every
// consumer that needs it and never persisted.
type RowClass string

const (
	RowClassTitle   RowClass = "title"
	RowClassHeader  RowClass = "header"
	RowClassSection RowClass = "section"
	RowClassTotal   RowClass = "total"
	RowClassData    RowClass = "data"
	// RowClassEmpty is assigned by callers that suppress blank rows before
	// classification; the classifier itself never returns it.
	RowClassEmpty RowClass = "empty"
)
