package dataprocessing

import "finboard/pkg/contracts/domain"

// RawSheet is one sheet exactly as the decode boundary produced it: the full
// row-major grid, hidden rows still present.
type RawSheet struct {
	Name string
	Grid []domain.Row
}

// RawWorkbook is a decoded workbook in source sheet order.
type RawWorkbook []RawSheet

// Normalizer converts raw workbooks into the canonical SheetData model by
// dropping each sheet's hidden rows per the registry. Normalization is a
// pure function of (workbook, registry): no I/O, no shared state, identical
// inputs always yield identical output.
type Normalizer struct {
	registry *Registry
}

// NewNormalizer creates a normalizer over the given layout registry.
func NewNormalizer(registry *Registry) *Normalizer {
	return &Normalizer{registry: registry}
}

// Normalize filters every sheet of the raw workbook. Rows whose 0-based
// source position appears in the layout's hidden set (1-based values minus
// one) are dropped; surviving rows keep their relative order and are
// renumbered contiguously from 0. Missing layouts fall back to the registry
// default, so Normalize never fails.
func (n *Normalizer) Normalize(raw RawWorkbook) domain.SheetData {
	out := make(domain.SheetData, 0, len(raw))
	for _, rs := range raw {
		layout := n.registry.Lookup(rs.Name)

		hidden := make(map[int]struct{}, len(layout.HiddenRows))
		for _, r := range layout.HiddenRows {
			hidden[r-1] = struct{}{}
		}

		rows := make([]domain.Row, 0, len(rs.Grid))
		for i, row := range rs.Grid {
			if _, drop := hidden[i]; drop {
				continue
			}
			rows = append(rows, row)
		}
		out = append(out, domain.Sheet{Name: rs.Name, Rows: rows})
	}
	return out
}

// Registry exposes the layout registry the normalizer was built with, for
// consumers that need the same metadata the filtering used.
func (n *Normalizer) Registry() *Registry {
	return n.registry
}
