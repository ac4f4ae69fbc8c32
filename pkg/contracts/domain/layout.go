package domain

import "time"

// Layout describes the structural metadata of one logical sheet: how many
// leading rows are titles and headers, which source rows are hidden, and the
// short label shown on tabs.
//
// HiddenRows indices are 1-based positions in the unfiltered source grid.
// They are applied before any row is exposed in the canonical model; rows in
// a normalized Sheet are contiguous and renumbered from 0.
type Layout struct {
	Short      string `json:"short" yaml:"short"`
	HeaderRows int    `json:"hdr_rows" yaml:"hdr_rows"`
	TitleRows  int    `json:"title_rows" yaml:"title_rows"`
	HiddenRows []int  `json:"hidden_rows,omitempty" yaml:"hidden_rows"`
}

// MonthInfo describes one stored workbook in the blob store listing.
type MonthInfo struct {
	Key          string    `json:"key"`
	MonthKey     string    `json:"monthKey"`
	Period       string    `json:"period"`
	LastModified time.Time `json:"lastModified,omitempty"`
	Size         int64     `json:"size"`
}
