// Package dataprocessing turns raw monthly financial workbooks into the
// canonical, addressable model the rest of the application consumes. It owns
// the complete normalization lifecycle: structural classification of rows,
// per-sheet layout metadata, hidden-row filtering, reconciliation of volatile
// sheet names to stable logical keys, and typed value extraction.
//
// # Architecture
//
// The package is organized into five components:
//
// 1. Classifier: derives the semantic class of a row (title/header/section/total/data)
// 2. Registry: static per-sheet layout metadata (header depth, hidden rows, display label)
// 3. Normalizer: filters hidden rows out of a raw workbook, producing SheetData
// 4. Reconciler: maps month-stamped sheet names to stable logical keys
// 5. Extraction: locates labelled rows and reads typed values with sentinel awareness
//
// # Data Flow
//
//	Raw workbook grid → Normalizer(Registry) → SheetData → Extraction/Reconciler → KPIs, comparisons
//
// # Error Handling
//
// Spreadsheets are adversarial input: manually edited, inconsistently
// formatted, release-to-release unstable. Nothing in this package returns an
// error for data-shape irregularities. Short rows read as sparse, unknown
// sheets fall back to a default layout, failed extractions report absence.
// Callers render absence as a placeholder, never as zero.
package dataprocessing
