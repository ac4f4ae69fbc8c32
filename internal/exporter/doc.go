// Package exporter renders normalized sheet values for display and export:
// Indian-grouping currency strings for the KPI cards and tables, and CSV
// streams of whole normalized sheets.
package exporter
