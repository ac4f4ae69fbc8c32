package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"finboard/internal/analytics"
	"finboard/internal/dataprocessing"
	"finboard/internal/exporter"
	"finboard/internal/services"
	"finboard/pkg/contracts/domain"
)

// formatKPI renders one KPI line for the console summary.
func formatKPI(k analytics.KPI) string {
	switch k.Format {
	case analytics.FormatPercent:
		return exporter.FormatPercent(k.Value, k.OK)
	case analytics.FormatCount:
		return exporter.FormatCount(k.Value, k.OK)
	default:
		return exporter.FormatINR(k.Value, k.OK)
	}
}

// printSummary writes the per-sheet row-class counts and the KPI snapshot
// to stdout.
func printSummary(sd domain.SheetData, registry *dataprocessing.Registry, logger *slog.Logger) {
	classifier := dataprocessing.NewClassifier()

	fmt.Println("Sheets:")
	for _, sheet := range sd {
		counts := make(map[domain.RowClass]int)
		for _, class := range classifier.ClassifySheet(sheet, registry.Lookup(sheet.Name)) {
			counts[class]++
		}
		fmt.Printf("  %-28s rows=%-4d data=%-4d totals=%-3d sections=%d\n",
			sheet.Name, len(sheet.Rows),
			counts[domain.RowClassData], counts[domain.RowClassTotal], counts[domain.RowClassSection])
	}

	snap := analytics.NewAggregator(logger).Snapshot(sd)
	fmt.Println("KPIs:")
	for _, k := range snap.KPIs {
		fmt.Printf("  %-16s %s\n", k.Label, formatKPI(k))
	}
}

// sanitizeFileName turns a sheet tab name into a safe CSV file name.
func sanitizeFileName(name string) string {
	cleaned := strings.TrimSpace(name)
	cleaned = strings.ReplaceAll(cleaned, "%", "pct")
	replacer := strings.NewReplacer("/", "-", "\\", "-", " ", "_", ":", "-")
	return replacer.Replace(cleaned)
}

func main() {
	inFile := flag.String("in", "", "input .xlsx workbook file")
	outDir := flag.String("out", "reports", "output directory for CSV files")
	raw := flag.Bool("raw", false, "emit raw cell values instead of display formatting")
	sheet := flag.String("sheet", "", "export only the named sheet (default all)")
	flag.Parse()

	if *inFile == "" {
		fmt.Fprintln(os.Stderr, "usage: processor -in workbook.xlsx [-out dir] [-sheet name] [-raw]")
		os.Exit(2)
	}

	data, err := os.ReadFile(*inFile)
	if err != nil {
		slog.Error("Failed to read workbook", "file", *inFile, "error", err)
		os.Exit(1)
	}

	rawWorkbook, err := services.DecodeWorkbook(data)
	if err != nil {
		slog.Error("Failed to decode workbook", "file", *inFile, "error", err)
		os.Exit(1)
	}

	registry := dataprocessing.DefaultRegistry()
	normalizer := dataprocessing.NewNormalizer(registry)
	sd := normalizer.Normalize(rawWorkbook)

	printSummary(sd, registry, slog.Default())

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		slog.Error("Failed to create output directory", "dir", *outDir, "error", err)
		os.Exit(1)
	}

	names := sd.Names()
	if *sheet != "" {
		names = []string{*sheet}
	}

	exported := 0
	for _, name := range names {
		s, ok := sd.Sheet(name)
		if !ok {
			slog.Error("Sheet not found in workbook", "sheet", name)
			os.Exit(1)
		}

		outPath := filepath.Join(*outDir, sanitizeFileName(name)+".csv")
		f, err := os.Create(outPath)
		if err != nil {
			slog.Error("Failed to create CSV file", "file", outPath, "error", err)
			os.Exit(1)
		}

		writeErr := exporter.WriteSheetCSV(f, s, exporter.CSVOptions{BOMPrefix: true, Raw: *raw})
		closeErr := f.Close()
		if writeErr != nil {
			slog.Error("Failed to write CSV", "file", outPath, "error", writeErr)
			os.Exit(1)
		}
		if closeErr != nil {
			slog.Error("Failed to close CSV file", "file", outPath, "error", closeErr)
			os.Exit(1)
		}

		slog.Info("Exported sheet", "sheet", name, "file", outPath, "rows", len(s.Rows))
		exported++
	}

	slog.Info("Workbook export complete", "sheets", exported, "out", *outDir)
}
