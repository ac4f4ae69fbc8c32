// Package period converts between human period labels ("NOV 2025") and the
// sortable, storage-safe month keys ("2025-11") used to address workbooks.
package period

import (
	"fmt"
	"regexp"
	"strings"
)

// FallbackLabel is returned when a key or workbook carries no recognizable
// period. It doubles as the dashboard title for un-keyed legacy data.
const FallbackLabel = "Financial Summary"

// LatestKey is the legacy sentinel for the un-keyed "latest" workbook.
const LatestKey = "latest"

var monthNumbers = map[string]string{
	"JAN": "01", "FEB": "02", "MAR": "03", "APR": "04",
	"MAY": "05", "JUN": "06", "JUL": "07", "AUG": "08",
	"SEP": "09", "OCT": "10", "NOV": "11", "DEC": "12",
}

var monthNames = map[string]string{
	"01": "JAN", "02": "FEB", "03": "MAR", "04": "APR",
	"05": "MAY", "06": "JUN", "07": "JUL", "08": "AUG",
	"09": "SEP", "10": "OCT", "11": "NOV", "12": "DEC",
}

var periodPattern = regexp.MustCompile(`(?i)(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)\s*(\d{4})`)

// Encode converts a period label ("NOV 2025") to its month key ("2025-11").
// Labels whose month abbreviation is not recognized default to month "01"
// rather than failing; day-level information is never carried.
func Encode(label string) string {
	m := periodPattern.FindStringSubmatch(label)
	if m == nil {
		fields := strings.Fields(strings.TrimSpace(label))
		year := "0000"
		if len(fields) > 0 {
			year = fields[len(fields)-1]
		}
		return year + "-01"
	}
	num, ok := monthNumbers[strings.ToUpper(m[1])]
	if !ok {
		num = "01"
	}
	return m[2] + "-" + num
}

// Decode converts a month key ("2025-11") back to its display label
// ("NOV 2025"). Keys without the expected separator, and the literal
// "latest" sentinel, decode to FallbackLabel.
func Decode(key string) string {
	if key == LatestKey {
		return FallbackLabel
	}
	year, month, found := strings.Cut(key, "-")
	if !found {
		return FallbackLabel
	}
	name, ok := monthNames[month]
	if !ok {
		return FallbackLabel
	}
	return fmt.Sprintf("%s %s", name, year)
}

// Detect scans workbook sheet names for an embedded period ("...NOV 2025...")
// and returns the normalized label of the first match, or FallbackLabel when
// no sheet name carries one.
func Detect(sheetNames []string) string {
	for _, name := range sheetNames {
		if m := periodPattern.FindStringSubmatch(name); m != nil {
			return strings.ToUpper(m[1]) + " " + m[2]
		}
	}
	return FallbackLabel
}
