package dataprocessing

import (
	"regexp"
	"strings"

	"finboard/pkg/contracts/domain"
)

// monthSuffix matches a trailing "MON YYYY" stamp on a sheet name, e.g.
// "IAV P&L NOV 2025". The producers re-stamp such sheets every reporting
// month, so the stamp must not participate in cross-period identity.
var monthSuffix = regexp.MustCompile(`(?i)\s*(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)\s*\d{4}\s*$`)

// ShortKey reduces a displayed sheet name to its stable logical key: the
// name with any trailing month/year stamp removed, or the name itself when
// no rule applies. The mapping is deterministic; the same displayed name
// always yields the same key, across all workbooks and all time.
func ShortKey(sheetName string) string {
	key := monthSuffix.ReplaceAllString(sheetName, "")
	key = strings.TrimSpace(key)
	if key == "" {
		return strings.TrimSpace(sheetName)
	}
	return key
}

// FindByShortKey returns the first sheet in the workbook whose reconciled
// key equals key, or an empty sheet when none matches. It never errors; "no
// data for this tab" is a presentation concern, not a failure.
func FindByShortKey(sd domain.SheetData, key string) domain.Sheet {
	for _, s := range sd {
		if ShortKey(s.Name) == key {
			return s
		}
	}
	return domain.Sheet{}
}

// AllShortKeys returns the reconciled key of every sheet in the workbook,
// deduplicated, in first-seen order.
func AllShortKeys(sd domain.SheetData) []string {
	seen := make(map[string]struct{}, len(sd))
	keys := make([]string, 0, len(sd))
	for _, s := range sd {
		k := ShortKey(s.Name)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
