package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "CASHFLOW", expected: "CASHFLOW"},
		{name: "spaces", input: "IAV P&L", expected: "IAV_P&L"},
		{name: "percent sign", input: "% Sheet", expected: "pct_Sheet"},
		{name: "trailing space trimmed", input: "STATEWISE SALE ", expected: "STATEWISE_SALE"},
		{name: "path separators", input: "A/B\\C:D", expected: "A-B-C-D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeFileName(tt.input))
		})
	}
}
