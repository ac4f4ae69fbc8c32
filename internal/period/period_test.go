package period

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{name: "november", label: "NOV 2025", want: "2025-11"},
		{name: "lowercase", label: "jan 2024", want: "2024-01"},
		{name: "no space", label: "DEC2023", want: "2023-12"},
		{name: "embedded in sheet name", label: "IAV P&L NOV 2025", want: "2025-11"},
		{name: "unknown month defaults to 01", label: "XXX 2025", want: "2025-01"},
		{name: "malformed label", label: "whatever", want: "whatever-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.label))
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "november", key: "2025-11", want: "NOV 2025"},
		{name: "january", key: "2024-01", want: "JAN 2024"},
		{name: "latest sentinel", key: "latest", want: FallbackLabel},
		{name: "no separator", key: "202511", want: FallbackLabel},
		{name: "unknown month number", key: "2025-13", want: FallbackLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.key))
		})
	}
}

// Every recognized month abbreviation must survive an encode/decode round
// trip with the same month and year.
func TestRoundTrip(t *testing.T) {
	for abbr := range monthNumbers {
		label := fmt.Sprintf("%s 2025", abbr)
		assert.Equal(t, label, Decode(Encode(label)), "round trip for %s", abbr)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		sheets []string
		want   string
	}{
		{
			name:   "period embedded in sheet name",
			sheets: []string{"% Sheet", "IAV P&L NOV 2025", "ORDERS SHEET"},
			want:   "NOV 2025",
		},
		{
			name:   "first match wins",
			sheets: []string{"IAV P&L JAN 2025", "AMAZON FEB 2025"},
			want:   "JAN 2025",
		},
		{
			name:   "case normalized",
			sheets: []string{"p&l nov 2025"},
			want:   "NOV 2025",
		},
		{
			name:   "no period anywhere",
			sheets: []string{"% Sheet", "STOCK VALUE"},
			want:   FallbackLabel,
		},
		{
			name:   "empty workbook",
			sheets: nil,
			want:   FallbackLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.sheets))
		})
	}
}
