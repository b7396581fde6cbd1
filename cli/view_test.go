package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemoveFirstDashDash(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "nil", in: nil, want: nil},
		{name: "separator only", in: []string{"--"}, want: []string{}},
		{name: "separator before host", in: []string{"--", "--host", "0.0.0.0"}, want: []string{"--host", "0.0.0.0"}},
		{name: "no separator", in: []string{"--port", "4040"}, want: []string{"--port", "4040"}},
		{name: "second separator kept", in: []string{"--", "--", "-p"}, want: []string{"--", "-p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, removeFirstDashDash(tt.in))
		})
	}
}

func TestParseViewArgs(t *testing.T) {
	tests := []struct {
		name         string
		in           []string
		wantID       string
		wantRenderer []string
	}{
		{
			name:   "no arguments opens the newest report",
			in:     nil,
			wantID: "0",
		},
		{
			name:         "report prefix alone",
			in:           []string{"2024-03"},
			wantID:       "2024-03",
			wantRenderer: []string{},
		},
		{
			name:         "port flag without a report",
			in:           []string{"--port", "4040"},
			wantID:       "0",
			wantRenderer: []string{"--port", "4040"},
		},
		{
			name:         "short host flag without a report",
			in:           []string{"-h", "127.0.0.1"},
			wantID:       "0",
			wantRenderer: []string{"-h", "127.0.0.1"},
		},
		{
			name:         "index then host and port",
			in:           []string{"-2", "--host", "0.0.0.0", "--port", "4040"},
			wantID:       "-2",
			wantRenderer: []string{"--host", "0.0.0.0", "--port", "4040"},
		},
		{
			name:         "full snapshot name then separator",
			in:           []string{"allure-report-2024-03-15_08-30-00", "--", "-p", "9999"},
			wantID:       "allure-report-2024-03-15_08-30-00",
			wantRenderer: []string{"-p", "9999"},
		},
		{
			name:         "leading separator",
			in:           []string{"--", "--port", "4040"},
			wantID:       "0",
			wantRenderer: []string{"--port", "4040"},
		},
		{
			name:         "smallest int64 is still an index",
			in:           []string{"-9223372036854775808"},
			wantID:       "-9223372036854775808",
			wantRenderer: []string{},
		},
		{
			name:         "index overflowing int64 is a renderer flag",
			in:           []string{"-9223372036854775809"},
			wantID:       "0",
			wantRenderer: []string{"-9223372036854775809"},
		},
		{
			name:         "dash followed by letters is a renderer flag",
			in:           []string{"-1h"},
			wantID:       "0",
			wantRenderer: []string{"-1h"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID, gotRenderer := parseViewArgs(tt.in)
			require.Equal(t, tt.wantID, gotID)
			require.Equal(t, tt.wantRenderer, gotRenderer)
		})
	}
}
