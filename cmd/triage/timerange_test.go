package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRange(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		start     string
		end       string
		days      int
		wantLabel string
		wantErr   bool
	}{
		{name: "defaults to last week", days: 7, wantLabel: "20240305-20240227"},
		{name: "explicit start", start: "2024-01-10", days: 7, wantLabel: "20240110-20240103"},
		{name: "explicit end", start: "2024-01-10", end: "2024-01-01", wantLabel: "20240110-20240101"},
		{name: "rfc3339", start: "2024-01-10T23:00:00Z", days: 1, wantLabel: "20240110-20240109"},
		{name: "bad start", start: "yesterday", wantErr: true},
		{name: "bad end", end: "01/02/2024", wantErr: true},
		{name: "negative days", days: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, err := resolveRange(tt.start, tt.end, tt.days, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, rng.Label())
		})
	}
}
