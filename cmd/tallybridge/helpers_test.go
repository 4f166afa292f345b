package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantNil bool
		wantErr bool
	}{
		{name: "both empty", wantNil: true},
		{name: "valid range", from: "2025-04-01", to: "2026-03-31"},
		{name: "only from", from: "2025-04-01", wantErr: true},
		{name: "only to", to: "2026-03-31", wantErr: true},
		{name: "bad from", from: "01-04-2025", to: "2026-03-31", wantErr: true},
		{name: "inverted", from: "2026-03-31", to: "2025-04-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dateRange, err := parseDateRange(tt.from, tt.to)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, dateRange)
				return
			}
			require.NotNil(t, dateRange)
			assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), dateRange.From)
			assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), dateRange.To)
		})
	}
}

func TestRequireCompany(t *testing.T) {
	t.Cleanup(func() { viper.Reset() })

	viper.Reset()
	_, err := requireCompany(nil)
	assert.Error(t, err)

	company, err := requireCompany([]string{"Acme Ltd"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", company)

	viper.Set("company", "Globex")
	company, err = requireCompany(nil)
	require.NoError(t, err)
	assert.Equal(t, "Globex", company)

	// A positional argument beats the configured default.
	company, err = requireCompany([]string{"Acme Ltd"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", company)
}
