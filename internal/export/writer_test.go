package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tallybridge/tallybridge/internal/format"
	"github.com/tallybridge/tallybridge/internal/tabular"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "no auth configured",
			mutate:  func(_ *Config) {},
			wantErr: "no authentication method",
		},
		{
			name: "both auth methods",
			mutate: func(c *Config) {
				c.ClientID = "id"
				c.ClientSecret = "secret"
				c.RefreshToken = "token"
				c.ServiceAccountPath = "/tmp/key.json"
			},
			wantErr: "multiple authentication methods",
		},
		{
			name: "zero batch size",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/tmp/key.json"
				c.BatchSize = 0
			},
			wantErr: "batch size must be positive",
		},
		{
			name: "service account ok",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/tmp/key.json"
			},
		},
		{
			name: "oauth ok",
			mutate: func(c *Config) {
				c.ClientID = "id"
				c.ClientSecret = "secret"
				c.RefreshToken = "token"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestPrepareRows(t *testing.T) {
	report := Report{
		Title: "Ledgers - Acme Ltd",
		Columns: []tabular.ColumnSpec{
			{Key: "ledger_name", Label: "Ledger"},
			{Key: "closing_balance", Label: "Closing Balance", Formatter: func(v any) string {
				return format.Currency(v.(float64))
			}},
		},
		Records: []tabular.Record{
			{"ledger_name": "Cash", "closing_balance": 150000.0},
			{"ledger_name": "Sales Account", "closing_balance": 2500000.5},
			{"ledger_name": "Suspense"},
		},
	}

	generatedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	rows := prepareRows(report, generatedAt)

	assert.Len(t, rows, 6)
	assert.Equal(t, []any{"Ledgers - Acme Ltd", "Generated 14-Mar-2026 09:30"}, rows[0])
	assert.Empty(t, rows[1])
	assert.Equal(t, []any{"Ledger", "Closing Balance"}, rows[2])
	assert.Equal(t, []any{"Cash", "₹1,50,000.00"}, rows[3])
	assert.Equal(t, []any{"Sales Account", "₹25,00,000.50"}, rows[4])
	// A missing key renders as an empty cell, not a panic.
	assert.Equal(t, []any{"Suspense", ""}, rows[5])
}
