package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybridge/tallybridge/internal/model"
	"github.com/tallybridge/tallybridge/internal/service"
)

func TestUnwrapList(t *testing.T) {
	tests := []struct {
		name string
		body string
		keys []string
	}{
		{name: "bare array", body: `[{"name":"Cash"}]`},
		{name: "data key", body: `{"data":[{"name":"Cash"}]}`},
		{name: "rows key", body: `{"rows":[{"name":"Cash"}]}`},
		{name: "entity key", body: `{"ledgers":[{"name":"Cash"}]}`, keys: []string{"ledgers"}},
		{name: "nested under data", body: `{"data":{"ledgers":[{"name":"Cash"}]}}`, keys: []string{"ledgers"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ledgers []model.Ledger
			require.NoError(t, unwrapList([]byte(tt.body), &ledgers, tt.keys...))
			require.Len(t, ledgers, 1)
			assert.Equal(t, "Cash", ledgers[0].Name)
		})
	}

	t.Run("no recognizable key", func(t *testing.T) {
		var ledgers []model.Ledger
		err := unwrapList([]byte(`{"unexpected": true}`), &ledgers, "ledgers")
		require.Error(t, err)
	})
}

func TestSyncedCompanies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tally/synced-companies", r.URL.Path)
		_, _ = w.Write([]byte(`{"companies":[
			{"company_name":"Acme Ltd","books_from":"2025-04-01","books_to":"2026-03-31"},
			{"company_name":"Globex"}
		]}`))
	})

	companies, err := client.SyncedCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, "Acme Ltd", companies[0].Name)
	assert.Equal(t, "2025-04-01", companies[0].BooksFrom)
}

func TestVouchers_FilterQuery(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"vouchers":[{"voucher_number":"101","voucher_type":"Sales","amount":1500}]}`))
	})

	vouchers, err := client.Vouchers(context.Background(), service.VoucherFilter{
		Company:     "Acme Ltd",
		VoucherType: "Sales",
	})
	require.NoError(t, err)
	require.Len(t, vouchers, 1)
	assert.Equal(t, "101", vouchers[0].VoucherNumber)
	assert.Equal(t, []string{"Sales"}, gotQuery["voucher_type"])
	assert.NotContains(t, gotQuery, "from_date")
}

func TestLedgerStatement(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/reports/ledger/statement", r.URL.Path)
		assert.Equal(t, "Sundry Debtors A", r.URL.Query().Get("ledger"))
		_, _ = w.Write([]byte(`{
			"summary":{"opening_balance":1000,"total_debit":500,"total_credit":200,"closing_balance":700},
			"entries":[{"date":"2025-04-02","particulars":"Sales","debit":500,"credit":0}]
		}`))
	})

	entries, summary, err := client.LedgerStatement(context.Background(), "Acme Ltd", "Sundry Debtors A", nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.InDelta(t, 1000.0, summary.OpeningBalance, 0.001)
	assert.InDelta(t, 500.0, entries[0].Debit, 0.001)
}

func TestOutstandingParties_NestedBills(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/reports/outstanding/receivable", r.URL.Path)
		assert.Equal(t, "ledger", r.URL.Query().Get("group_by"))
		_, _ = w.Write([]byte(`{"parties":[
			{"party_name":"Zenith Traders","total_pending":900,"bill_count":2,"bills":[
				{"bill_name":"INV-1","pending":500},
				{"bill_name":"INV-2","pending":400}
			]}
		]}`))
	})

	parties, err := client.OutstandingParties(context.Background(), "Acme Ltd", "receivable")
	require.NoError(t, err)
	require.Len(t, parties, 1)
	assert.Equal(t, "Zenith Traders", parties[0].PartyName)
	require.Len(t, parties[0].Bills, 2)
	assert.Equal(t, "INV-1", parties[0].Bills[0].BillName)
}
