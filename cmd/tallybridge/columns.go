package main

import (
	"fmt"

	"github.com/tallybridge/tallybridge/internal/format"
	"github.com/tallybridge/tallybridge/internal/tabular"
)

// Cell formatters. Records carry raw backend values; these render them
// the way every report displays them.

func formatCurrency(v any) string {
	if f, ok := v.(float64); ok {
		return format.Currency(f)
	}
	return fmt.Sprint(v)
}

func formatDate(v any) string {
	if s, ok := v.(string); ok {
		return format.Date(s)
	}
	return fmt.Sprint(v)
}

func formatCount(v any) string {
	switch n := v.(type) {
	case int64:
		return format.Number(n)
	case int:
		return format.Number(int64(n))
	case float64:
		return format.Number(int64(n))
	}
	return fmt.Sprint(v)
}

func ledgerColumns() []tabular.ColumnSpec {
	return []tabular.ColumnSpec{
		{Key: "name", Label: "Ledger", Sortable: true},
		{Key: "parent", Label: "Group", Sortable: true},
		{Key: "gstin", Label: "GSTIN"},
		{Key: "mobile", Label: "Mobile"},
		{Key: "opening", Label: "Opening", Formatter: formatCurrency, Sortable: true},
		{Key: "closing", Label: "Closing", Formatter: formatCurrency, Sortable: true},
	}
}

func statementColumns() []tabular.ColumnSpec {
	return []tabular.ColumnSpec{
		{Key: "date", Label: "Date", Formatter: formatDate, Sortable: true},
		{Key: "particulars", Label: "Particulars", Sortable: true},
		{Key: "voucher_type", Label: "Type", Sortable: true},
		{Key: "voucher_number", Label: "Vch No."},
		{Key: "debit", Label: "Debit", Formatter: formatCurrency, Sortable: true},
		{Key: "credit", Label: "Credit", Formatter: formatCurrency, Sortable: true},
		{Key: "balance", Label: "Balance", Formatter: formatCurrency},
	}
}

func voucherColumns() []tabular.ColumnSpec {
	return []tabular.ColumnSpec{
		{Key: "date", Label: "Date", Formatter: formatDate, Sortable: true},
		{Key: "voucher_number", Label: "Vch No.", Sortable: true},
		{Key: "voucher_type", Label: "Type", Sortable: true},
		{Key: "party_name", Label: "Party", Sortable: true},
		{Key: "amount", Label: "Amount", Formatter: formatCurrency, Sortable: true},
		{Key: "narration", Label: "Narration"},
	}
}

func billColumns() []tabular.ColumnSpec {
	return []tabular.ColumnSpec{
		{Key: "party_name", Label: "Party", Sortable: true},
		{Key: "bill_name", Label: "Bill", Sortable: true},
		{Key: "bill_date", Label: "Date", Formatter: formatDate, Sortable: true},
		{Key: "due_date", Label: "Due", Formatter: formatDate, Sortable: true},
		{Key: "bill_amount", Label: "Amount", Formatter: formatCurrency, Sortable: true},
		{Key: "pending", Label: "Pending", Formatter: formatCurrency, Sortable: true},
		{Key: "overdue_days", Label: "Overdue", Formatter: formatCount, Sortable: true},
	}
}

// partyColumns serves both row levels of the ledger-wise report: party
// rows fill the totals, nested bill rows fill the bill detail.
func partyColumns() []tabular.ColumnSpec {
	return []tabular.ColumnSpec{
		{Key: "party_name", Label: "Party", Sortable: true},
		{Key: "bill_name", Label: "Bill"},
		{Key: "due_date", Label: "Due", Formatter: formatDate},
		{Key: "pending", Label: "Pending", Formatter: formatCurrency},
		{Key: "total_pending", Label: "Total Pending", Formatter: formatCurrency, Sortable: true},
		{Key: "bill_count", Label: "Bills", Formatter: formatCount, Sortable: true},
	}
}

func companyColumns() []tabular.ColumnSpec {
	return []tabular.ColumnSpec{
		{Key: "company_name", Label: "Company", Sortable: true},
		{Key: "books_from", Label: "Books From", Formatter: formatDate},
		{Key: "books_to", Label: "Books To", Formatter: formatDate},
		{Key: "last_synced_at", Label: "Last Synced", Formatter: formatDate, Sortable: true},
	}
}
