package model

// Company is one Tally company known to the backend.
type Company struct {
	Name         string `json:"company_name"`
	BooksFrom    string `json:"books_from"`
	BooksTo      string `json:"books_to"`
	LastSyncedAt string `json:"last_synced_at"`
	Synced       bool   `json:"synced"`
}

// Ledger is one row of the ledger master list.
type Ledger struct {
	Name           string  `json:"name"`
	Parent         string  `json:"parent"`
	GSTIN          string  `json:"gstin"`
	Mobile         string  `json:"mobile"`
	Email          string  `json:"email"`
	OpeningBalance float64 `json:"opening_balance"`
	ClosingBalance float64 `json:"closing_balance"`
}

// Record projects the ledger into a tabular record.
func (l Ledger) Record() map[string]any {
	return map[string]any{
		"name":    l.Name,
		"parent":  l.Parent,
		"gstin":   l.GSTIN,
		"mobile":  l.Mobile,
		"email":   l.Email,
		"opening": l.OpeningBalance,
		"closing": l.ClosingBalance,
	}
}

// LedgerEntry is one statement line for a single ledger.
type LedgerEntry struct {
	Date          string  `json:"date"`
	Particulars   string  `json:"particulars"`
	VoucherType   string  `json:"voucher_type"`
	VoucherNumber string  `json:"voucher_number"`
	Debit         float64 `json:"debit"`
	Credit        float64 `json:"credit"`
}

// Record projects the statement line into a tabular record. The running
// balance column is filled in by the caller, which owns the opening balance.
func (e LedgerEntry) Record() map[string]any {
	return map[string]any{
		"date":           e.Date,
		"particulars":    e.Particulars,
		"voucher_type":   e.VoucherType,
		"voucher_number": e.VoucherNumber,
		"debit":          e.Debit,
		"credit":         e.Credit,
	}
}

// LedgerSummary carries the statement's period totals.
type LedgerSummary struct {
	OpeningBalance float64 `json:"opening_balance"`
	TotalDebit     float64 `json:"total_debit"`
	TotalCredit    float64 `json:"total_credit"`
	ClosingBalance float64 `json:"closing_balance"`
}

// Voucher is one row of the voucher register.
type Voucher struct {
	Date            string  `json:"date"`
	VoucherNumber   string  `json:"voucher_number"`
	VoucherType     string  `json:"voucher_type"`
	PartyName       string  `json:"party_name"`
	Amount          float64 `json:"amount"`
	Narration       string  `json:"narration"`
	ReferenceNumber string  `json:"reference_number"`
}

// Record projects the voucher into a tabular record.
func (v Voucher) Record() map[string]any {
	return map[string]any{
		"date":             v.Date,
		"voucher_number":   v.VoucherNumber,
		"voucher_type":     v.VoucherType,
		"party_name":       v.PartyName,
		"amount":           v.Amount,
		"narration":        v.Narration,
		"reference_number": v.ReferenceNumber,
	}
}

// Bill is one outstanding bill, either standalone (bill-wise report) or
// nested under its party (ledger-wise report).
type Bill struct {
	PartyName   string  `json:"party_name"`
	BillName    string  `json:"bill_name"`
	BillDate    string  `json:"bill_date"`
	DueDate     string  `json:"due_date"`
	BillAmount  float64 `json:"bill_amount"`
	PaidAmount  float64 `json:"paid_amount"`
	Pending     float64 `json:"pending"`
	OverdueDays int     `json:"overdue_days"`
}

// Record projects the bill into a tabular record.
func (b Bill) Record() map[string]any {
	return map[string]any{
		"party_name":   b.PartyName,
		"bill_name":    b.BillName,
		"bill_date":    b.BillDate,
		"due_date":     b.DueDate,
		"bill_amount":  b.BillAmount,
		"paid_amount":  b.PaidAmount,
		"pending":      b.Pending,
		"overdue_days": b.OverdueDays,
	}
}

// OutstandingParty groups a party ledger with its open bills for the
// ledger-wise outstanding report.
type OutstandingParty struct {
	PartyName    string  `json:"party_name"`
	TotalPending float64 `json:"total_pending"`
	BillCount    int     `json:"bill_count"`
	Bills        []Bill  `json:"bills"`
}

// Record projects the party into a tabular record. Bills become child
// records: the view searches and sorts parties only, children keep their
// original order.
func (p OutstandingParty) Record() map[string]any {
	children := make([]map[string]any, len(p.Bills))
	for i, b := range p.Bills {
		children[i] = b.Record()
	}
	return map[string]any{
		"party_name":    p.PartyName,
		"total_pending": p.TotalPending,
		"bill_count":    p.BillCount,
		"bills":         children,
	}
}
