package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tallybridge/tallybridge/internal/model"
	"github.com/tallybridge/tallybridge/internal/service"
)

// SyncedCompanies lists the companies present in the backend database.
func (c *Client) SyncedCompanies(ctx context.Context) ([]model.Company, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/tally/synced-companies", nil)
	if err != nil {
		return nil, err
	}
	var companies []model.Company
	if err := unwrapList(body, &companies, "companies"); err != nil {
		return nil, err
	}
	return companies, nil
}

// DeleteCompany permanently removes all synced data for a company.
func (c *Client) DeleteCompany(ctx context.Context, name string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/data/company/"+url.PathEscape(name), nil)
	return err
}

// Ledgers fetches the ledger master list for a company.
func (c *Client) Ledgers(ctx context.Context, company string) ([]model.Ledger, error) {
	query := url.Values{}
	query.Set("company", company)

	body, err := c.do(ctx, http.MethodGet, "/api/v1/reports/ledgers", query)
	if err != nil {
		return nil, err
	}
	var ledgers []model.Ledger
	if err := unwrapList(body, &ledgers, "ledgers"); err != nil {
		return nil, err
	}
	return ledgers, nil
}

// statementEnvelope is the ledger statement payload: entries plus the
// period summary.
type statementEnvelope struct {
	Summary model.LedgerSummary `json:"summary"`
	Entries []model.LedgerEntry `json:"entries"`
}

// LedgerStatement fetches one ledger's transactions and period summary.
func (c *Client) LedgerStatement(ctx context.Context, company, ledger string, dateRange *model.DateRange) ([]model.LedgerEntry, model.LedgerSummary, error) {
	query := url.Values{}
	query.Set("company", company)
	query.Set("ledger", ledger)
	if dateRange != nil {
		query.Set("from_date", dateRange.From.Format(dateLayout))
		query.Set("to_date", dateRange.To.Format(dateLayout))
	}

	var envelope statementEnvelope
	if err := c.getJSON(ctx, "/api/v1/reports/ledger/statement", query, &envelope); err != nil {
		return nil, model.LedgerSummary{}, err
	}
	return envelope.Entries, envelope.Summary, nil
}

// Vouchers fetches the voucher register, optionally filtered by type and
// period.
func (c *Client) Vouchers(ctx context.Context, filter service.VoucherFilter) ([]model.Voucher, error) {
	query := url.Values{}
	query.Set("company", filter.Company)
	if filter.VoucherType != "" {
		query.Set("voucher_type", filter.VoucherType)
	}
	if filter.From != nil {
		query.Set("from_date", filter.From.Format(dateLayout))
	}
	if filter.To != nil {
		query.Set("to_date", filter.To.Format(dateLayout))
	}

	body, err := c.do(ctx, http.MethodGet, "/api/v1/reports/vouchers", query)
	if err != nil {
		return nil, err
	}
	var vouchers []model.Voucher
	if err := unwrapList(body, &vouchers, "vouchers"); err != nil {
		return nil, err
	}
	return vouchers, nil
}

// OutstandingBills fetches the bill-wise outstanding report. kind is
// "receivable" or "payable".
func (c *Client) OutstandingBills(ctx context.Context, company, kind string) ([]model.Bill, error) {
	query := url.Values{}
	query.Set("company", company)

	body, err := c.do(ctx, http.MethodGet, "/api/v1/reports/outstanding/"+url.PathEscape(kind), query)
	if err != nil {
		return nil, err
	}
	var bills []model.Bill
	if err := unwrapList(body, &bills, "bills"); err != nil {
		return nil, err
	}
	return bills, nil
}

// OutstandingParties fetches the ledger-wise outstanding report: one row
// per party with its open bills nested.
func (c *Client) OutstandingParties(ctx context.Context, company, kind string) ([]model.OutstandingParty, error) {
	query := url.Values{}
	query.Set("company", company)
	query.Set("group_by", "ledger")

	body, err := c.do(ctx, http.MethodGet, "/api/v1/reports/outstanding/"+url.PathEscape(kind), query)
	if err != nil {
		return nil, err
	}
	var parties []model.OutstandingParty
	if err := unwrapList(body, &parties, "parties", "ledgers"); err != nil {
		return nil, err
	}
	return parties, nil
}
