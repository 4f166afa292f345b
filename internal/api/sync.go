package api

import (
	"context"
	"net/url"

	"github.com/tallybridge/tallybridge/internal/model"
)

const dateLayout = "2006-01-02"

// syncQuery builds the start-request parameters. The date range is
// optional on the wire: when absent the backend auto-detects the books
// period from Tally.
func syncQuery(company string, dateRange *model.DateRange) url.Values {
	query := url.Values{}
	query.Set("company", company)
	if dateRange != nil {
		query.Set("from_date", dateRange.From.Format(dateLayout))
		query.Set("to_date", dateRange.To.Format(dateLayout))
	}
	return query
}

// StartFull asks the backend to wipe and re-sync a company.
func (c *Client) StartFull(ctx context.Context, company string, dateRange *model.DateRange) error {
	return c.post(ctx, "/api/sync/full", syncQuery(company, dateRange))
}

// StartIncremental asks the backend to sync changes since the last run.
func (c *Client) StartIncremental(ctx context.Context, company string, dateRange *model.DateRange) error {
	return c.post(ctx, "/api/sync/incremental", syncQuery(company, dateRange))
}

// Status reads the backend's single current-job slot.
func (c *Client) Status(ctx context.Context) (*model.SyncStatus, error) {
	var status model.SyncStatus
	if err := c.getJSON(ctx, "/api/sync/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Cancel requests a cooperative stop of the current job.
func (c *Client) Cancel(ctx context.Context) error {
	return c.post(ctx, "/api/sync/cancel", nil)
}
