package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tallybridge/tallybridge/internal/api"
	"github.com/tallybridge/tallybridge/internal/cli"
	"github.com/tallybridge/tallybridge/internal/config"
	"github.com/tallybridge/tallybridge/internal/export"
	"github.com/tallybridge/tallybridge/internal/model"
	"github.com/tallybridge/tallybridge/internal/service"
	"github.com/tallybridge/tallybridge/internal/tabular"
)

func exportCmd() *cobra.Command {
	var (
		spreadsheetID string
		sheetName     string
	)

	cmd := &cobra.Command{
		Use:   "export <report> [company]",
		Short: "Export a report to Google Sheets",
		Long: `Write a report into a Google Sheets spreadsheet. Reports:
ledgers, vouchers, outstanding-receivable, outstanding-payable, companies.
Credentials come from the 'sheets' section of the config file.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			report := args[0]
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			title, columns, records, err := buildExportReport(cmd.Context(), client, report, args[1:])
			if err != nil {
				return err
			}

			cfg := loadExportConfig()
			if spreadsheetID != "" {
				cfg.SpreadsheetID = spreadsheetID
			}
			if sheetName != "" {
				cfg.SpreadsheetName = sheetName
			}

			writer, err := export.NewWriter(cmd.Context(), cfg, slog.Default())
			if err != nil {
				return err
			}
			if err := writer.Write(cmd.Context(), export.Report{
				Title:   title,
				Columns: columns,
				Records: records,
			}); err != nil {
				return err
			}

			cli.NewNotifier(os.Stdout).Success(fmt.Sprintf("Exported %d records", len(records)))
			return nil
		},
	}

	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet", "", "existing spreadsheet ID to write into")
	cmd.Flags().StringVar(&sheetName, "name", "", "name for a newly created spreadsheet")

	return cmd
}

// buildExportReport fetches the named report and flattens it into
// exportable rows. Ledger-wise nesting is flattened bill-wise here; a
// spreadsheet has no child rows.
func buildExportReport(ctx context.Context, client *api.Client, report string, args []string) (string, []tabular.ColumnSpec, []tabular.Record, error) {
	switch report {
	case "companies":
		companies, err := fetchWithRetry(ctx, client.SyncedCompanies)
		if err != nil {
			return "", nil, nil, err
		}
		records := make([]tabular.Record, 0, len(companies))
		for _, company := range companies {
			records = append(records, companyRecord(company))
		}
		return "Synced Companies", companyColumns(), records, nil
	}

	company, err := requireCompany(args)
	if err != nil {
		return "", nil, nil, err
	}

	switch report {
	case "ledgers":
		ledgers, fetchErr := fetchWithRetry(ctx, func(ctx context.Context) ([]model.Ledger, error) {
			return client.Ledgers(ctx, company)
		})
		if fetchErr != nil {
			return "", nil, nil, fetchErr
		}
		records := make([]tabular.Record, 0, len(ledgers))
		for _, ledger := range ledgers {
			records = append(records, ledger.Record())
		}
		return fmt.Sprintf("Ledgers - %s", company), ledgerColumns(), records, nil

	case "vouchers":
		vouchers, fetchErr := fetchWithRetry(ctx, func(ctx context.Context) ([]model.Voucher, error) {
			return client.Vouchers(ctx, service.VoucherFilter{Company: company})
		})
		if fetchErr != nil {
			return "", nil, nil, fetchErr
		}
		records := make([]tabular.Record, 0, len(vouchers))
		for _, voucher := range vouchers {
			records = append(records, voucher.Record())
		}
		return fmt.Sprintf("Vouchers - %s", company), voucherColumns(), records, nil

	case "outstanding-receivable", "outstanding-payable":
		kind := "receivable"
		if report == "outstanding-payable" {
			kind = "payable"
		}
		bills, fetchErr := fetchWithRetry(ctx, func(ctx context.Context) ([]model.Bill, error) {
			return client.OutstandingBills(ctx, company, kind)
		})
		if fetchErr != nil {
			return "", nil, nil, fetchErr
		}
		records := make([]tabular.Record, 0, len(bills))
		for _, bill := range bills {
			records = append(records, bill.Record())
		}
		return fmt.Sprintf("Outstanding %s - %s", kind, company), billColumns(), records, nil
	}

	return "", nil, nil, fmt.Errorf("unknown report %q", report)
}

// loadExportConfig reads the sheets credentials from the config file.
func loadExportConfig() export.Config {
	cfg := export.DefaultConfig()
	if v := viper.GetString("sheets.service_account_path"); v != "" {
		cfg.ServiceAccountPath = config.ExpandPath(v)
	}
	if v := viper.GetString("sheets.client_id"); v != "" {
		cfg.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		cfg.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		cfg.RefreshToken = v
	}
	if v := viper.GetString("sheets.spreadsheet_id"); v != "" {
		cfg.SpreadsheetID = v
	}
	if v := viper.GetString("sheets.spreadsheet_name"); v != "" {
		cfg.SpreadsheetName = v
	}
	return cfg
}
