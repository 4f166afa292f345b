package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallybridge/tallybridge/internal/format"
	"github.com/tallybridge/tallybridge/internal/model"
	"github.com/tallybridge/tallybridge/internal/tabular"
)

func ledgersCmd() *cobra.Command {
	flags := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "ledgers [company]",
		Short: "Browse the ledger master list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			company, err := requireCompany(args)
			if err != nil {
				return err
			}
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			ledgers, err := fetchWithRetry(cmd.Context(), func(ctx context.Context) ([]model.Ledger, error) {
				return client.Ledgers(ctx, company)
			})
			if err != nil {
				return fmt.Errorf("failed to fetch ledgers: %w", err)
			}

			records := make([]tabular.Record, 0, len(ledgers))
			for _, ledger := range ledgers {
				records = append(records, ledger.Record())
			}

			return flags.render(
				fmt.Sprintf("Ledgers - %s", company),
				ledgerColumns(),
				tabular.Config{Searchable: true, EmptyMessage: "No ledgers found"},
				records,
			)
		},
	}

	flags.register(cmd)
	cmd.AddCommand(ledgerStatementCmd())

	return cmd
}

func ledgerStatementCmd() *cobra.Command {
	var (
		fromDate string
		toDate   string
	)
	flags := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "statement <ledger>",
		Short: "Show one ledger's statement with a running balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger := args[0]
			resolvedCompany, err := requireCompany(nil)
			if err != nil {
				return err
			}
			dateRange, err := parseDateRange(fromDate, toDate)
			if err != nil {
				return err
			}
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			type statement struct {
				entries []model.LedgerEntry
				summary model.LedgerSummary
			}
			result, err := fetchWithRetry(cmd.Context(), func(ctx context.Context) (statement, error) {
				entries, summary, fetchErr := client.LedgerStatement(ctx, resolvedCompany, ledger, dateRange)
				return statement{entries: entries, summary: summary}, fetchErr
			})
			if err != nil {
				return fmt.Errorf("failed to fetch statement: %w", err)
			}

			// Thread the running balance through the entries in statement
			// order, starting from the period's opening balance.
			balance := result.summary.OpeningBalance
			records := make([]tabular.Record, 0, len(result.entries))
			for _, entry := range result.entries {
				balance = format.RunningBalance(balance, entry.Debit, entry.Credit)
				rec := entry.Record()
				rec["balance"] = balance
				records = append(records, rec)
			}

			if err := flags.render(
				fmt.Sprintf("%s - %s", ledger, resolvedCompany),
				statementColumns(),
				tabular.Config{Searchable: true, EmptyMessage: "No transactions in this period"},
				records,
			); err != nil {
				return err
			}

			fmt.Printf("Opening %s    Debits %s    Credits %s    Closing %s\n",
				format.Currency(result.summary.OpeningBalance),
				format.Currency(result.summary.TotalDebit),
				format.Currency(result.summary.TotalCredit),
				format.Currency(result.summary.ClosingBalance))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromDate, "from", "", "period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toDate, "to", "", "period end (YYYY-MM-DD)")
	flags.register(cmd)

	return cmd
}
