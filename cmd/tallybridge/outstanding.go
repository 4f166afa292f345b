package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallybridge/tallybridge/internal/model"
	"github.com/tallybridge/tallybridge/internal/tabular"
)

func outstandingCmd() *cobra.Command {
	var ledgerWise bool
	flags := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "outstanding <receivable|payable> [company]",
		Short: "Browse outstanding bills",
		Long: `Show open bills either bill-wise (one row per bill) or ledger-wise
(one row per party with its bills nested beneath).`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			if kind != "receivable" && kind != "payable" {
				return fmt.Errorf("unknown report %q: want receivable or payable", kind)
			}
			company, err := requireCompany(args[1:])
			if err != nil {
				return err
			}
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			title := fmt.Sprintf("Outstanding %s - %s", kind, company)

			if ledgerWise {
				parties, fetchErr := fetchWithRetry(cmd.Context(), func(ctx context.Context) ([]model.OutstandingParty, error) {
					return client.OutstandingParties(ctx, company, kind)
				})
				if fetchErr != nil {
					return fmt.Errorf("failed to fetch outstanding report: %w", fetchErr)
				}

				records := make([]tabular.Record, 0, len(parties))
				for _, party := range parties {
					records = append(records, party.Record())
				}
				return flags.render(title, partyColumns(), tabular.Config{
					Searchable:   true,
					ChildKey:     "bills",
					EmptyMessage: "No outstanding bills",
				}, records)
			}

			bills, err := fetchWithRetry(cmd.Context(), func(ctx context.Context) ([]model.Bill, error) {
				return client.OutstandingBills(ctx, company, kind)
			})
			if err != nil {
				return fmt.Errorf("failed to fetch outstanding report: %w", err)
			}

			records := make([]tabular.Record, 0, len(bills))
			for _, bill := range bills {
				records = append(records, bill.Record())
			}
			return flags.render(title, billColumns(), tabular.Config{
				Searchable:   true,
				EmptyMessage: "No outstanding bills",
			}, records)
		},
	}

	cmd.Flags().BoolVar(&ledgerWise, "ledger-wise", false, "group bills by party ledger")
	flags.register(cmd)

	return cmd
}
