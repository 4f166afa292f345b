package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallybridge/tallybridge/internal/model"
	"github.com/tallybridge/tallybridge/internal/service"
	"github.com/tallybridge/tallybridge/internal/tabular"
)

func vouchersCmd() *cobra.Command {
	var (
		voucherType string
		fromDate    string
		toDate      string
	)
	flags := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "vouchers [company]",
		Short: "Browse the voucher register",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			company, err := requireCompany(args)
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

			filter := service.VoucherFilter{
				Company:     company,
				VoucherType: voucherType,
			}
			if dateRange != nil {
				from, to := dateRange.From, dateRange.To
				filter.From, filter.To = &from, &to
			}

			vouchers, err := fetchWithRetry(cmd.Context(), func(ctx context.Context) ([]model.Voucher, error) {
				return client.Vouchers(ctx, filter)
			})
			if err != nil {
				return fmt.Errorf("failed to fetch vouchers: %w", err)
			}

			records := make([]tabular.Record, 0, len(vouchers))
			for _, voucher := range vouchers {
				records = append(records, voucher.Record())
			}

			return flags.render(
				fmt.Sprintf("Vouchers - %s", company),
				voucherColumns(),
				tabular.Config{Searchable: true, EmptyMessage: "No vouchers found"},
				records,
			)
		},
	}

	cmd.Flags().StringVar(&voucherType, "type", "", "filter by voucher type (Sales, Payment, ...)")
	cmd.Flags().StringVar(&fromDate, "from", "", "period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toDate, "to", "", "period end (YYYY-MM-DD)")
	flags.register(cmd)

	return cmd
}
