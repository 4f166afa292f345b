package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tallybridge/tallybridge/internal/api"
	"github.com/tallybridge/tallybridge/internal/cli"
	"github.com/tallybridge/tallybridge/internal/model"
	"github.com/tallybridge/tallybridge/internal/tabular"
)

func companiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "companies",
		Short: "Manage synced companies",
	}

	cmd.AddCommand(listCompaniesCmd())
	cmd.AddCommand(deleteCompanyCmd())

	return cmd
}

func listCompaniesCmd() *cobra.Command {
	flags := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List companies synced to the backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			companies, err := fetchWithRetry(cmd.Context(), client.SyncedCompanies)
			if err != nil {
				return fmt.Errorf("failed to list companies: %w", err)
			}

			records := make([]tabular.Record, 0, len(companies))
			for _, company := range companies {
				records = append(records, companyRecord(company))
			}

			return flags.render("Synced Companies", companyColumns(), tabular.Config{
				Searchable:   true,
				EmptyMessage: "No companies synced yet",
			}, records)
		},
	}

	flags.register(cmd)
	return cmd
}

func companyRecord(c model.Company) tabular.Record {
	return tabular.Record{
		"company_name":   c.Name,
		"books_from":     c.BooksFrom,
		"books_to":       c.BooksTo,
		"last_synced_at": c.LastSyncedAt,
	}
}

func deleteCompanyCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <company>",
		Short: "Delete all synced data for a company",
		Long: `Permanently remove the company's synced data from the backend
database. The company itself stays in Tally; a later sync re-creates it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			company := args[0]
			notify := cli.NewNotifier(os.Stdout)

			if !yes {
				warning := fmt.Sprintf("This permanently deletes all synced data for %q. Type the company name to confirm.", company)
				if !cli.ConfirmTyped(os.Stdin, os.Stderr, warning, company) {
					notify.Info("Aborted.")
					return nil
				}
			}

			client, err := newAPIClient()
			if err != nil {
				return err
			}
			if err := client.DeleteCompany(cmd.Context(), company); err != nil {
				return fmt.Errorf("failed to delete company: %w", err)
			}

			notify.Success(fmt.Sprintf("Deleted synced data for %s", company))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip the typed confirmation")
	return cmd
}

// companiesForBatch lists every synced company as a batch item, used by
// auto-sync rounds.
func companiesForBatch(client *api.Client) func(ctx context.Context) ([]model.BatchItem, error) {
	return func(ctx context.Context) ([]model.BatchItem, error) {
		companies, err := client.SyncedCompanies(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]model.BatchItem, 0, len(companies))
		for _, company := range companies {
			items = append(items, model.BatchItem{Company: company.Name})
		}
		return items, nil
	}
}
