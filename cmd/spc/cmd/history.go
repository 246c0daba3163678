package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/rwxiao/shop-pricer/internal/api/client"
)

func historyCmd() *cobra.Command {
	historyRoot := &cobra.Command{
		Use:   "history",
		Short: "Manage the calculation history log",
		Long: "List, inspect and delete saved calculation records. The server\n" +
			"keeps at most the 50 most recent records.",
	}

	historyRoot.AddCommand(
		historyListCmd(),
		historyGetCmd(),
		historyDeleteCmd(),
		historyClearCmd(),
	)

	return historyRoot
}

func historyListCmd() *cobra.Command {
	var (
		calcType string
		platform string
		limit    int
		offset   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List history records, most recent first",
		Example: `  # Everything, newest first
  spc history list

  # Only group-buy calculations
  spc history list --type pdd_group

  # Only Douyin calculators
  spc history list --platform douyin`,
		RunE: func(_ *cobra.Command, _ []string) error {
			page, err := newClient().ListHistory(context.Background(), apiclient.HistoryFilter{
				Type:     calcType,
				Platform: platform,
				Limit:    limit,
				Offset:   offset,
			})
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(page)
			}

			if len(page.Records) == 0 {
				fmt.Println("No records found.")
				return nil
			}

			fmt.Printf("Showing %d of %d records\n\n", len(page.Records), page.Total)
			return printHistoryTable(page.Records)
		},
	}
	cmd.Flags().StringVar(&calcType, "type", "", "calculation type filter")
	cmd.Flags().StringVar(&platform, "platform", "", "platform filter (pdd, douyin)")
	cmd.Flags().IntVar(&limit, "limit", 50, "number of results")
	cmd.Flags().IntVar(&offset, "offset", 0, "result offset")

	return cmd
}

func historyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Short:   "Show record details",
		Example: `  spc history get abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			r, err := newClient().GetHistory(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(r)
			}

			return printHistoryDetail(r)
		},
	}
}

func historyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete one record",
		Example: `  spc history delete abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := newClient().DeleteHistory(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted", args[0])
			return nil
		},
	}
}

func historyClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every record",
		RunE: func(_ *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear history without --yes")
			}
			if err := newClient().ClearHistory(context.Background()); err != nil {
				return err
			}
			fmt.Println("History cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing all records")

	return cmd
}
