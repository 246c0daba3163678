package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	apiclient "github.com/rwxiao/shop-pricer/internal/api/client"
	"github.com/rwxiao/shop-pricer/internal/batch"
	"github.com/rwxiao/shop-pricer/pkg/pricing"
	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

func batchCmd() *cobra.Command {
	var (
		addition  float64
		sellPrice float64
		remote    bool
		save      bool
	)

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Parse pasted vendor text into batch rows",
		Long: "Parses vendor quote text into (spec, supply price) rows and prices\n" +
			"each row once a sell price is given. Text comes from a file argument\n" +
			"or stdin.",
		Example: `  # Parse a saved vendor quote and price every row at ¥30
  spc batch quote.txt --sell-price 30 --addition 6

  # Pipe the clipboard through the server-side parser
  spc batch --remote < quote.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			text, err := readBatchText(file)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			var rows []domain.ProductRow
			if remote {
				result, err := newClient().ParseBatch(ctx, apiclient.BatchParseRequest{
					Text:          text,
					PriceAddition: addition,
					SellPrice:     sellPrice,
				})
				if err != nil {
					return err
				}
				rows = result.Rows
			} else {
				rows = batch.Parse(text)
				if sellPrice > 0 {
					for i := range rows {
						rows[i].SellPrice = sellPrice
						priceRow(&rows[i], addition)
					}
				}
			}

			if len(rows) == 0 {
				fmt.Println("No rows parsed.")
				return nil
			}

			if jsonOutput() {
				if err := outputJSON(rows); err != nil {
					return err
				}
			} else {
				fmt.Printf("Parsed %d rows\n\n", len(rows))
				if err := printRowsTable(rows); err != nil {
					return err
				}
			}

			if !save {
				return nil
			}
			return saveBatchRecord(ctx, rows)
		},
	}
	cmd.Flags().Float64Var(&addition, "addition", 0, "price addition applied to every row")
	cmd.Flags().Float64Var(&sellPrice, "sell-price", 0, "sell price applied to every row")
	cmd.Flags().BoolVar(&remote, "remote", false, "parse on the server instead of locally")
	cmd.Flags().BoolVar(&save, "save", false, "append the priced rows to history")

	return cmd
}

func readBatchText(file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading vendor text: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func priceRow(row *domain.ProductRow, addition float64) {
	r, ok := pricing.ComputeBatchRow(row.SupplyPrice, row.SellPrice, addition)
	if !ok {
		return
	}
	row.GroupPrice = r.GroupPrice
	row.DiscountedSellPrice = r.DiscountedSellPrice
	row.DiscountedGroupPrice = r.DiscountedGroupPrice
	row.Profit = r.Profit
	row.DiscountedProfit = r.DiscountedProfit
}

// saveBatchRecord snapshots the priced rows into one history record.
// Rows without a sell price are left out, matching the browser behavior.
func saveBatchRecord(ctx context.Context, rows []domain.ProductRow) error {
	products := make([]domain.BatchProduct, 0, len(rows))
	for i := range rows {
		if rows[i].SellPrice <= 0 {
			continue
		}
		products = append(products, domain.BatchProduct{
			Spec:        rows[i].Spec,
			SupplyPrice: rows[i].SupplyPrice,
			SellPrice:   rows[i].SellPrice,
		})
	}
	if len(products) == 0 {
		return fmt.Errorf("no rows have a sell price; nothing to save")
	}

	r := &domain.HistoryRecord{
		Type:         domain.CalcBatch,
		Platform:     domain.PlatformPDD,
		ProductCount: len(products),
		Products:     products,
	}
	if err := newClient().AppendRecord(ctx, r); err != nil {
		return fmt.Errorf("saving record: %w", err)
	}

	fmt.Println("Saved record", r.ID)
	return nil
}
