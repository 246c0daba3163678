package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rwxiao/shop-pricer/pkg/pricing"
	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printHistoryTable(records []domain.HistoryRecord) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tTIME\tTYPE\tPLATFORM\tSUPPLY\tPROFIT\n")
	for i := range records {
		r := &records[i]
		profit := "-"
		if r.Type != domain.CalcBatch {
			profit = fmt.Sprintf("¥%.2f", r.Profit)
		}
		tw.writef("%s\t%s\t%s\t%s\t¥%.2f\t%s\n",
			r.ID,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Type,
			r.Platform,
			r.SupplyPrice,
			profit,
		)
	}
	return tw.finish()
}

func printHistoryDetail(r *domain.HistoryRecord) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", r.ID)
	tw.writef("Time:\t%s\n", r.Timestamp.Format("2006-01-02 15:04:05"))
	tw.writef("Type:\t%s\n", r.Type)
	tw.writef("Platform:\t%s\n", r.Platform)

	writeMoney := func(label string, v float64) {
		if v != 0 {
			tw.writef("%s:\t¥%.2f\n", label, v)
		}
	}

	writeMoney("Supply Price", r.SupplyPrice)
	writeMoney("Group Price", r.GroupPrice)
	writeMoney("Price Addition", r.PriceAddition)
	writeMoney("Backend Price", r.BackendPrice)
	writeMoney("Single Price", r.SinglePrice)
	writeMoney("Discount Price", r.DiscountPrice)
	writeMoney("Market Max", r.MarketMaxPrice)
	writeMoney("Target Price", r.TargetPrice)
	writeMoney("Listing Price", r.ListingPrice)
	writeMoney("Coupon", r.CouponAmount)
	writeMoney("New User Price", r.NewUserPrice)
	writeMoney("Final Price", r.FinalPrice)
	writeMoney("Original Price", r.OriginalPrice)
	if r.DiscountRate != 0 {
		tw.writef("Discount Rate:\t%.2f\n", r.DiscountRate)
	}
	writeMoney("Platform Fee", r.PlatformFee)
	if r.Type != domain.CalcBatch {
		tw.writef("Profit:\t¥%.2f\n", r.Profit)
	}
	if r.ProfitRate != 0 {
		tw.writef("Profit Rate:\t%.2f\n", r.ProfitRate)
	}

	if r.ProductCount > 0 {
		tw.writef("Products:\t%d\n", r.ProductCount)
		for i := range r.Products {
			p := &r.Products[i]
			tw.writef("  %s\t¥%.2f → ¥%.2f\n", p.Spec, p.SupplyPrice, p.SellPrice)
		}
	}

	return tw.finish()
}

func printRowsTable(rows []domain.ProductRow) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("SPEC\tSUPPLY\tSELL\tGROUP\tDISC SELL\tDISC GROUP\tPROFIT\tDISC PROFIT\n")
	for i := range rows {
		r := &rows[i]
		if r.SellPrice <= 0 {
			tw.writef("%s\t¥%.2f\t-\t-\t-\t-\t-\t-\n", r.Spec, r.SupplyPrice)
			continue
		}
		tw.writef("%s\t¥%.2f\t¥%.2f\t¥%.2f\t¥%.2f\t¥%.2f\t¥%.2f\t¥%.2f\n",
			r.Spec,
			r.SupplyPrice,
			r.SellPrice,
			r.GroupPrice,
			r.DiscountedSellPrice,
			r.DiscountedGroupPrice,
			r.Profit,
			r.DiscountedProfit,
		)
	}
	return tw.finish()
}

func printGroupResult(r *pricing.GroupResult) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Backend Price:\t¥%.2f\n", r.BackendPrice)
	tw.writef("Single Price:\t¥%.2f\n", r.SinglePrice)
	tw.writef("Discount Price:\t¥%.2f\n", r.DiscountPrice)
	tw.writef("Group Fee:\t¥%.2f\n", r.GroupPlatformFee)
	tw.writef("Single Fee:\t¥%.2f\n", r.SinglePlatformFee)
	tw.writef("Group Profit:\t¥%.2f\n", r.GroupProfit)
	tw.writef("Single Profit:\t¥%.2f\n", r.SingleProfit)
	tw.writef("Discount Profit:\t¥%.2f\n", r.DiscountProfit)
	tw.writef("Profit Rate:\t%.1f%%\n", r.ProfitRate*100)
	if r.ExceedsMarketCap {
		tw.writef("Warning:\tgroup price exceeds the market cap\n")
	}
	return tw.finish()
}

func printActivityResult(r *pricing.ActivityResult) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Listing Price:\t¥%.1f\n", r.ListingPrice)
	tw.writef("Verified Price:\t¥%.1f\n", r.VerifiedPrice)
	tw.writef("Platform Fee:\t¥%.2f\n", r.PlatformFee)
	tw.writef("Base Profit:\t¥%.2f\n", r.BaseProfit)
	tw.writef("Final Profit:\t¥%.2f\n", r.FinalProfit)
	tw.writef("Profit Rate:\t%.1f%%\n", r.ProfitRate*100)
	return tw.finish()
}

func printCouponResult(r *pricing.CouponResult) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Listing Price:\t¥%.0f\n", r.ListingPrice)
	tw.writef("Seller Price:\t¥%.2f\n", r.SellerPrice)
	tw.writef("Coupon:\t¥%.2f\n", r.CouponAmount)
	tw.writef("New User Price:\t¥%.2f\n", r.NewUserPrice)
	tw.writef("Platform Fee:\t¥%.2f\n", r.PlatformFee)
	tw.writef("Profit:\t¥%.2f\n", r.Profit)
	tw.writef("Profit Rate:\t%.1f%%\n", r.ProfitRate)
	return tw.finish()
}

func printLowPriceResult(r *pricing.LowPriceResult) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Listing Price:\t¥%.2f\n", r.ListingPrice)
	tw.writef("Flash Price:\t¥%.2f\n", r.FlashPrice)
	tw.writef("New User Coupon:\t¥%.2f\n", r.NewUserCoupon)
	tw.writef("Final Price:\t¥%.2f\n", r.FinalPrice)
	tw.writef("Platform Fee:\t¥%.2f\n", r.PlatformFee)
	tw.writef("Profit:\t¥%.2f\n", r.Profit)
	tw.writef("Profit Rate:\t%.1f%%\n", r.ProfitRate)
	return tw.finish()
}

func printRetailResult(r *pricing.RetailResult) error {
	tw := newTabWriter(os.Stdout)
	if r.SettingPrice > 0 {
		tw.writef("Setting Price:\t¥%.2f\n", r.SettingPrice)
	}
	tw.writef("Seller View:\t¥%.2f\n", r.SellerViewPrice)
	tw.writef("Coupon:\t¥%.2f\n", r.CouponAmount)
	tw.writef("Final Price:\t¥%.2f\n", r.FinalPrice)
	tw.writef("Adjustment:\t¥%.2f\n", r.Adjustment)
	return tw.finish()
}

func printFlashResult(r *pricing.FlashResult) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Exposed Price:\t¥%.2f\n", r.ExposedPrice)
	tw.writef("Commission:\t¥%.2f\n", r.Commission)
	tw.writef("Coupon:\t¥%.0f\n", r.Coupon)
	tw.writef("Profit:\t¥%.2f\n", r.Profit)
	tw.writef("Profit Rate:\t%.1f%%\n", r.ProfitRate*100)
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
