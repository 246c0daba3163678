package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rwxiao/shop-pricer/internal/calc"
	"github.com/rwxiao/shop-pricer/pkg/logger"
	"github.com/rwxiao/shop-pricer/pkg/pricing"
	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

func calcCmd() *cobra.Command {
	calcRoot := &cobra.Command{
		Use:   "calc",
		Short: "Run a pricing calculator",
		Long: "Run one of the Pinduoduo or Douyin pricing calculators locally.\n" +
			"Pass --save to append the result to the server's history log.",
	}

	calcRoot.AddCommand(
		calcGroupCmd(),
		calcActivityCmd(),
		calcCouponCmd(),
		calcLowPriceCmd(),
		calcRetailCmd(),
		calcFlashCmd(),
	)

	return calcRoot
}

// saveRecord fills the shared record fields and posts it to the server.
func saveRecord(r *domain.HistoryRecord) error {
	r.Platform = domain.PlatformFor(r.Type)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := newClient().AppendRecord(ctx, r); err != nil {
		return fmt.Errorf("saving record: %w", err)
	}

	fmt.Println("Saved record", r.ID)
	return nil
}

func calcGroupCmd() *cobra.Command {
	var (
		supply      float64
		group       float64
		addition    float64
		marketMax   float64
		profitRate  float64
		interactive bool
		save        bool
	)

	cmd := &cobra.Command{
		Use:   "group",
		Short: "Group-buy pricing with the flash discount",
		Example: `  # Price a ¥15 item sold at ¥21 with a ¥6 addition
  spc calc group --supply 15 --group 21 --addition 6

  # Solve the group price for a 12% profit rate, capped at ¥19
  spc calc group --supply 17.51 --rate 0.12 --max 19

  # Drive a live session from stdin (field=value per line)
  spc calc group --interactive`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if interactive {
				return runGroupInteractive()
			}

			if profitRate > 0 {
				price, capped := pricing.PriceForProfitRate(supply, profitRate, marketMax)
				if price == 0 {
					return fmt.Errorf("supply price must be positive")
				}
				if capped {
					fmt.Printf("Solved price ¥%.2f (capped at market max)\n", price)
				} else {
					fmt.Printf("Solved price ¥%.2f\n", price)
				}
				group = price
			}

			result, ok := pricing.ComputeGroup(pricing.GroupInput{
				SupplyPrice:    supply,
				GroupPrice:     group,
				PriceAddition:  addition,
				MarketMaxPrice: marketMax,
			})
			if !ok {
				return fmt.Errorf("supply and group price must be positive")
			}

			if jsonOutput() {
				if err := outputJSON(result); err != nil {
					return err
				}
			} else if err := printGroupResult(&result); err != nil {
				return err
			}

			if !save {
				return nil
			}
			return saveRecord(&domain.HistoryRecord{
				Type:           domain.CalcGroup,
				SupplyPrice:    supply,
				GroupPrice:     group,
				PriceAddition:  addition,
				MarketMaxPrice: marketMax,
				BackendPrice:   result.BackendPrice,
				SinglePrice:    result.SinglePrice,
				DiscountPrice:  result.DiscountPrice,
				PlatformFee:    result.GroupPlatformFee,
				Profit:         result.GroupProfit,
				ProfitRate:     result.ProfitRate,
			})
		},
	}
	cmd.Flags().Float64Var(&supply, "supply", 0, "supply price")
	cmd.Flags().Float64Var(&group, "group", 0, "group-buy price")
	cmd.Flags().Float64Var(&addition, "addition", 0, "price addition")
	cmd.Flags().Float64Var(&marketMax, "max", 0, "market max price (0 disables the cap)")
	cmd.Flags().Float64Var(&profitRate, "rate", 0, "solve the group price for this profit rate")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "drive a live session from stdin")
	cmd.Flags().BoolVar(&save, "save", false, "append the result to history")

	return cmd
}

// runGroupInteractive reads field=value lines from stdin and drives a live
// group session against the server. Edits are debounced into history the
// same way the browser calculator saves them.
func runGroupInteractive() error {
	log := logger.NewWithWriter(os.Stderr, "warn", "text")
	session := calc.NewGroupSession(newClient(), calc.WithLogger(log))
	defer session.Close()

	fmt.Println("Enter supply=, group=, addition=, max= or rate= lines; EOF ends the session.")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		field, raw, found := strings.Cut(line, "=")
		if !found {
			fmt.Fprintln(os.Stderr, "expected field=value")
			continue
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			fmt.Fprintln(os.Stderr, "bad value:", raw)
			continue
		}

		switch strings.TrimSpace(field) {
		case "supply":
			session.SetSupplyPrice(value)
		case "group":
			session.SetGroupPrice(value)
		case "addition":
			session.SetPriceAddition(value)
		case "max":
			session.SetMarketMaxPrice(value)
		case "rate":
			price, capped := session.SetPriceByProfitRate(value)
			if capped {
				fmt.Printf("Solved price ¥%.2f (capped at market max)\n", price)
			} else if price > 0 {
				fmt.Printf("Solved price ¥%.2f\n", price)
			}
		default:
			fmt.Fprintln(os.Stderr, "unknown field:", field)
			continue
		}

		if _, result, ok := session.Snapshot(); ok {
			if err := printGroupResult(&result); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

func calcActivityCmd() *cobra.Command {
	var (
		supply float64
		target float64
		coupon float64
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Solve the 7%-off activity console price",
		Example: `  # Land buyers on ¥17.8 after the discount and a ¥6 coupon
  spc calc activity --supply 13.37 --target 17.8 --coupon 6`,
		RunE: func(_ *cobra.Command, _ []string) error {
			result, ok := pricing.ComputeActivity(pricing.ActivityInput{
				SupplyPrice: supply,
				TargetPrice: target,
				CouponFee:   coupon,
			})
			if !ok {
				return fmt.Errorf("supply and target price must be positive")
			}

			if jsonOutput() {
				if err := outputJSON(result); err != nil {
					return err
				}
			} else if err := printActivityResult(&result); err != nil {
				return err
			}

			if !save {
				return nil
			}
			return saveRecord(&domain.HistoryRecord{
				Type:         domain.CalcActivity,
				SupplyPrice:  supply,
				TargetPrice:  target,
				CouponAmount: coupon,
				ListingPrice: result.ListingPrice,
				PlatformFee:  result.PlatformFee,
				Profit:       result.FinalProfit,
				ProfitRate:   result.ProfitRate,
			})
		},
	}
	cmd.Flags().Float64Var(&supply, "supply", 0, "supply price")
	cmd.Flags().Float64Var(&target, "target", 0, "target take-home price")
	cmd.Flags().Float64Var(&coupon, "coupon", 0, "seller-funded coupon fee")
	cmd.Flags().BoolVar(&save, "save", false, "append the result to history")

	return cmd
}

func calcCouponCmd() *cobra.Command {
	var (
		supply   float64
		expected float64
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "coupon",
		Short: "Exposed new-user coupon pricing",
		Example: `  # Sell a ¥10 item so the buyer pays ¥20 after the coupon
  spc calc coupon --supply 10 --expected 20`,
		RunE: func(_ *cobra.Command, _ []string) error {
			result, ok := pricing.ComputeCoupon(pricing.CouponInput{
				SupplyPrice:   supply,
				ExpectedPrice: expected,
			})
			if !ok {
				return fmt.Errorf("supply and expected price must be positive")
			}

			if jsonOutput() {
				if err := outputJSON(result); err != nil {
					return err
				}
			} else if err := printCouponResult(&result); err != nil {
				return err
			}

			if !save {
				return nil
			}
			return saveRecord(&domain.HistoryRecord{
				Type:         domain.CalcCoupon,
				SupplyPrice:  supply,
				TargetPrice:  expected,
				ListingPrice: result.ListingPrice,
				CouponAmount: result.CouponAmount,
				NewUserPrice: result.NewUserPrice,
				PlatformFee:  result.PlatformFee,
				Profit:       result.Profit,
				ProfitRate:   result.ProfitRate,
			})
		},
	}
	cmd.Flags().Float64Var(&supply, "supply", 0, "supply price")
	cmd.Flags().Float64Var(&expected, "expected", 0, "price the buyer should pay")
	cmd.Flags().BoolVar(&save, "save", false, "append the result to history")

	return cmd
}

func calcLowPriceCmd() *cobra.Command {
	var (
		supply  float64
		target  float64
		noFlash bool
		save    bool
	)

	cmd := &cobra.Command{
		Use:   "lowprice",
		Short: "Low-price entry with flash discount and new-user coupon",
		Long: "Derives the low-price entry chain forward from the supply price.\n" +
			"Passing --target switches to the backward mode and solves the\n" +
			"listing from the desired final price instead.",
		Example: `  # Forward from a ¥10 supply price
  spc calc lowprice --supply 10

  # Backward: what listing lands the buyer on ¥11?
  spc calc lowprice --supply 10 --target 11`,
		RunE: func(_ *cobra.Command, _ []string) error {
			in := pricing.LowPriceInput{
				SupplyPrice:      supply,
				TargetFinalPrice: target,
				FlashEnabled:     !noFlash,
			}

			var (
				result pricing.LowPriceResult
				ok     bool
			)
			if target > 0 {
				result, ok = pricing.SolveLowPrice(in)
			} else {
				result, ok = pricing.ComputeLowPrice(in)
			}
			if !ok {
				return fmt.Errorf("supply price must be positive")
			}

			if jsonOutput() {
				if err := outputJSON(result); err != nil {
					return err
				}
			} else if err := printLowPriceResult(&result); err != nil {
				return err
			}

			if !save {
				return nil
			}
			return saveRecord(&domain.HistoryRecord{
				Type:         domain.CalcLowPrice,
				SupplyPrice:  supply,
				TargetPrice:  target,
				ListingPrice: result.ListingPrice,
				CouponAmount: result.NewUserCoupon,
				FinalPrice:   result.FinalPrice,
				PlatformFee:  result.PlatformFee,
				Profit:       result.Profit,
				ProfitRate:   result.ProfitRate,
			})
		},
	}
	cmd.Flags().Float64Var(&supply, "supply", 0, "supply price")
	cmd.Flags().Float64Var(&target, "target", 0, "desired final price (enables backward mode)")
	cmd.Flags().BoolVar(&noFlash, "no-flash", false, "disable the limited-time discount")
	cmd.Flags().BoolVar(&save, "save", false, "append the result to history")

	return cmd
}

func calcRetailCmd() *cobra.Command {
	var (
		supply float64
		retail float64
		coupon float64
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "retail",
		Short: "New-user retail price matching",
		Example: `  # Land new users on a ¥12 shelf price for a ¥10 item
  spc calc retail --supply 10 --retail 12

  # Override the solved gift with a manual ¥5 coupon
  spc calc retail --supply 10 --retail 12 --coupon 5`,
		RunE: func(_ *cobra.Command, _ []string) error {
			result, ok := pricing.ComputeRetail(pricing.RetailInput{
				SupplyPrice: supply,
				RetailPrice: retail,
			})
			if !ok {
				return fmt.Errorf("supply and retail price must be positive")
			}
			if coupon > 0 {
				manual := pricing.RetailWithCoupon(result.SellerViewPrice, coupon, retail)
				manual.SettingPrice = result.SettingPrice
				result = manual
			}

			if jsonOutput() {
				if err := outputJSON(result); err != nil {
					return err
				}
			} else if err := printRetailResult(&result); err != nil {
				return err
			}

			if !save {
				return nil
			}
			return saveRecord(&domain.HistoryRecord{
				Type:         domain.CalcRetail,
				SupplyPrice:  supply,
				TargetPrice:  retail,
				ListingPrice: result.SettingPrice,
				CouponAmount: result.CouponAmount,
				FinalPrice:   result.FinalPrice,
			})
		},
	}
	cmd.Flags().Float64Var(&supply, "supply", 0, "supply price")
	cmd.Flags().Float64Var(&retail, "retail", 0, "target shelf price for new users")
	cmd.Flags().Float64Var(&coupon, "coupon", 0, "manual coupon override")
	cmd.Flags().BoolVar(&save, "save", false, "append the result to history")

	return cmd
}

func calcFlashCmd() *cobra.Command {
	var (
		supply       float64
		original     float64
		discount     float64
		targetProfit float64
		coupon       float64
		save         bool
	)

	cmd := &cobra.Command{
		Use:   "flash",
		Short: "Flash-sale coupon solver",
		Example: `  # Size the coupon that leaves ¥1.50 on a 30%-off flash sale
  spc calc flash --supply 10 --original 30 --discount 0.7 --profit 1.5`,
		RunE: func(_ *cobra.Command, _ []string) error {
			result, ok := pricing.SolveFlashCoupon(pricing.FlashInput{
				SupplyPrice:   supply,
				OriginalPrice: original,
				DiscountRate:  discount,
				TargetProfit:  targetProfit,
				Coupon:        coupon,
			})
			if !ok {
				return fmt.Errorf("supply, original price and discount rate must be positive")
			}

			if jsonOutput() {
				if err := outputJSON(result); err != nil {
					return err
				}
			} else if err := printFlashResult(&result); err != nil {
				return err
			}

			if !save {
				return nil
			}
			return saveRecord(&domain.HistoryRecord{
				Type:          domain.CalcFlashProfit,
				SupplyPrice:   supply,
				OriginalPrice: original,
				DiscountRate:  discount,
				CouponAmount:  result.Coupon,
				FinalPrice:    result.ExposedPrice - result.Coupon,
				PlatformFee:   result.Commission,
				Profit:        result.Profit,
				ProfitRate:    result.ProfitRate,
			})
		},
	}
	cmd.Flags().Float64Var(&supply, "supply", 0, "supply price")
	cmd.Flags().Float64Var(&original, "original", 0, "storefront original price")
	cmd.Flags().Float64Var(&discount, "discount", 0, "discount rate as a fraction (0.7 for 30% off)")
	cmd.Flags().Float64Var(&targetProfit, "profit", 0, "target profit after commission")
	cmd.Flags().Float64Var(&coupon, "coupon", 0, "manual coupon; bypasses the solver")
	cmd.Flags().BoolVar(&save, "save", false, "append the result to history")

	return cmd
}
