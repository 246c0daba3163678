// Package cmd implements the CLI commands for the shop-pricer server.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rwxiao/shop-pricer/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "shop-pricer",
	Short: "Pricing calculators for Pinduoduo and Douyin sellers",
	Long: "An API-first service that backs seller pricing calculators for\n" +
		"Pinduoduo and Douyin: group-buy, activity, coupon, low-price,\n" +
		"retail and flash-sale formulas, vendor-text batch parsing, and a\n" +
		"capped calculation history log.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configured file. A missing file is only an error when
// the operator asked for one explicitly; otherwise defaults apply.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !rootCmd.PersistentFlags().Changed("config") {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
