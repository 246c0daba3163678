// Package main is the entry point for the shop-pricer server.
package main

import (
	"os"

	"github.com/rwxiao/shop-pricer/cmd/shop-pricer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
