// Package main is the entry point for the spc CLI client.
package main

import (
	"github.com/rwxiao/shop-pricer/cmd/spc/cmd"
)

func main() {
	cmd.Execute()
}
