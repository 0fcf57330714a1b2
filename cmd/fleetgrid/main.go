// Package main provides the fleetgrid CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/fleetgrid/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
