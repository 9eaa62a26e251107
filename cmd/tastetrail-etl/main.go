// Package main is the entry point for tastetrail-etl.
package main

import (
	"fmt"
	"os"

	"github.com/tastetrail/tastetrail-etl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
