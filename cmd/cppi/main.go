// Package main is the entry point for the CPPI simulator.
//
// The binary backtests a Constant Proportion Portfolio Insurance strategy
// over historical daily returns (cppi run), serves the same simulation over
// HTTP (cppi serve), and re-reads archived runs (cppi inspect).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
