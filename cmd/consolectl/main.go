// Package main provides consolectl, a small companion CLI for the sandbox
// console service. It regenerates the simulated usage dataset and prints
// aggregate statistics without needing a running server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "consolectl",
	Short: "Companion tooling for the sandbox console service",
	Long: `consolectl works with the simulated usage dataset the console serves.
It can regenerate the dataset with fresh randomized traffic and inspect
the aggregates for each dashboard period.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
