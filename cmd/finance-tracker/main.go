package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "finance-tracker",
	Short: "Categorize bank and credit card activity into a spending report",
	Long: `Finance Tracker is a tool for processing bank and credit card activity
exports, categorizing transactions based on configurable substring rules,
and generating an xlsx report of daily, monthly and yearly totals.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Finance Tracker v1.0.0")
		fmt.Println("Use --help for available commands")
	},
}
