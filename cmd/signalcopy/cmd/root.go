package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "signalcopy",
	Short: "Copy free-text trading alerts into pending orders",
	Long: `Signalcopy watches an alert channel, parses each message into a typed
trade intent, and places risk-bounded pending orders on the trading venue.

It places pending orders only (limit or stop, chosen against the live
quote), computes its own target-profit take-profit levels, applies
stop-loss updates from the channel to working orders and open positions,
and keeps its view of in-flight orders reconciled against the venue.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
