// Package cli provides the command-line interface for homeledger.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/homeledger/homeledger/internal/client"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	serverURL string
	verbose   bool

	// API client shared by all commands.
	api *client.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "homeledger",
	Short: "Conversational home expense tracker",
	Long: `HomeLedger tracks household bills and expenses through a conversational
assistant. Talk to it in plain language to add bills, list what's due,
and get spending summaries, or use the direct subcommands.

All commands talk to a running homeledger-server
(HOMELEDGER_SERVER_URL, default http://localhost:8787).`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		api = client.New(serverURL)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (default $HOMELEDGER_SERVER_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(billsCmd)
	rootCmd.AddCommand(upcomingCmd)
	rootCmd.AddCommand(overdueCmd)
	rootCmd.AddCommand(payCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(categoriesCmd)
}
