package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	jsonLogs   bool
)

var rootCmd = &cobra.Command{
	Use:   "league",
	Short: "Reconcile croquet league match reports and compute standings",
	Long: `Reads the captains' match report export, applies admin corrections,
pairs up the two captains' reports of each fixture, and builds the league
tables, game log and the list of notices for captains and the rankings officer.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		if jsonLogs {
			log.SetFormatter(log.JSONFormatter)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "league.yaml", "Path to the league file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Log as JSON")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
