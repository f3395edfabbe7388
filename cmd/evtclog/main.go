package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "evtclog",
	Short: "Parse EVTC combat logs and compute encounter statistics",
	Long: `evtclog parses EVTC binary combat logs produced by the game telemetry
addon and computes encounter analytics: damage attribution, buff uptimes,
per-player rollups, and phase/result/mode classification.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
