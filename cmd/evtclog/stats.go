package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/evtclog/evtclog-go/pkg/evtc"
	"github.com/evtclog/evtclog-go/pkg/evtc/buffdef"
)

var (
	// stats flags
	statsFormat   string
	statsBuffFile string
	statsProgress bool
	statsVerbose  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats <file>...",
	Short: "Compute encounter statistics for one or more logs",
	Long: `Parse EVTC log files and output encounter statistics.

Statistics are output as JSON Lines by default (one JSON object per file),
which makes it easy to process with tools like jq.

Examples:
  # Analyze one log
  evtclog stats 20240101-120000.evtc

  # Human-readable summary
  evtclog stats --format pretty 20240101-120000.evtc

  # Batch with a progress bar
  evtclog stats --progress logs/*.evtc

  # Custom tracked buffs
  evtclog stats --buffs buffs.yaml 20240101-120000.evtc

  # Pipe to jq
  evtclog stats logs/*.evtc | jq 'select(.result == "success")'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "jsonl",
		"Output format: jsonl, pretty")
	statsCmd.Flags().StringVar(&statsBuffFile, "buffs", "",
		"Tracked-buff definition file (YAML)")
	statsCmd.Flags().BoolVar(&statsProgress, "progress", false,
		"Show a progress bar across input files")
	statsCmd.Flags().BoolVarP(&statsVerbose, "verbose", "v", false,
		"Log pipeline diagnostics to stderr")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if !ValidFormats[statsFormat] {
		return fmt.Errorf("unknown format: %s", statsFormat)
	}

	opts, err := buildOptions()
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if statsProgress {
		bar = progressbar.NewOptions(len(args),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("analyzing logs"),
			progressbar.OptionClearOnFinish(),
		)
	}

	var failed int
	for _, path := range args {
		stats, err := evtc.AnalyzeFile(path, opts...)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		} else if err := OutputStatistics(statsFormat, path, stats, cmd.OutOrStdout()); err != nil {
			return err
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d logs failed", failed, len(args))
	}
	return nil
}

// buildOptions assembles pipeline options from the shared flags.
func buildOptions() ([]evtc.Option, error) {
	var opts []evtc.Option
	if statsVerbose {
		opts = append(opts, evtc.WithLogger(slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	if statsBuffFile != "" {
		defs, err := buffdef.Load(statsBuffFile)
		if err != nil {
			return nil, fmt.Errorf("buff definition file: %w", err)
		}
		opts = append(opts, evtc.WithTrackedBuffs(defs.Tracked()...))
	}
	return opts, nil
}
