package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/evtclog/evtclog-go/pkg/evtc"
)

var (
	// watch flags
	watchFormat string
	watchSettle time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Watch a directory for new logs and analyze them",
	Long: `Watch a directory for newly written EVTC log files and output
statistics for each as it appears.

The telemetry addon writes each log once and never appends, so a short
settle delay after the last write event is enough to know a file is
complete.

Examples:
  # Watch the addon's output directory
  evtclog watch ~/.local/share/arcdps.cbtlogs

  # Human-readable output
  evtclog watch --format pretty logs/`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "jsonl",
		"Output format: jsonl, pretty")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", 500*time.Millisecond,
		"Delay after the last write before a file is considered complete")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !ValidFormats[watchFormat] {
		return fmt.Errorf("unknown format: %s", watchFormat)
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Debounce write bursts per path; a timer firing means the file has
	// settled and can be analyzed.
	pending := make(map[string]*time.Timer)
	done := make(chan string)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isLogFile(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			path := ev.Name
			if t, exists := pending[path]; exists {
				t.Reset(watchSettle)
				continue
			}
			pending[path] = time.AfterFunc(watchSettle, func() {
				select {
				case done <- path:
				case <-ctx.Done():
				}
			})
		case path := <-done:
			delete(pending, path)
			if err := analyzeOne(path, cmd); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

func analyzeOne(path string, cmd *cobra.Command) error {
	stats, err := evtc.AnalyzeFile(path)
	if err != nil {
		return err
	}
	return OutputStatistics(watchFormat, path, stats, cmd.OutOrStdout())
}

func isLogFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".evtc"
}
