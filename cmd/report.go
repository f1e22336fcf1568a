package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zjrosen/cahier/internal/config"
	"github.com/zjrosen/cahier/internal/log"
	"github.com/zjrosen/cahier/internal/notebook"
	"github.com/zjrosen/cahier/internal/presentation"
	"github.com/zjrosen/cahier/internal/records"
	"github.com/zjrosen/cahier/internal/watcher"
)

var (
	reportFormat string
	reportWatch  bool
)

var reportCmd = &cobra.Command{
	Use:   "report <records-file>",
	Short: "Render a cell report from a notebook records file",
	Long: `Render a report of every cell in a notebook records file.

Each cell shows its disablement state and whether a script export would
comment it out. A cell is commented out when it is disabled in its own
metadata, depends only on disabled cells, or is skipped as a script.

The report reflects stored configuration only: run-derived state such as
indirect disablement is not persisted in records, so it reads false for
freshly loaded cells.

Examples:
  # Human-readable table
  cahier report notebook.json

  # Machine-readable JSON
  cahier report notebook.yaml --format json
  cahier report notebook.yaml -f json

  # Re-render whenever the file changes
  cahier report notebook.json --watch

  # Parse specific fields with jq
  cahier report notebook.json -f json | jq '.cells[].commented_out'`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "",
		"output format: table or json (overrides config)")
	reportCmd.Flags().BoolVarP(&reportWatch, "watch", "w", false,
		"re-render the report when the records file changes")
}

func runReport(cmd *cobra.Command, args []string) error {
	cleanup, err := initLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	format := cfg.Format
	if reportFormat != "" {
		format = reportFormat
	}
	if err := config.ValidateFormat(format); err != nil {
		return err
	}

	path := args[0]
	if err := renderReport(cmd.OutOrStdout(), path, format); err != nil {
		return err
	}

	if !reportWatch {
		return nil
	}
	return watchReport(cmd, path, format)
}

// renderReport loads the records file and writes one report to w.
func renderReport(w io.Writer, path, format string) error {
	recs, err := records.Load(path)
	if err != nil {
		return err
	}

	nb, err := notebook.NewFromRecords(recs)
	if err != nil {
		return err
	}
	defer nb.Close()

	dto := presentation.FromNotebook(nb)
	formatter := presentation.NewFormatter(w)
	if format == config.FormatJSON {
		return formatter.FormatJSON(dto)
	}
	return formatter.FormatCellsTable(dto.Cells)
}

// watchReport re-renders the report each time the records file settles
// after a change, until interrupted.
func watchReport(cmd *cobra.Command, path, format string) error {
	fw, err := watcher.New(path, cfg.Watch.Debounce)
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	changes, err := fw.Start()
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	defer func() { _ = fw.Stop() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// Under --debug, tail the structured log to stderr so watcher and
	// render events are visible next to the report.
	if debugEnabled() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if lines := log.Stream(ctx); lines != nil {
			go func() {
				for line := range lines {
					fmt.Fprint(cmd.ErrOrStderr(), line)
				}
			}()
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s for changes (ctrl-c to stop)\n", path)

	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			if err := renderReport(cmd.OutOrStdout(), path, format); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "render failed: %v\n", err)
			}
		case sig := <-sigCh:
			fmt.Fprintf(cmd.ErrOrStderr(), "received %s, stopping\n", sig)
			return nil
		}
	}
}
