package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
	"github.com/tabulae-labs/askcsv-cli/internal/watcher"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest CSV files as they change",
	Long: `Watches a directory in the foreground and runs the ingest pipeline
on CSV and TSV files as they are created or modified. Hidden files and
subdirectories are ignored.

Repeated writes to the same file are debounced, so a file being
downloaded or saved in chunks is ingested once it settles. Press Ctrl-C
to stop.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce,
		"quiet period before a changed file is ingested")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return aiUnavailableError("cannot watch for files")
	}

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	w := watcher.New(watcher.Config{
		Dir:      dir,
		Debounce: watchDebounce,
		OnResult: func(path string, result domain.IngestResult) {
			outputWatchResult(cmd, path, result)
		},
	}, ingestService)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for CSV files. Press Ctrl-C to stop.\n", dir)
	if err := w.Run(ctx); err != nil {
		return err
	}
	cmd.Println("Stopped.")
	return nil
}

func outputWatchResult(cmd *cobra.Command, path string, result domain.IngestResult) {
	if result.Success {
		cmd.Printf("Ingested %s: %d rows, %d chunks (id: %s)\n",
			path, result.RowCount, result.ChunksStored, result.DocumentID)
		return
	}

	errText := "unknown error"
	if result.Err != nil {
		errText = result.Err.Error()
	}
	cmd.Printf("Failed %s: %s\n", path, errText)
	if result.DocumentID != "" {
		cmd.Printf("  A partial document %s was stored; remove it with 'askcsv document delete %s'\n",
			result.DocumentID, result.DocumentID)
	}
}
