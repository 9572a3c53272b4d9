package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest CSV files into the local store",
	Long: `Parses, chunks and embeds one or more delimited files (CSV or TSV)
and stores them locally so they can be queried with 'askcsv ask'.

Each file is processed independently; a failure in one file does not
stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(ingestCmd)
}

// ingestFileResult pairs a path with its pipeline outcome for output.
type ingestFileResult struct {
	Path         string
	Success      bool
	DocumentID   string
	RowCount     int
	ChunksStored int
	Error        string
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return aiUnavailableError("cannot ingest files")
	}

	ctx := context.Background()

	results := make([]ingestFileResult, 0, len(args))
	failed := 0

	for _, path := range args {
		fr := ingestFile(ctx, path)
		if !fr.Success {
			failed++
		}
		results = append(results, fr)
	}

	if ingestJSON {
		if err := outputIngestJSON(cmd, results); err != nil {
			return err
		}
	} else {
		outputIngestText(cmd, results)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func ingestFile(ctx context.Context, path string) ingestFileResult {
	content, err := os.ReadFile(path)
	if err != nil {
		return ingestFileResult{Path: path, Error: fmt.Sprintf("read failed: %v", err)}
	}

	raw := domain.RawUpload{
		Filename: filepath.Base(path),
		Size:     int64(len(content)),
		MIMEType: mimeTypeForPath(path),
		Content:  content,
	}

	result := ingestService.Ingest(ctx, raw)

	fr := ingestFileResult{
		Path:         path,
		Success:      result.Success,
		DocumentID:   result.DocumentID,
		RowCount:     result.RowCount,
		ChunksStored: result.ChunksStored,
	}
	if result.Err != nil {
		fr.Error = result.Err.Error()
	}
	return fr
}

// mimeTypeForPath maps a file extension to the declared content type.
// Unknown extensions fall through to text/csv; the parser sniffs the
// delimiter from content anyway.
func mimeTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv":
		return "text/tab-separated-values"
	case ".txt":
		return "text/plain"
	default:
		return "text/csv"
	}
}

func outputIngestJSON(cmd *cobra.Command, results []ingestFileResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputIngestText(cmd *cobra.Command, results []ingestFileResult) {
	for _, fr := range results {
		if fr.Success {
			cmd.Printf("Ingested %s: %d rows, %d chunks (id: %s)\n",
				fr.Path, fr.RowCount, fr.ChunksStored, fr.DocumentID)
			continue
		}
		cmd.Printf("Failed %s: %s\n", fr.Path, fr.Error)
		if fr.DocumentID != "" {
			cmd.Printf("  A partial document %s was stored; remove it with 'askcsv document delete %s'\n",
				fr.DocumentID, fr.DocumentID)
		}
	}
}
