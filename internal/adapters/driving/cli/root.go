// Package cli implements the askcsv command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tabulae-labs/askcsv-cli/internal/adapters/driven/ai"
	"github.com/tabulae-labs/askcsv-cli/internal/adapters/driven/config/file"
	"github.com/tabulae-labs/askcsv-cli/internal/adapters/driven/storage/sqlite"
	"github.com/tabulae-labs/askcsv-cli/internal/chunkers/adaptive"
	"github.com/tabulae-labs/askcsv-cli/internal/core/ports/driving"
	"github.com/tabulae-labs/askcsv-cli/internal/core/services"
	"github.com/tabulae-labs/askcsv-cli/internal/logger"
	"github.com/tabulae-labs/askcsv-cli/internal/tabular"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired by initServices. Commands check for nil so that a
// partially initialised CLI still reports useful errors.
var (
	askService      driving.AskService
	ingestService   driving.IngestService
	documentService driving.DocumentService
	settingsService driving.SettingsService

	// aiWarnings explains why askService or ingestService is nil.
	aiWarnings []string

	// store is closed after the command completes.
	store *sqlite.Store
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "askcsv",
	Short: "Ask questions about your CSV files",
	Long: `askcsv ingests CSV files into a local store and answers
natural-language questions about them using retrieval-augmented
generation. Rows are chunked, embedded, and searched by similarity;
an LLM synthesises answers grounded in the retrieved rows.

All data stays on your machine (~/.askcsv). Configure an embedding
and LLM provider with 'askcsv settings' before first use.`,
	// Errors are printed once by main, not by cobra.
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute wires the services and runs the root command.
// This is the entry point called by main.
func Execute() error {
	if err := initServices(); err != nil {
		return err
	}
	defer closeServices()

	return rootCmd.Execute()
}

// SetVersion overrides the build version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// initServices constructs the service graph: config and document
// stores first, then AI-backed services when a provider is reachable.
func initServices() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config store: %w", err)
	}
	settingsService = services.NewSettingsService(configStore, ai.NewConfigValidator())

	store, err = sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("initialising document store: %w", err)
	}
	docStore := store.DocumentStore()
	documentService = services.NewDocumentService(docStore)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	result := ai.InitFromSettings(settings)
	aiWarnings = result.Warnings
	for _, w := range aiWarnings {
		logger.Warn("%s", w)
	}

	if result.EmbeddingService != nil {
		ingestService = services.NewIngestService(
			tabular.New(),
			adaptive.New(),
			result.EmbeddingService,
			docStore,
		)
	}

	if result.EmbeddingService != nil && result.LLMService != nil {
		askSvc := services.NewAskService(docStore, result.EmbeddingService, result.LLMService)
		askSvc.SetRetrievalSettings(settings.Retrieval)
		if promptStore, perr := file.NewPromptStore(""); perr == nil {
			askSvc.SetPromptStore(promptStore)
		}
		askService = askSvc
	}

	return nil
}

// closeServices releases held resources.
func closeServices() {
	if store != nil {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "closing store: %v\n", err)
		}
	}
}

// aiUnavailableError builds a helpful error when an AI-backed command
// cannot run, preferring the recorded init warning over a stock line.
func aiUnavailableError(fallback string) error {
	if len(aiWarnings) > 0 {
		return fmt.Errorf("%s: %s", fallback, aiWarnings[0])
	}
	return fmt.Errorf("%s: no AI provider configured; run 'askcsv settings set-embedding' and 'askcsv settings set-llm'", fallback)
}
