package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
)

var (
	askDocuments []string
	askJSON      bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about ingested CSV data",
	Long: `Answers a natural-language question using the ingested documents.
The question is checked for relevance, matching rows are retrieved by
similarity, and an LLM synthesises an answer grounded in those rows.

By default all documents are searched. Use --documents to restrict
the question to specific document ids (see 'askcsv document list').`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringSliceVarP(&askDocuments, "documents", "d", nil, "restrict to specific document ids")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if askService == nil {
		return aiUnavailableError("cannot answer questions")
	}

	ctx := context.Background()
	scope := domain.QueryScope{DocumentIDs: askDocuments}

	answer, err := askService.Ask(ctx, question, scope)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}

	return outputAnswerText(cmd, answer)
}

func outputAnswerJSON(cmd *cobra.Command, answer domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer domain.Answer) error {
	cmd.Println(answer.Text)

	if answer.State == domain.StateAnswered {
		cmd.Println()
		cmd.Printf("(answered from %d retrieved chunks, k=%d)\n", answer.Retrieved, answer.K)
	}

	return nil
}
