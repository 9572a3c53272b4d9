package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage ingested documents",
	Long:  `List, inspect, or delete ingested documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print the document's table text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentDetailsCmd = &cobra.Command{
	Use:   "details [doc-id]",
	Short: "Show document metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDetails,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentDetailsCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()

	docs, err := documentService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested yet. Add one with 'askcsv ingest <file>'.")
		return nil
	}

	cmd.Println("Ingested documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    File: %s\n", docs[i].Filename)
		cmd.Printf("    Rows: %d\n", docs[i].Meta.RowCount)
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	doc, err := documentService.Get(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  File:      %s\n", doc.Filename)
	cmd.Printf("  Size:      %d bytes\n", doc.FileSize)
	cmd.Printf("  Type:      %s\n", doc.MIMEType)
	cmd.Printf("  Rows:      %d\n", doc.Meta.RowCount)
	cmd.Printf("  Columns:   %s\n", strings.Join(doc.Meta.Headers, ", "))
	cmd.Printf("  Uploaded:  %s\n", doc.UploadedAt.Format("2006-01-02 15:04:05"))

	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	content, err := documentService.GetContent(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document content: %w", err)
	}

	cmd.Println(content)
	return nil
}

func runDocumentDetails(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	details, err := documentService.GetDetails(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document details: %w", err)
	}

	cmd.Printf("Document Details: %s\n\n", details.ID)
	cmd.Printf("  File:        %s\n", details.Filename)
	cmd.Printf("  Size:        %d bytes\n", details.FileSize)
	cmd.Printf("  Type:        %s\n", details.MIMEType)
	cmd.Printf("  Rows:        %d\n", details.RowCount)
	cmd.Printf("  Columns:     %s\n", strings.Join(details.Headers, ", "))
	cmd.Printf("  Chunks:      %d\n", details.ChunkCount)
	cmd.Printf("  Uploaded:    %s\n", details.UploadedAt.Format("2006-01-02 15:04:05"))

	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	if err := documentService.Delete(ctx, docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Document %s deleted.\n", docID)
	return nil
}
