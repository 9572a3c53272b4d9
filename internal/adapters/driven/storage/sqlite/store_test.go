package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
	"github.com/tabulae-labs/askcsv-cli/internal/core/ports/driven"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	// Create a temporary directory for the test database
	tempDir, err := os.MkdirTemp("", "askcsv-test-*")
	require.NoError(t, err)

	// Create store in temp directory
	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	// Return cleanup function
	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// testDocument builds a document with the given id and row count.
func testDocument(id string, rows int) *domain.Document {
	return &domain.Document{
		ID:       id,
		Filename: id + ".csv",
		FileSize: 128,
		MIMEType: "text/csv",
		Content:  "id,amount\n1,10\n",
		Meta: domain.DocumentMeta{
			RowCount:  rows,
			Headers:   []string{"id", "amount"},
			Delimiter: ",",
		},
		UploadedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// saveTestDocument stores a document with n embedded chunks.
func saveTestDocument(t *testing.T, docs driven.DocumentStore, id string, rows int, embedding []float32) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, docs.SaveDocument(ctx, testDocument(id, rows)))

	chunks := make([]domain.Chunk, rows)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			ID:         fmt.Sprintf("%s-chunk-%d", id, i),
			DocumentID: id,
			Content:    fmt.Sprintf("id: %d, amount: %d", i+1, (i+1)*10),
			Index:      i,
			Embedding:  embedding,
			Meta: domain.ChunkMeta{
				DocumentID: id,
				ChunkIndex: i,
				UnitType:   domain.UnitRow,
				SourceRow:  i + 1,
				Headers:    []string{"id", "amount"},
			},
		}
	}
	require.NoError(t, docs.SaveChunks(ctx, chunks))
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	// Test with invalid path (should fail to create directory)
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "askcsv-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	// Verify database file was created
	dbPath := filepath.Join(tempDir, "documents.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)

	// Verify database connection is working
	err = store.db.Ping()
	assert.NoError(t, err)
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "askcsv-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening the same database must not re-run migrations.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	var version int
	err = store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

// ==================== Document Tests ====================

func TestDocumentStore_SaveAndGetDocument(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := testDocument("doc-1", 5)
	require.NoError(t, docs.SaveDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1.csv", got.Filename)
	assert.Equal(t, int64(128), got.FileSize)
	assert.Equal(t, "text/csv", got.MIMEType)
	assert.Equal(t, "id,amount\n1,10\n", got.Content)
	assert.Equal(t, 5, got.Meta.RowCount)
	assert.Equal(t, []string{"id", "amount"}, got.Meta.Headers)
	assert.Equal(t, ",", got.Meta.Delimiter)
	assert.WithinDuration(t, doc.UploadedAt, got.UploadedAt, time.Second)
}

func TestDocumentStore_SaveDocument_Upsert(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := testDocument("doc-1", 5)
	require.NoError(t, docs.SaveDocument(ctx, doc))

	doc.Filename = "renamed.csv"
	doc.Meta.RowCount = 7
	require.NoError(t, docs.SaveDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "renamed.csv", got.Filename)
	assert.Equal(t, 7, got.Meta.RowCount)

	all, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDocumentStore_GetDocument_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.DocumentStore().GetDocument(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListDocuments_NewestFirst(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	docs := store.DocumentStore()
	ctx := context.Background()

	older := testDocument("doc-old", 1)
	older.UploadedAt = time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	newer := testDocument("doc-new", 2)
	require.NoError(t, docs.SaveDocument(ctx, older))
	require.NoError(t, docs.SaveDocument(ctx, newer))

	all, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "doc-new", all[0].ID)
	assert.Equal(t, "doc-old", all[1].ID)
}

func TestDocumentStore_DeleteDocument_CascadesToChunks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	docs := store.DocumentStore()
	ctx := context.Background()

	saveTestDocument(t, docs, "doc-1", 3, []float32{1, 0, 0})

	require.NoError(t, docs.DeleteDocument(ctx, "doc-1"))

	_, err := docs.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chunks, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDocumentStore_DeleteDocument_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.DocumentStore().DeleteDocument(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ==================== Chunk Tests ====================

func TestDocumentStore_SaveAndGetChunks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	docs := store.DocumentStore()
	ctx := context.Background()

	saveTestDocument(t, docs, "doc-1", 3, []float32{0.1, -0.2, 0.3})

	chunks, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.Equal(t, "doc-1", chunk.DocumentID)
		assert.Equal(t, []float32{0.1, -0.2, 0.3}, chunk.Embedding)
		assert.Equal(t, domain.UnitRow, chunk.Meta.UnitType)
		assert.Equal(t, i+1, chunk.Meta.SourceRow)
		assert.False(t, chunk.CreatedAt.IsZero())
	}
	assert.Equal(t, "id: 1, amount: 10", chunks[0].Content)
}

func TestDocumentStore_SaveChunks_ReplacesPreviousSet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	docs := store.DocumentStore()
	ctx := context.Background()

	saveTestDocument(t, docs, "doc-1", 3, []float32{1, 0})

	// Re-chunking the document replaces the old set entirely.
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{
		{ID: "replacement", DocumentID: "doc-1", Content: "fresh", Index: 0, Embedding: []float32{0, 1}},
	}))

	chunks, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "replacement", chunks[0].ID)
}

func TestDocumentStore_SaveChunks_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NoError(t, store.DocumentStore().SaveChunks(context.Background(), nil))
}

func TestDocumentStore_SaveChunks_OrderedByIndex(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.SaveDocument(ctx, testDocument("doc-1", 3)))
	// Saved out of order, read back in index order.
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{
		{ID: "c2", DocumentID: "doc-1", Content: "third", Index: 2},
		{ID: "c0", DocumentID: "doc-1", Content: "first", Index: 0},
		{ID: "c1", DocumentID: "doc-1", Content: "second", Index: 1},
	}))

	chunks, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "first", chunks[0].Content)
	assert.Equal(t, "second", chunks[1].Content)
	assert.Equal(t, "third", chunks[2].Content)
}

func TestDocumentStore_EmbeddingRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	docs := store.DocumentStore()
	ctx := context.Background()

	embedding := []float32{0.000001, -1.5, 3.14159, 0}
	require.NoError(t, docs.SaveDocument(ctx, testDocument("doc-1", 1)))
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{
		{ID: "c0", DocumentID: "doc-1", Content: "row", Index: 0, Embedding: embedding},
	}))

	chunks, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, embedding, chunks[0].Embedding)
}

// ==================== Similarity Search Tests ====================

func TestDocumentStore_SimilaritySearch_OrdersByScore(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.SaveDocument(ctx, testDocument("doc-1", 4)))
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{
		{ID: "aligned", DocumentID: "doc-1", Content: "aligned", Index: 0, Embedding: []float32{2, 0, 0}},
		{ID: "diagonal", DocumentID: "doc-1", Content: "diagonal", Index: 1, Embedding: []float32{1, 1, 0}},
		{ID: "orthogonal", DocumentID: "doc-1", Content: "orthogonal", Index: 2, Embedding: []float32{0, 1, 0}},
		{ID: "opposite", DocumentID: "doc-1", Content: "opposite", Index: 3, Embedding: []float32{-1, 0, 0}},
	}))

	results, err := docs.SimilaritySearch(ctx, []float32{1, 0, 0}, 10, domain.QueryScope{}, 0.7)
	require.NoError(t, err)

	// Orthogonal (0.5) and opposite (0.0) fall below the threshold.
	require.Len(t, results, 2)
	assert.Equal(t, "aligned", results[0].Chunk.ID)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	assert.Equal(t, "diagonal", results[1].Chunk.ID)
	assert.InDelta(t, 0.8536, results[1].Similarity, 1e-3)
}

func TestDocumentStore_SimilaritySearch_RespectsK(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	docs := store.DocumentStore()
	ctx := context.Background()

	saveTestDocument(t, docs, "doc-1", 5, []float32{1, 0, 0})

	results, err := docs.SimilaritySearch(ctx, []float32{1, 0, 0}, 2, domain.QueryScope{}, 0.7)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestDocumentStore_SimilaritySearch_ScopeFilter(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	docs := store.DocumentStore()
	ctx := context.Background()

	saveTestDocument(t, docs, "doc-1", 2, []float32{1, 0, 0})
	saveTestDocument(t, docs, "doc-2", 2, []float32{1, 0, 0})

	scope := domain.QueryScope{DocumentIDs: []string{"doc-2"}}
	results, err := docs.SimilaritySearch(ctx, []float32{1, 0, 0}, 10, scope, 0.7)
	require.NoError(t, err)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "doc-2", r.Chunk.DocumentID)
	}
}

func TestDocumentStore_SimilaritySearch_SkipsMismatchedVectors(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.SaveDocument(ctx, testDocument("doc-1", 4)))
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{
		{ID: "good", DocumentID: "doc-1", Content: "good", Index: 0, Embedding: []float32{1, 0, 0}},
		{ID: "short", DocumentID: "doc-1", Content: "short", Index: 1, Embedding: []float32{1, 0}},
		{ID: "empty", DocumentID: "doc-1", Content: "empty", Index: 2},
		{ID: "zero", DocumentID: "doc-1", Content: "zero", Index: 3, Embedding: []float32{0, 0, 0}},
	}))

	results, err := docs.SimilaritySearch(ctx, []float32{1, 0, 0}, 10, domain.QueryScope{}, 0.0)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "good", results[0].Chunk.ID)
}

func TestDocumentStore_SimilaritySearch_ZeroK(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	results, err := store.DocumentStore().SimilaritySearch(
		context.Background(), []float32{1, 0, 0}, 0, domain.QueryScope{}, 0.7)

	require.NoError(t, err)
	assert.Empty(t, results)
}

// ==================== Stats Tests ====================

func TestDocumentStore_Stats(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	docs := store.DocumentStore()
	ctx := context.Background()

	saveTestDocument(t, docs, "alpha", 3, []float32{1, 0})
	saveTestDocument(t, docs, "beta", 2, []float32{0, 1})

	stats, err := docs.Stats(ctx, domain.QueryScope{})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.DocumentCount)
	assert.Equal(t, 5, stats.RowTotal)
	assert.Equal(t, 5, stats.ChunkTotal)
	assert.Equal(t, []string{"alpha.csv", "beta.csv"}, stats.Filenames)
	assert.False(t, stats.Empty())
}

func TestDocumentStore_Stats_Scoped(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	docs := store.DocumentStore()
	ctx := context.Background()

	saveTestDocument(t, docs, "alpha", 3, []float32{1, 0})
	saveTestDocument(t, docs, "beta", 2, []float32{0, 1})

	stats, err := docs.Stats(ctx, domain.QueryScope{DocumentIDs: []string{"beta"}})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.DocumentCount)
	assert.Equal(t, 2, stats.RowTotal)
	assert.Equal(t, 2, stats.ChunkTotal)
	assert.Equal(t, []string{"beta.csv"}, stats.Filenames)
}

func TestDocumentStore_Stats_NonexistentScope(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	docs := store.DocumentStore()

	saveTestDocument(t, docs, "alpha", 3, []float32{1, 0})

	stats, err := docs.Stats(context.Background(), domain.QueryScope{DocumentIDs: []string{"missing"}})
	require.NoError(t, err)
	assert.True(t, stats.Empty())
}

func TestDocumentStore_Stats_EmptyStore(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	stats, err := store.DocumentStore().Stats(context.Background(), domain.QueryScope{})
	require.NoError(t, err)
	assert.True(t, stats.Empty())
	assert.Zero(t, stats.ChunkTotal)
}

// ==================== Persistence Tests ====================

func TestStore_DataSurvivesReopen(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "askcsv-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)
	ctx := context.Background()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	saveTestDocument(t, store.DocumentStore(), "doc-1", 2, []float32{1, 0, 0})
	require.NoError(t, store.Close())

	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	doc, err := store.DocumentStore().GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1.csv", doc.Filename)

	results, err := store.DocumentStore().SimilaritySearch(ctx, []float32{1, 0, 0}, 5, domain.QueryScope{}, 0.7)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
