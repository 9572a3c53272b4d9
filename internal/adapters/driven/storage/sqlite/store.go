package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tabulae-labs/askcsv-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
	"github.com/tabulae-labs/askcsv-cli/internal/core/ports/driven"
)

// Store is the SQLite-backed document store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.askcsv/data/documents.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".askcsv", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "documents.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	metadataJSON, err := json.Marshal(doc.Meta)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, file_size, mime_type, content, metadata, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			file_size = excluded.file_size,
			mime_type = excluded.mime_type,
			content = excluded.content,
			metadata = excluded.metadata,
			uploaded_at = excluded.uploaded_at
	`, doc.ID, doc.Filename, doc.FileSize, doc.MIMEType, doc.Content,
		string(metadataJSON), doc.UploadedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// SaveChunks stores the chunks of a document, replacing any previous
// set. The write runs in one transaction so the chunk set is never
// partially visible.
func (s *documentStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	documentID := chunks[0].DocumentID

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM document_chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("clearing previous chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO document_chunks (id, document_id, content, chunk_index, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Meta)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		createdAt := chunk.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.Content,
			chunk.Index, embeddingBlob, string(metadataJSON), createdAt); err != nil {
			return fmt.Errorf("saving chunk %d: %w", chunk.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, filename, file_size, mime_type, content, metadata, uploaded_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// GetChunks retrieves all chunks for a document, ordered by index.
func (s *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, content, chunk_index, embedding, metadata, created_at
		FROM document_chunks WHERE document_id = ?
		ORDER BY chunk_index
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows.Scan)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// DeleteDocument removes a document; its chunks go with it through the
// foreign key cascade.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListDocuments returns all documents, newest first.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, filename, file_size, mime_type, content, metadata, uploaded_at
		FROM documents
		ORDER BY uploaded_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// SimilaritySearch scores every in-scope chunk against the query
// vector in process and returns the top k at or above threshold.
// Stored corpora are small enough that a brute-force scan over the
// embedding blobs beats maintaining an index.
func (s *documentStore) SimilaritySearch(
	ctx context.Context, query []float32, k int, scope domain.QueryScope, threshold float64,
) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	sqlQuery := `
		SELECT id, document_id, content, chunk_index, embedding, metadata, created_at
		FROM document_chunks`
	var args []any
	if !scope.All() {
		sqlQuery += " WHERE document_id IN (" + placeholders(len(scope.DocumentIDs)) + ")"
		for _, id := range scope.DocumentIDs {
			args = append(args, id)
		}
	}

	rows, err := s.store.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var scored []domain.ScoredChunk
	for rows.Next() {
		chunk, err := scanChunk(rows.Scan)
		if err != nil {
			return nil, err
		}
		similarity, ok := boundedSimilarity(query, chunk.Embedding)
		if !ok || similarity < threshold {
			continue
		}
		scored = append(scored, domain.ScoredChunk{Chunk: *chunk, Similarity: similarity})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// Stats summarises the documents a scope covers.
func (s *documentStore) Stats(ctx context.Context, scope domain.QueryScope) (domain.ScopeStats, error) {
	sqlQuery := `
		SELECT d.filename, d.metadata,
			(SELECT COUNT(*) FROM document_chunks c WHERE c.document_id = d.id)
		FROM documents d`
	var args []any
	if !scope.All() {
		sqlQuery += " WHERE d.id IN (" + placeholders(len(scope.DocumentIDs)) + ")"
		for _, id := range scope.DocumentIDs {
			args = append(args, id)
		}
	}

	rows, err := s.store.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return domain.ScopeStats{}, fmt.Errorf("querying document stats: %w", err)
	}
	defer rows.Close()

	var stats domain.ScopeStats
	for rows.Next() {
		var filename, metadataJSON string
		var chunkCount int
		if err := rows.Scan(&filename, &metadataJSON, &chunkCount); err != nil {
			return domain.ScopeStats{}, fmt.Errorf("scanning document stats: %w", err)
		}

		var meta domain.DocumentMeta
		if metadataJSON != "" {
			if err := json.Unmarshal([]byte(metadataJSON), &meta); err != nil {
				return domain.ScopeStats{}, fmt.Errorf("unmarshaling metadata: %w", err)
			}
		}

		stats.DocumentCount++
		stats.RowTotal += meta.RowCount
		stats.ChunkTotal += chunkCount
		stats.Filenames = append(stats.Filenames, filename)
	}

	if err := rows.Err(); err != nil {
		return domain.ScopeStats{}, fmt.Errorf("iterating document stats: %w", err)
	}

	sort.Strings(stats.Filenames)
	return stats, nil
}

// ==================== Helper Functions ====================

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// boundedSimilarity computes cosine similarity mapped to [0, 1].
// Returns ok=false for mismatched or zero-magnitude vectors; such
// chunks are skipped rather than failing the search.
func boundedSimilarity(query, embedding []float32) (float64, bool) {
	if len(query) == 0 || len(query) != len(embedding) {
		return 0, false
	}

	var dot, normQ, normE float64
	for i := range query {
		q := float64(query[i])
		e := float64(embedding[i])
		dot += q * e
		normQ += q * q
		normE += e * e
	}
	if normQ == 0 || normE == 0 {
		return 0, false
	}

	cosine := dot / (math.Sqrt(normQ) * math.Sqrt(normE))
	return (cosine + 1) / 2, true
}

// scanDocument scans one document row using the given scan function.
func scanDocument(scan func(...any) error) (*domain.Document, error) {
	var doc domain.Document
	var metadataJSON string

	if err := scan(&doc.ID, &doc.Filename, &doc.FileSize, &doc.MIMEType,
		&doc.Content, &metadataJSON, &doc.UploadedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Meta); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}

	return &doc, nil
}

// scanChunk scans one chunk row using the given scan function.
func scanChunk(scan func(...any) error) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var embeddingBlob []byte
	var metadataJSON string

	if err := scan(&chunk.ID, &chunk.DocumentID, &chunk.Content,
		&chunk.Index, &embeddingBlob, &metadataJSON, &chunk.CreatedAt); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Meta); err != nil {
			return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
		}
	}

	return &chunk, nil
}
