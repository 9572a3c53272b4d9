package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
	"github.com/tabulae-labs/askcsv-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// It exercises the same contract as the SQLite store, including
// similarity search over stored embeddings, and backs unit tests.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// SaveChunks stores chunks for a document, replacing any existing set.
func (s *DocumentStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docID := chunks[0].DocumentID
	s.chunks[docID] = chunks
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetChunks retrieves all chunks for a document, ordered by index.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.chunks[documentID]
	if !ok {
		return nil, nil
	}
	chunks := make([]domain.Chunk, len(stored))
	copy(chunks, stored)
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Index < chunks[j].Index
	})
	return chunks, nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.chunks, id)
	return nil
}

// ListDocuments returns all documents, newest first.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0, len(s.documents))
	for id := range s.documents {
		result = append(result, s.documents[id])
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].UploadedAt.Equal(result[j].UploadedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].UploadedAt.After(result[j].UploadedAt)
	})
	return result, nil
}

// SimilaritySearch returns up to k chunks most similar to the query
// vector, ordered by descending similarity. Chunks scoring below
// threshold are excluded.
func (s *DocumentStore) SimilaritySearch(
	_ context.Context, query []float32, k int, scope domain.QueryScope, threshold float64,
) ([]domain.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 {
		return nil, nil
	}

	inScope := scopeSet(scope)

	var results []domain.ScoredChunk
	for docID, chunks := range s.chunks {
		if inScope != nil && !inScope[docID] {
			continue
		}
		for i := range chunks {
			sim, ok := boundedSimilarity(query, chunks[i].Embedding)
			if !ok || sim < threshold {
				continue
			}
			results = append(results, domain.ScoredChunk{Chunk: chunks[i], Similarity: sim})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Stats summarises the documents a scope covers. Filenames are sorted
// for deterministic output.
func (s *DocumentStore) Stats(_ context.Context, scope domain.QueryScope) (domain.ScopeStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inScope := scopeSet(scope)

	var stats domain.ScopeStats
	for id := range s.documents {
		if inScope != nil && !inScope[id] {
			continue
		}
		doc := s.documents[id]
		stats.DocumentCount++
		stats.RowTotal += doc.Meta.RowCount
		stats.ChunkTotal += len(s.chunks[id])
		stats.Filenames = append(stats.Filenames, doc.Filename)
	}
	sort.Strings(stats.Filenames)
	return stats, nil
}

// scopeSet returns the allowed document ids, or nil for an
// unrestricted scope.
func scopeSet(scope domain.QueryScope) map[string]bool {
	if scope.All() {
		return nil
	}
	set := make(map[string]bool, len(scope.DocumentIDs))
	for _, id := range scope.DocumentIDs {
		set[id] = true
	}
	return set
}

// boundedSimilarity maps the cosine of the angle between two vectors
// to [0, 1]. Returns false when the vectors are mismatched or either
// has zero magnitude.
func boundedSimilarity(query, embedding []float32) (float64, bool) {
	if len(query) == 0 || len(query) != len(embedding) {
		return 0, false
	}
	var dot, normQ, normE float64
	for i := range query {
		dot += float64(query[i]) * float64(embedding[i])
		normQ += float64(query[i]) * float64(query[i])
		normE += float64(embedding[i]) * float64(embedding[i])
	}
	if normQ == 0 || normE == 0 {
		return 0, false
	}
	cos := dot / (math.Sqrt(normQ) * math.Sqrt(normE))
	return (cos + 1) / 2, true
}
