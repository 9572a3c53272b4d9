package domain

// DefaultSimilarityThreshold is the minimum bounded similarity a chunk
// must reach to be retrieved. Similarity is cosine mapped to [0, 1].
const DefaultSimilarityThreshold = 0.7

// RefusalMessage is returned verbatim when the relevance gate decides
// a question is not answerable from tabular data.
const RefusalMessage = "I can only answer questions about the uploaded CSV data. " +
	"Try asking about the rows, columns, or statistics of your documents."

// QueryScope restricts a question to specific documents.
// An empty scope means all ingested documents.
type QueryScope struct {
	// DocumentIDs are the documents the question may draw on.
	DocumentIDs []string
}

// All returns true if the scope does not restrict documents.
func (s QueryScope) All() bool {
	return len(s.DocumentIDs) == 0
}

// ScopeStats summarises the data a scope covers. The retrieval planner
// sizes its search from these numbers.
type ScopeStats struct {
	// DocumentCount is the number of documents in scope.
	DocumentCount int

	// RowTotal is the summed data-row count across the scope.
	RowTotal int

	// ChunkTotal is the summed chunk count across the scope.
	// Negative means the store could not provide it; the planner
	// falls back to a fixed width.
	ChunkTotal int

	// Filenames are the in-scope document filenames, for prompting.
	Filenames []string
}

// Empty returns true if the scope covers no documents.
func (s ScopeStats) Empty() bool {
	return s.DocumentCount == 0
}

// ScoredChunk pairs a retrieved chunk with its similarity to the
// question. Results are ordered by descending similarity.
type ScoredChunk struct {
	// Chunk is the retrieved unit.
	Chunk Chunk

	// Similarity is the bounded similarity score in [0, 1].
	Similarity float64
}

// Answer is the outcome of asking a question.
type Answer struct {
	// Text is the synthesized answer, or RefusalMessage when the
	// gate refused the question.
	Text string

	// State is the terminal state the query pipeline reached.
	State QueryState

	// Retrieved is the number of chunks that cleared the similarity
	// threshold and were given to the model as context.
	Retrieved int

	// K is the retrieval width the planner chose. Zero when the gate
	// refused before planning.
	K int
}
