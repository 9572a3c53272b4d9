package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
	"github.com/tabulae-labs/askcsv-cli/internal/core/ports/driven"
	"github.com/tabulae-labs/askcsv-cli/internal/core/ports/driving"
	"github.com/tabulae-labs/askcsv-cli/internal/logger"
)

// Ensure AskService implements the interfaces.
var (
	_ driving.AskService      = (*AskService)(nil)
	_ driven.PromptStoreAware = (*AskService)(nil)
)

// Token budgets for the two model calls per question.
const (
	// gateMaxTokens bounds the YES/NO classification reply.
	gateMaxTokens = 5

	// answerMaxTokens bounds the synthesized answer.
	answerMaxTokens = 1024
)

// Default prompt templates, used when no prompt store is configured
// or a named prompt cannot be loaded.
const (
	defaultGatePrompt = `You are a relevance filter for a CSV question-answering system.

Decide whether the question below can be answered from tabular data:
counts, statistics, summaries, individual records, comparisons, or
open-ended analysis of rows and columns. When in doubt, answer YES.

Reply with exactly one word: YES or NO.

Question: %s
Answer:`

	defaultAnswerPrompt = `You are a data analyst answering questions about %s.

Use ONLY the context below, which contains rows from the dataset.
If the context does not contain enough information to answer,
say so politely instead of guessing.

Context:
%s

Question: %s
Answer:`
)

// AskService answers natural-language questions about ingested
// documents. Each question runs the pipeline gate, plan, retrieve,
// synthesize as an explicit state machine; see domain.QueryState.
type AskService struct {
	docStore    driven.DocumentStore
	embedder    driven.EmbeddingService
	llm         driven.LLMService
	promptStore driven.PromptStore

	threshold float64
	timeout   time.Duration
}

// NewAskService creates a new ask service with default retrieval
// settings. Use SetRetrievalSettings to apply configured values.
func NewAskService(
	docStore driven.DocumentStore,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
) *AskService {
	return &AskService{
		docStore:  docStore,
		embedder:  embedder,
		llm:       llm,
		threshold: domain.DefaultSimilarityThreshold,
		timeout:   domain.DefaultRequestTimeoutSeconds * time.Second,
	}
}

// SetRetrievalSettings applies configured similarity threshold and
// request timeout.
func (s *AskService) SetRetrievalSettings(settings domain.RetrievalSettings) {
	s.threshold = settings.Threshold()
	s.timeout = time.Duration(settings.TimeoutSeconds()) * time.Second
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (s *AskService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ask answers one question over the given scope.
//
// The relevance gate runs first and never touches the planner or the
// store: an off-domain question on an empty store is refused, not
// failed. Typed errors wrap the domain sentinels so callers can
// classify them with errors.Is.
func (s *AskService) Ask(
	ctx context.Context, question string, scope domain.QueryScope,
) (domain.Answer, error) {
	logger.Section("Question")
	logger.Debug("Question: %q", question)

	state := domain.StateGated

	question = strings.TrimSpace(question)
	if question == "" {
		state = advance(state, domain.StateFailed)
		return domain.Answer{State: state},
			fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	// One deadline covers both model calls and the store query.
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// 1. Relevance gate
	relevant, err := s.gate(ctx, question)
	if err != nil {
		state = advance(state, domain.StateFailed)
		return domain.Answer{State: state}, err
	}
	if !relevant {
		state = advance(state, domain.StateRefused)
		logger.Info("Gate refused question")
		return domain.Answer{Text: domain.RefusalMessage, State: state}, nil
	}
	state = advance(state, domain.StateRetrieving)

	// 2. Scope statistics
	stats, err := s.docStore.Stats(ctx, scope)
	if err != nil {
		state = advance(state, domain.StateFailed)
		return domain.Answer{State: state},
			fmt.Errorf("%w: scope stats: %w", domain.ErrStorage, err)
	}
	if stats.Empty() {
		state = advance(state, domain.StateFailed)
		if scope.All() {
			return domain.Answer{State: state},
				fmt.Errorf("%w: no documents have been ingested", domain.ErrScope)
		}
		return domain.Answer{State: state},
			fmt.Errorf("%w: no documents match the requested ids", domain.ErrScope)
	}
	logger.Debug("Scope: %d documents, %d rows, %d chunks",
		stats.DocumentCount, stats.RowTotal, stats.ChunkTotal)

	// 3. Plan retrieval width
	k := PlanWidth(stats)
	logger.Debug("Planned retrieval width k=%d", k)

	// 4. Embed the question
	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		state = advance(state, domain.StateFailed)
		return domain.Answer{State: state}, s.embedErr(err)
	}

	// 5. Similarity search
	scored, err := s.docStore.SimilaritySearch(ctx, vector, k, scope, s.threshold)
	if err != nil {
		state = advance(state, domain.StateFailed)
		return domain.Answer{State: state},
			fmt.Errorf("%w: similarity search: %w", domain.ErrStorage, err)
	}
	logger.Debug("Retrieved %d chunks above threshold %.2f", len(scored), s.threshold)

	// 6. Synthesize the answer
	text, err := s.synthesize(ctx, question, scored, stats)
	if err != nil {
		state = advance(state, domain.StateFailed)
		return domain.Answer{State: state, Retrieved: len(scored), K: k}, err
	}

	state = advance(state, domain.StateAnswered)
	logger.Info("Answered with %d retrieved chunks (k=%d)", len(scored), k)

	return domain.Answer{
		Text:      text,
		State:     state,
		Retrieved: len(scored),
		K:         k,
	}, nil
}

// gate classifies the question as answerable from tabular data or not.
// Anything other than a clear NO counts as YES: answering an off-topic
// question is cheaper than refusing a legitimate one.
func (s *AskService) gate(ctx context.Context, question string) (bool, error) {
	template := s.loadPrompt(driven.PromptRelevanceGate, defaultGatePrompt)
	prompt := fmt.Sprintf(template, question)

	reply, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   gateMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return false, s.modelErr("relevance gate", err)
	}

	refused := strings.HasPrefix(strings.ToUpper(strings.TrimSpace(reply)), "NO")
	logger.Debug("Gate reply: %q (refused=%t)", reply, refused)
	return !refused, nil
}

// synthesize builds one grounded prompt from the retrieved chunks and
// invokes the model once. Zero retrieved chunks still call the model
// with empty context; the model is relied on to produce the
// cannot-answer reply.
func (s *AskService) synthesize(
	ctx context.Context, question string, scored []domain.ScoredChunk, stats domain.ScopeStats,
) (string, error) {
	var contextText strings.Builder
	for i := range scored {
		if i > 0 {
			contextText.WriteString("\n\n")
		}
		contextText.WriteString(scored[i].Chunk.Content)
	}

	template := s.loadPrompt(driven.PromptAnswer, defaultAnswerPrompt)
	prompt := fmt.Sprintf(template, describeScope(stats), contextText.String(), question)

	reply, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return "", s.modelErr("answer synthesis", err)
	}

	return strings.TrimSpace(reply), nil
}

// describeScope names the dataset(s) and row count for the prompt.
func describeScope(stats domain.ScopeStats) string {
	names := strings.Join(stats.Filenames, ", ")
	if names == "" {
		names = "the uploaded data"
	}
	if stats.DocumentCount <= 1 {
		return fmt.Sprintf("%s (%d rows)", names, stats.RowTotal)
	}
	return fmt.Sprintf("%d files: %s (%d rows total)",
		stats.DocumentCount, names, stats.RowTotal)
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *AskService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// modelErr types a model-call failure, surfacing deadline overruns
// distinctly from other failures.
func (s *AskService) modelErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", domain.ErrTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrModel, op, err)
}

// embedErr types a question-embedding failure.
func (s *AskService) embedErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: embed question: %w", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: embed question: %w", domain.ErrEmbedding, err)
}

// advance moves the query machine to next. Transitions the machine
// does not allow are logged rather than panicking; the pipeline is
// linear so they indicate a programming error, not bad input.
func advance(from, to domain.QueryState) domain.QueryState {
	if !from.CanTransition(to) {
		logger.Warn("Unexpected query state transition: %s -> %s", from, to)
	}
	return to
}
