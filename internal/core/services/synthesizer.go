package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/vedika/internal/core/domain"
	"github.com/custodia-labs/vedika/internal/core/ports/driven"
	"github.com/custodia-labs/vedika/internal/logger"
)

// Answer synthesis constants.
const (
	// NoMatchAnswer is returned when retrieval found nothing.
	NoMatchAnswer = "I couldn't find any relevant information in the ISRO database for your query."

	// FallbackModelName is reported as the model when no LLM is configured.
	FallbackModelName = "extractive-fallback"

	fallbackIntro = "The generative backend is not configured, so here is a context-based " +
		"summary from the most relevant documents."
	backendErrorPrefix = "Sorry, I encountered an error while generating the answer: "

	fallbackSources   = 3
	fallbackRuneLimit = 400
	ellipsis          = "…"

	answerMaxTokens   = 1000
	answerTemperature = 0.3
)

// Synthesizer produces the final answer from a query and its retrieved
// documents. It never fails: generation problems become error-text answers.
type Synthesizer struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	now     func() time.Time
}

// NewSynthesizer creates a new synthesizer.
// The llm parameter is optional; when nil, answers use the extractive fallback.
func NewSynthesizer(llm driven.LLMService, prompts driven.PromptStore) *Synthesizer {
	return &Synthesizer{
		llm:     llm,
		prompts: prompts,
		now:     time.Now,
	}
}

// ModelName returns the model that produces generated answers.
func (s *Synthesizer) ModelName() string {
	if s.llm == nil {
		return FallbackModelName
	}
	return s.llm.ModelName()
}

// Configured returns true if a generative backend is available.
func (s *Synthesizer) Configured() bool {
	return s.llm != nil
}

// Synthesize builds the answer for query from results.
// Empty results short-circuit to NoMatchAnswer without contacting the backend.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, results []domain.QueryResult) domain.Answer {
	logger.Section("Answer Synthesis")

	answer := domain.Answer{
		SourceDocuments: results,
		ModelUsed:       s.ModelName(),
		GeneratedAt:     s.now(),
	}
	if answer.SourceDocuments == nil {
		answer.SourceDocuments = []domain.QueryResult{}
	}

	switch {
	case len(results) == 0:
		logger.Debug("No matches, skipping generation")
		answer.Text = NoMatchAnswer
		answer.Mode = domain.AnswerModeNoMatch
	case s.llm == nil:
		logger.Debug("No generative backend, using extractive fallback")
		answer.Text = FallbackAnswer(query, results)
		answer.Mode = domain.AnswerModeFallback
	default:
		text, err := s.generate(ctx, query, results)
		if err != nil {
			logger.Error("Generating answer: %v", err)
			answer.Text = backendErrorPrefix + err.Error()
			answer.Mode = domain.AnswerModeBackendError
			break
		}
		answer.Text = text
		answer.Mode = domain.AnswerModeGenerated
	}
	return answer
}

func (s *Synthesizer) generate(ctx context.Context, query string, results []domain.QueryResult) (string, error) {
	if s.prompts == nil {
		return "", fmt.Errorf("%w: no prompt store", domain.ErrBackendCallFailed)
	}
	system, err := s.prompts.Load(driven.PromptAnswerSystem)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBackendCallFailed, err)
	}
	userTemplate, err := s.prompts.Load(driven.PromptAnswerUser)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBackendCallFailed, err)
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
		{Role: driven.RoleUser, Content: fmt.Sprintf(userTemplate, AssembleContext(results), query)},
	}
	logger.Debug("Sending %d documents to %s", len(results), s.llm.ModelName())

	text, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// FallbackAnswer builds the deterministic extractive answer from the top
// results. Equal inputs always give byte-identical output.
func FallbackAnswer(query string, results []domain.QueryResult) string {
	if len(results) == 0 {
		return NoMatchAnswer
	}

	top := results
	if len(top) > fallbackSources {
		top = top[:fallbackSources]
	}

	snippets := make([]string, 0, len(top))
	for i, res := range top {
		header := fmt.Sprintf("Source %d:", i+1)
		if name := res.Document.RecordName(); name != "" {
			header = fmt.Sprintf("Source %d - %s:", i+1, name)
		}
		snippets = append(snippets, header+"\n"+truncateRunes(strings.TrimSpace(res.Document.EmbeddingText), fallbackRuneLimit))
	}

	return fallbackIntro + "\n\nQuestion: " + query + "\n\n" + strings.Join(snippets, "\n\n")
}

// truncateRunes cuts s to limit runes and appends an ellipsis if anything
// was removed.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + ellipsis
}
