package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/aditeya/ragtenant/internal/models/chat"
	"github.com/aditeya/ragtenant/internal/types"
)

const synthesisTemperature = 0.3
const synthesisTopP = 0.8

const systemPrompt = "You are a helpful assistant answering questions using only the " +
	"provided context. If the context doesn't contain the answer, say so " +
	"plainly instead of guessing."

// retrieveAndSynthesize is §4.D.1 step 7: multi-pass retrieval, hybrid
// reranking, then answer synthesis over the top synthesisContextSize
// documents, returning the top maxSources snippets alongside the answer.
func (e *Engine) retrieveAndSynthesize(ctx context.Context, question string) (string, []string, error) {
	candidates, err := e.multiPassRetrieve(ctx, question)
	if err != nil {
		return "", nil, fmt.Errorf("retrieve: %w", err)
	}
	if len(candidates) == 0 {
		return "I couldn't find anything relevant to that in our knowledge base.", nil, nil
	}

	reranked, err := e.hybridRerank(ctx, question, candidates)
	if err != nil {
		return "", nil, fmt.Errorf("rerank: %w", err)
	}
	if len(reranked) == 0 {
		return "I couldn't find anything relevant to that in our knowledge base.", nil, nil
	}

	synthesisDocs := reranked
	if len(synthesisDocs) > synthesisContextSize {
		synthesisDocs = synthesisDocs[:synthesisContextSize]
	}

	answer, err := e.synthesizeAnswer(ctx, question, synthesisDocs)
	if err != nil {
		return "", nil, fmt.Errorf("synthesize: %w", err)
	}

	sources := buildSources(reranked)
	return answer, sources, nil
}

func (e *Engine) synthesizeAnswer(ctx context.Context, question string, docs []types.ScoredDocument) (string, error) {
	var b strings.Builder
	for i, d := range docs {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, d.Document.Text)
		if isLocationQuestion(question) && d.Document.URL != "" {
			fmt.Fprintf(&b, "Source: %s (%s)\n", d.Document.Title, d.Document.URL)
		}
	}

	messages := []chat.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("Context:\n%s\nQuestion: %s", b.String(), question)},
	}

	answer, err := e.chatModel.CompleteWithOptions(ctx, messages, chat.CompleteOptions{
		Temperature: synthesisTemperature,
		TopP:        synthesisTopP,
	})
	if err != nil {
		return "", err
	}

	if !isLocationQuestion(question) {
		answer = stripSourceLines(answer)
	}
	return answer, nil
}

// stripSourceLines is the safety net for non-location answers: the model
// occasionally echoes a "Source: ..." line from the context verbatim
// even when not asked where content lives, so strip it rather than rely
// on the prompt alone.
func stripSourceLines(answer string) string {
	lines := strings.Split(answer, "\n")
	out := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "Source:") || strings.Contains(trimmed, "http://") || strings.Contains(trimmed, "https://") {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func buildSources(docs []types.ScoredDocument) []string {
	limit := maxSources
	if len(docs) < limit {
		limit = len(docs)
	}
	sources := make([]string, 0, limit)
	for _, d := range docs[:limit] {
		text := d.Document.Text
		if len(text) > sourceSnippetChars {
			text = text[:sourceSnippetChars]
		}
		sources = append(sources, text)
	}
	return sources
}
