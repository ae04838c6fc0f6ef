// Package rerank scores (question, document) pairs for the hybrid
// reranking step of §4.D.4.
package rerank

import (
	"context"
	"fmt"

	"github.com/aditeya/ragtenant/internal/models/provider"
)

// RerankerConfig is the construction-time configuration for a Reranker.
type RerankerConfig struct {
	Provider  provider.ProviderName
	ModelName string
	ModelID   string
	APIKey    string
	BaseURL   string
}

// DocumentInfo echoes a reranked document's text back to the caller.
type DocumentInfo struct {
	Text string `json:"text"`
}

// RankResult is one document's position and score after reranking.
type RankResult struct {
	Index          int          `json:"index"`
	Document       DocumentInfo `json:"document"`
	RelevanceScore float64      `json:"relevance_score"`
}

// Reranker is the cross-encoder black box of §1: given a query and a set
// of candidate documents, it returns relevance-ordered results.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string) ([]RankResult, error)
	GetModelName() string
}

// NewReranker builds a Reranker for the configured provider.
func NewReranker(config RerankerConfig) (Reranker, error) {
	name := config.Provider
	if name == "" {
		name = provider.DetectProvider(config.BaseURL)
	}

	if _, err := provider.Resolve(&provider.Config{
		Provider:  name,
		ModelName: config.ModelName,
		APIKey:    config.APIKey,
		BaseURL:   config.BaseURL,
	}); err != nil {
		return nil, err
	}

	switch name {
	case provider.ProviderJina:
		return NewJinaReranker(&config)
	default:
		return nil, fmt.Errorf("unsupported rerank provider: %s", name)
	}
}
