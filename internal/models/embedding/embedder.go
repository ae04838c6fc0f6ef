// Package embedding vectorizes text for the retrieval engine's embedding
// pass (§4.D.3) and the crawl pipeline's chunk indexing (§4.G.4).
package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/aditeya/ragtenant/internal/models/provider"
)

// Embedder converts text into vectors for a single configured model.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
	GetModelName() string
	GetDimensions() int
}

// Config is the construction-time configuration for an Embedder.
type Config struct {
	Provider   provider.ProviderName
	BaseURL    string
	ModelName  string
	APIKey     string
	Dimensions int
}

// NewEmbedder builds an Embedder for the configured provider. A local
// Ollama instance is reached the same way as any OpenAI-compatible
// endpoint: Provider is Generic and BaseURL points at its /v1 surface.
func NewEmbedder(config Config) (Embedder, error) {
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
		return NewJinaEmbedder(config.APIKey, config.BaseURL, config.ModelName, config.Dimensions)
	case provider.ProviderOpenAI, provider.ProviderGeneric:
		return NewOpenAIEmbedder(config.APIKey, config.BaseURL, config.ModelName, config.Dimensions)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", name)
	}
}

func trimTrailingSlash(url string) string {
	return strings.TrimRight(url, "/")
}
