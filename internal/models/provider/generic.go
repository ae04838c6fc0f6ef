package provider

import (
	"fmt"

	"github.com/aditeya/ragtenant/internal/types"
)

// GenericProvider targets any OpenAI-compatible endpoint the operator
// configures by base URL (including a local Ollama instance's /v1 surface).
type GenericProvider struct{}

func init() {
	Register(&GenericProvider{})
}

// Info returns generic provider metadata.
func (p *GenericProvider) Info() ProviderInfo {
	return ProviderInfo{
		Name:        ProviderGeneric,
		DisplayName: "Generic (OpenAI-compatible)",
		Description: "Any OpenAI-compatible endpoint, e.g. a local Ollama server",
		DefaultURLs: map[types.ModelType]string{},
		ModelTypes: []types.ModelType{
			types.ModelTypeChat,
			types.ModelTypeEmbedding,
			types.ModelTypeRerank,
		},
		RequiresAuth: false,
	}
}

// ValidateConfig validates generic provider configuration.
func (p *GenericProvider) ValidateConfig(config *Config) error {
	if config.BaseURL == "" {
		return fmt.Errorf("base URL is required for generic provider")
	}
	if config.ModelName == "" {
		return fmt.Errorf("model name is required")
	}
	return nil
}
