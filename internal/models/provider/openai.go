package provider

import (
	"fmt"

	"github.com/aditeya/ragtenant/internal/types"
)

const (
	OpenAIBaseURL = "https://api.openai.com/v1"
)

// OpenAIProvider is the default remote backend for chat, embedding, and
// rerank requests.
type OpenAIProvider struct{}

func init() {
	Register(&OpenAIProvider{})
}

// Info returns OpenAI provider metadata.
func (p *OpenAIProvider) Info() ProviderInfo {
	return ProviderInfo{
		Name:        ProviderOpenAI,
		DisplayName: "OpenAI",
		Description: "gpt-4o-mini, gpt-4o, text-embedding-3-small, etc.",
		DefaultURLs: map[types.ModelType]string{
			types.ModelTypeChat:      OpenAIBaseURL,
			types.ModelTypeEmbedding: OpenAIBaseURL,
			types.ModelTypeRerank:    OpenAIBaseURL,
		},
		ModelTypes: []types.ModelType{
			types.ModelTypeChat,
			types.ModelTypeEmbedding,
			types.ModelTypeRerank,
		},
		RequiresAuth: true,
	}
}

// ValidateConfig validates OpenAI provider configuration.
func (p *OpenAIProvider) ValidateConfig(config *Config) error {
	if config.APIKey == "" {
		return fmt.Errorf("API key is required for OpenAI provider")
	}
	if config.ModelName == "" {
		return fmt.Errorf("model name is required")
	}
	return nil
}
