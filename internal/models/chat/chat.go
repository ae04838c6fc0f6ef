// Package chat provides the synthesis model used by the retrieval
// engine's answer-generation step (§4.D.4). Per §1's non-goals there is
// no streaming and no tool-calling: Complete blocks until the full
// answer is ready.
package chat

import (
	"context"
	"fmt"

	"github.com/aditeya/ragtenant/internal/models/provider"
	openai "github.com/sashabaranov/go-openai"
)

// Message is one turn in a chat completion request.
type Message struct {
	Role    string
	Content string
}

// Model is the pluggable chat black box of §1.
type Model interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	CompleteWithOptions(ctx context.Context, messages []Message, opts CompleteOptions) (string, error)
	GetModelName() string
}

// Config is the construction-time configuration for a Model.
type Config struct {
	Provider    provider.ProviderName
	ModelName   string
	APIKey      string
	BaseURL     string
	Temperature float32
	TopP        float32
}

// CompleteOptions overrides a Model's default sampling parameters for a
// single call, used by the synthesis step (§4.D.4) which pins its own
// temperature/top-p rather than inheriting the model's defaults.
type CompleteOptions struct {
	Temperature float32
	TopP        float32
}

// NewModel builds a Model for the configured provider. A local Ollama
// instance is reached the same way as any OpenAI-compatible endpoint:
// Provider is Generic and BaseURL points at its /v1 surface.
func NewModel(config Config) (Model, error) {
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
	case provider.ProviderOpenAI, provider.ProviderGeneric:
		return newOpenAICompatModel(config), nil
	default:
		return nil, fmt.Errorf("unsupported chat provider: %s", name)
	}
}

type openAICompatModel struct {
	client      *openai.Client
	modelName   string
	temperature float32
	topP        float32
}

func newOpenAICompatModel(config Config) *openAICompatModel {
	cfg := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		cfg.BaseURL = trimTrailingSlash(config.BaseURL)
	}
	temp := config.Temperature
	if temp == 0 {
		temp = 0.2
	}
	topP := config.TopP
	if topP == 0 {
		topP = 1.0
	}
	return &openAICompatModel{
		client:      openai.NewClientWithConfig(cfg),
		modelName:   config.ModelName,
		temperature: temp,
		topP:        topP,
	}
}

func (m *openAICompatModel) Complete(ctx context.Context, messages []Message) (string, error) {
	return m.complete(ctx, messages, m.temperature, m.topP)
}

// CompleteWithOptions runs a completion with caller-supplied sampling
// parameters instead of the model's construction-time defaults. The
// chat completions API this client speaks has no top-k parameter, so
// synthesis's top-k requirement is satisfied upstream by capping the
// reranked context to synthesisContextSize documents.
func (m *openAICompatModel) CompleteWithOptions(ctx context.Context, messages []Message, opts CompleteOptions) (string, error) {
	return m.complete(ctx, messages, opts.Temperature, opts.TopP)
}

func (m *openAICompatModel) complete(ctx context.Context, messages []Message, temperature, topP float32) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       m.modelName,
		Temperature: temperature,
		TopP:        topP,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (m *openAICompatModel) GetModelName() string { return m.modelName }

func trimTrailingSlash(url string) string {
	for len(url) > 0 && url[len(url)-1] == '/' {
		url = url[:len(url)-1]
	}
	return url
}
