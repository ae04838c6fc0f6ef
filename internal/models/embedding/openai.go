package embedding

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEmbedder vectorizes text against an OpenAI or OpenAI-compatible
// embeddings endpoint (including a local Ollama server's /v1 surface).
type OpenAIEmbedder struct {
	client     *openai.Client
	modelName  string
	dimensions int
}

// NewOpenAIEmbedder builds an Embedder against an OpenAI-compatible endpoint.
func NewOpenAIEmbedder(apiKey, baseURL, modelName string, dimensions int) (*OpenAIEmbedder, error) {
	if modelName == "" {
		return nil, fmt.Errorf("model name is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = trimTrailingSlash(baseURL)
	}
	return &OpenAIEmbedder{
		client:     openai.NewClientWithConfig(cfg),
		modelName:  modelName,
		dimensions: dimensions,
	}, nil
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return vectors[0], nil
}

func (e *OpenAIEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	req := openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(e.modelName),
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}
	resp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

func (e *OpenAIEmbedder) GetModelName() string { return e.modelName }
func (e *OpenAIEmbedder) GetDimensions() int    { return e.dimensions }
