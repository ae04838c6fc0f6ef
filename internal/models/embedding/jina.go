package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aditeya/ragtenant/internal/logger"
)

const defaultJinaBaseURL = "https://api.jina.ai/v1"

// JinaEmbedder vectorizes text using the Jina AI embeddings API, which is
// mostly OpenAI-compatible but takes a boolean "truncate" flag rather than
// an integer token budget.
type JinaEmbedder struct {
	apiKey     string
	baseURL    string
	modelName  string
	dimensions int
	httpClient *http.Client
	maxRetries int
}

type jinaEmbedRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Truncate   bool     `json:"truncate,omitempty"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type jinaEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// NewJinaEmbedder builds an Embedder against the Jina AI embeddings endpoint.
func NewJinaEmbedder(apiKey, baseURL, modelName string, dimensions int) (*JinaEmbedder, error) {
	if modelName == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if baseURL == "" {
		baseURL = defaultJinaBaseURL
	}
	return &JinaEmbedder{
		apiKey:     apiKey,
		baseURL:    trimTrailingSlash(baseURL),
		modelName:  modelName,
		dimensions: dimensions,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		maxRetries: 3,
	}, nil
}

func (e *JinaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return vectors[0], nil
}

func (e *JinaEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	reqBody := jinaEmbedRequest{Model: e.modelName, Input: texts, Truncate: true}
	if e.dimensions > 0 {
		reqBody.Dimensions = e.dimensions
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := e.doRequestWithRetry(ctx, jsonData)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jina embeddings API error: http status %s, body: %s", resp.Status, string(body))
	}

	var parsed jinaEmbedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	vectors := make([][]float32, 0, len(parsed.Data))
	for _, d := range parsed.Data {
		vectors = append(vectors, d.Embedding)
	}
	return vectors, nil
}

func (e *JinaEmbedder) doRequestWithRetry(ctx context.Context, jsonData []byte) (*http.Response, error) {
	url := e.baseURL + "/embeddings"
	var lastErr error
	for i := 0; i <= e.maxRetries; i++ {
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			if backoff > 10*time.Second {
				backoff = 10 * time.Second
			}
			logger.Infof(ctx, "retrying jina embeddings request (%d/%d), waiting %v", i, e.maxRetries, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
		if err != nil {
			lastErr = err
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+e.apiKey)

		resp, err := e.httpClient.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		logger.Errorf(ctx, "jina embeddings request failed (attempt %d/%d): %v", i+1, e.maxRetries+1, err)
	}
	return nil, lastErr
}

func (e *JinaEmbedder) GetModelName() string { return e.modelName }
func (e *JinaEmbedder) GetDimensions() int    { return e.dimensions }
