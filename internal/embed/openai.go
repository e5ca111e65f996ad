// ABOUTME: OpenAI embedding backend using text-embedding-3-small (configurable)
// ABOUTME: One API call per batch with a per-call timeout; retries belong to the orchestrator
package embed

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/embedworks/vectorpipe/internal/models"
)

// DefaultEmbeddingModel is the default model for embeddings
const DefaultEmbeddingModel = openai.SmallEmbedding3

// OpenAIConfig holds configuration for the OpenAI embedding backend
type OpenAIConfig struct {
	APIKey      string
	Model       string
	Dimension   int
	CallTimeout time.Duration
}

// OpenAIEmbedder wraps the OpenAI API client behind the Embedder interface
type OpenAIEmbedder struct {
	client      *openai.Client
	model       openai.EmbeddingModel
	dimension   int
	callTimeout time.Duration
}

// NewOpenAIEmbedder creates an OpenAI-backed embedder
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", cfg.Dimension)
	}

	model := openai.EmbeddingModel(cfg.Model)
	if model == "" {
		model = DefaultEmbeddingModel
	}
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIEmbedder{
		client:      openai.NewClient(cfg.APIKey),
		model:       model,
		dimension:   cfg.Dimension,
		callTimeout: timeout,
	}, nil
}

// Dimension returns the configured vector length
func (e *OpenAIEmbedder) Dimension() int {
	return e.dimension
}

// Embed generates one embedding vector per input text in a single API call.
// A timeout expiry or API error is reported as a retryable backend error.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input:      texts,
		Model:      e.model,
		Dimensions: e.dimension,
	})
	if err != nil {
		return nil, &models.EmbeddingBackendError{Err: err}
	}

	if len(resp.Data) != len(texts) {
		return nil, &models.EmbeddingBackendError{
			Err: fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data)),
		}
	}

	// The API may return data out of order; resp.Data[i].Index pairs it back
	vectors := make([][]float64, len(texts))
	for _, datum := range resp.Data {
		if datum.Index < 0 || datum.Index >= len(texts) {
			return nil, &models.EmbeddingBackendError{
				Err: fmt.Errorf("embedding index %d out of range", datum.Index),
			}
		}
		// Convert []float32 to []float64
		vector := make([]float64, len(datum.Embedding))
		for i, v := range datum.Embedding {
			vector[i] = float64(v)
		}
		vectors[datum.Index] = vector
	}

	return vectors, nil
}
