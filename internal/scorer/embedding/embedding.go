// Package embedding scores pairs with a bi-encoder: query and passage are
// embedded separately through an OpenAI-compatible embeddings API and
// compared by cosine similarity. It is the fallback when no cross-encoder
// endpoint is available.
package embedding

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"rerank/internal/domain"
)

// Config configures the embeddings client.
type Config struct {
	BaseURL string
	// APIKeyEnv names the environment variable holding the API key. Local
	// servers such as Ollama accept requests without one.
	APIKeyEnv  string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Scorer implements domain.Scorer on top of an embeddings endpoint.
type Scorer struct {
	client *openai.Client
	model  string
}

// NewScorer creates an embeddings scorer using the provided configuration.
func NewScorer(cfg Config) (*Scorer, error) {
	var key string
	if cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("embedding: missing API key in env %s", cfg.APIKeyEnv)
		}
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.SmallEmbedding3)
	}
	oc := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		oc.HTTPClient = cfg.HTTPClient
	} else {
		t := cfg.Timeout
		if t == 0 {
			t = 30 * time.Second
		}
		oc.HTTPClient = &http.Client{Timeout: t}
	}
	return &Scorer{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
	}, nil
}

// Name returns the identifier of this scorer implementation.
func (s *Scorer) Name() string { return "embedding" }

// Score embeds the distinct queries and every text in a single request.
func (s *Scorer) Score(ctx context.Context, pairs []domain.Pair) ([]float64, error) {
	scores := make([]float64, len(pairs))
	if len(pairs) == 0 {
		return scores, nil
	}

	var inputs []string
	queryIdx := make(map[string]int)
	for _, p := range pairs {
		if _, ok := queryIdx[p.Query]; !ok {
			queryIdx[p.Query] = len(inputs)
			inputs = append(inputs, p.Query)
		}
	}
	textStart := len(inputs)
	for _, p := range pairs {
		inputs = append(inputs, p.Text)
	}

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: inputs,
		Model: openai.EmbeddingModel(s.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: create embeddings: %w", err)
	}
	if len(resp.Data) != len(inputs) {
		return nil, fmt.Errorf("embedding: got %d embeddings for %d inputs", len(resp.Data), len(inputs))
	}
	vectors := make([][]float32, len(inputs))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(inputs) || vectors[d.Index] != nil {
			return nil, fmt.Errorf("embedding: unexpected embedding index %d", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	for i, p := range pairs {
		q := vectors[queryIdx[p.Query]]
		t := vectors[textStart+i]
		if len(q) != len(t) {
			return nil, fmt.Errorf("embedding: dimension mismatch %d != %d", len(q), len(t))
		}
		scores[i] = cosine(q, t)
	}
	return scores, nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
