// Package crossencoder scores (query, passage) pairs with a cross-encoder
// served behind an HTTP rerank endpoint (Infinity, Cohere, Jina or
// Hugging Face text-embeddings-inference).
package crossencoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"rerank/internal/domain"
)

// Wire formats understood by the client.
const (
	FormatCohere = "cohere" // {"query","documents"} → {"results":[{"index","relevance_score"}]}
	FormatTEI    = "tei"    // {"query","texts"} → [{"index","score"}]
)

// DefaultModel is the cross-encoder requested when none is configured.
const DefaultModel = "cross-encoder/stsb-roberta-base"

// Config configures the cross-encoder client.
type Config struct {
	// URL is the full rerank endpoint, e.g. http://localhost:7997/rerank.
	URL string
	// APIKeyEnv names the environment variable holding a bearer token.
	// Empty means the endpoint is unauthenticated.
	APIKeyEnv string
	Model     string
	Format    string
	Timeout   time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Scorer is a cross-encoder rerank client implementing domain.Scorer.
type Scorer struct {
	url    string
	apiKey string
	model  string
	format string
	client *http.Client
}

// NewScorer creates a cross-encoder scorer using the provided configuration.
func NewScorer(cfg Config) (*Scorer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("crossencoder: endpoint url is empty")
	}
	var key string
	if cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("crossencoder: missing API key in env %s", cfg.APIKeyEnv)
		}
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	switch cfg.Format {
	case "":
		cfg.Format = FormatCohere
	case FormatCohere, FormatTEI:
	default:
		return nil, fmt.Errorf("crossencoder: unknown format %q", cfg.Format)
	}
	client := cfg.HTTPClient
	if client == nil {
		t := cfg.Timeout
		if t == 0 {
			t = 30 * time.Second
		}
		client = &http.Client{Timeout: t}
	}
	return &Scorer{
		url:    cfg.URL,
		apiKey: key,
		model:  cfg.Model,
		format: cfg.Format,
		client: client,
	}, nil
}

// Name returns the identifier of this scorer implementation.
func (s *Scorer) Name() string { return "crossencoder" }

// Score sends one rerank request per distinct query, in order of first
// appearance, and maps the returned scores back onto pairs.
func (s *Scorer) Score(ctx context.Context, pairs []domain.Pair) ([]float64, error) {
	scores := make([]float64, len(pairs))
	if len(pairs) == 0 {
		return scores, nil
	}

	type group struct {
		query   string
		indexes []int
	}
	var groups []*group
	byQuery := make(map[string]*group)
	for i, p := range pairs {
		g, ok := byQuery[p.Query]
		if !ok {
			g = &group{query: p.Query}
			byQuery[p.Query] = g
			groups = append(groups, g)
		}
		g.indexes = append(g.indexes, i)
	}

	for _, g := range groups {
		docs := make([]string, len(g.indexes))
		for j, idx := range g.indexes {
			docs[j] = pairs[idx].Text
		}
		got, err := s.rerank(ctx, g.query, docs)
		if err != nil {
			return nil, err
		}
		for j, idx := range g.indexes {
			scores[idx] = got[j]
		}
	}
	return scores, nil
}

type cohereRequest struct {
	Model           string   `json:"model,omitempty"`
	Query           string   `json:"query"`
	Documents       []string `json:"documents"`
	TopN            int      `json:"top_n"`
	ReturnDocuments bool     `json:"return_documents"`
}

type cohereResponse struct {
	Results []result `json:"results"`
}

type teiRequest struct {
	Query     string   `json:"query"`
	Texts     []string `json:"texts"`
	RawScores bool     `json:"raw_scores"`
}

type result struct {
	Index          int      `json:"index"`
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
	Score          *float64 `json:"score,omitempty"`
}

func (s *Scorer) rerank(ctx context.Context, query string, docs []string) ([]float64, error) {
	var payload any
	if s.format == FormatTEI {
		payload = teiRequest{Query: query, Texts: docs}
	} else {
		payload = cohereRequest{Model: s.model, Query: query, Documents: docs, TopN: len(docs)}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("crossencoder: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("crossencoder: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crossencoder: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("crossencoder: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var results []result
	if s.format == FormatTEI {
		err = json.NewDecoder(resp.Body).Decode(&results)
	} else {
		var out cohereResponse
		err = json.NewDecoder(resp.Body).Decode(&out)
		results = out.Results
	}
	if err != nil {
		return nil, fmt.Errorf("crossencoder: decode response: %w", err)
	}
	return collect(results, len(docs))
}

// collect places each result at its document index. Every document must
// receive exactly one score.
func collect(results []result, n int) ([]float64, error) {
	if len(results) != n {
		return nil, fmt.Errorf("crossencoder: got %d scores for %d documents", len(results), n)
	}
	scores := make([]float64, n)
	seen := make([]bool, n)
	for _, r := range results {
		if r.Index < 0 || r.Index >= n {
			return nil, fmt.Errorf("crossencoder: result index %d out of range", r.Index)
		}
		if seen[r.Index] {
			return nil, fmt.Errorf("crossencoder: duplicate result index %d", r.Index)
		}
		seen[r.Index] = true
		switch {
		case r.RelevanceScore != nil:
			scores[r.Index] = *r.RelevanceScore
		case r.Score != nil:
			scores[r.Index] = *r.Score
		default:
			return nil, fmt.Errorf("crossencoder: result index %d has no score", r.Index)
		}
	}
	return scores, nil
}
