package domain

import "context"

// Pair is a single (query, text) input for a relevance scorer.
type Pair struct {
	Query string
	Text  string
}

// ScoredPassage is a passage in its final position together with the score
// the scorer assigned to it.
type ScoredPassage struct {
	Text  string
	Score float64
	// Index is the position of the passage in the caller's input.
	Index int
	// Rank is the 1-based relevance rank (1 = highest score).
	Rank int
}

// Scorer assigns a relevance score to each (query, text) pair.
// Implementations return exactly one score per pair, in input order.
type Scorer interface {
	Name() string
	Score(ctx context.Context, pairs []Pair) ([]float64, error)
}

// Chunker splits raw input text into passages.
type Chunker interface {
	Split(text string) []string
}

// RankService defines the operations exposed by the application core.
type RankService interface {
	Rank(ctx context.Context, query string, passages []string) ([]string, error)
	RankScored(ctx context.Context, query string, passages []string) ([]ScoredPassage, error)
}
