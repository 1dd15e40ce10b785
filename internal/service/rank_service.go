package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"rerank/internal/domain"
	"rerank/internal/emphasis"
	"rerank/internal/reorder"
)

// RankServiceImpl scores passages against a query and arranges them
// ends-first. It holds no per-request state.
type RankServiceImpl struct {
	scorer     domain.Scorer
	emphasizer emphasis.Emphasizer
	log        *zap.Logger
}

// Option configures a RankServiceImpl.
type Option func(*RankServiceImpl)

// WithEmphasizer replaces the default emphasizer (factor 1, no separator).
func WithEmphasizer(e emphasis.Emphasizer) Option {
	return func(s *RankServiceImpl) { s.emphasizer = e }
}

// WithLogger sets the logger used for per-request diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(s *RankServiceImpl) {
		if log != nil {
			s.log = log
		}
	}
}

func NewRankService(scorer domain.Scorer, opts ...Option) *RankServiceImpl {
	s := &RankServiceImpl{
		scorer:     scorer,
		emphasizer: emphasis.Emphasizer{Factor: 1},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rank returns passages reordered by relevance to query, most relevant
// first and second most relevant last. The result is a permutation of
// passages.
func (s *RankServiceImpl) Rank(ctx context.Context, query string, passages []string) ([]string, error) {
	scored, err := s.RankScored(ctx, query, passages)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(scored))
	for i, sp := range scored {
		out[i] = sp.Text
	}
	return out, nil
}

// RankScored is Rank with the score, input index and relevance rank of
// every passage attached.
func (s *RankServiceImpl) RankScored(ctx context.Context, query string, passages []string) ([]domain.ScoredPassage, error) {
	if len(passages) == 0 {
		return []domain.ScoredPassage{}, nil
	}

	pairs := make([]domain.Pair, len(passages))
	for i, p := range passages {
		pairs[i] = domain.Pair{Query: query, Text: s.emphasizer.Apply(p)}
	}

	start := time.Now()
	scores, err := s.scorer.Score(ctx, pairs)
	if err != nil {
		return nil, fmt.Errorf("score with %s: %w", s.scorer.Name(), err)
	}
	s.log.Debug("scored passages",
		zap.String("scorer", s.scorer.Name()),
		zap.Int("passages", len(passages)),
		zap.Duration("elapsed", time.Since(start)),
	)
	if len(scores) != len(passages) {
		return nil, fmt.Errorf("scorer %s returned %d scores for %d passages: %w",
			s.scorer.Name(), len(scores), len(passages), reorder.ErrLengthMismatch)
	}

	order := reorder.SortByScore(scores)
	sorted := make([]domain.ScoredPassage, len(order))
	for rank, idx := range order {
		sorted[rank] = domain.ScoredPassage{
			Text:  passages[idx],
			Score: scores[idx],
			Index: idx,
			Rank:  rank + 1,
		}
	}
	return reorder.EndsFirst(sorted), nil
}
