package tfidf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rerank/internal/domain"
)

func TestScorer_RelevantPassageScoresHigher(t *testing.T) {
	s := NewScorer()
	q := "benefits of renewable energy"
	pairs := []domain.Pair{
		{Query: q, Text: "Chocolates are sweet."},
		{Query: q, Text: "Renewable energy reduces emissions and brings many benefits."},
		{Query: q, Text: "Energy prices went up this year."},
	}

	scores, err := s.Score(context.Background(), pairs)
	require.NoError(t, err)
	require.Len(t, scores, 3)

	assert.Equal(t, 0.0, scores[0])
	assert.Greater(t, scores[1], scores[2])
	assert.Greater(t, scores[2], 0.0)
	for _, v := range scores {
		assert.LessOrEqual(t, v, 1.0+1e-9)
	}
}

func TestScorer_IdenticalTextScoresOne(t *testing.T) {
	s := NewScorer()
	text := "mitochondria powerhouse cell"
	scores, err := s.Score(context.Background(), []domain.Pair{
		{Query: text, Text: text},
		{Query: text, Text: "blockchain ledger"},
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, scores[0], 1e-9)
	assert.Equal(t, 0.0, scores[1])
}

func TestScorer_StopwordOnlyQuery(t *testing.T) {
	s := NewScorer()
	scores, err := s.Score(context.Background(), []domain.Pair{
		{Query: "what is the", Text: "what is the answer"},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, scores)
}

func TestScorer_Empty(t *testing.T) {
	scores, err := NewScorer().Score(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestScorer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewScorer().Score(ctx, []domain.Pair{{Query: "q", Text: "t"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScorer_Name(t *testing.T) {
	assert.Equal(t, "tfidf", NewScorer().Name())
}
