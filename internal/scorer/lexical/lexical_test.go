package lexical

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rerank/internal/domain"
)

func TestScorer_Ochiai(t *testing.T) {
	tests := []struct {
		name  string
		query string
		text  string
		want  float64
	}{
		{name: "identical", query: "solar wind", text: "Wind solar", want: 1},
		{name: "disjoint", query: "solar wind", text: "chocolates are sweet", want: 0},
		// |Q∩T|=1, |Q|=2, |T|=2 → 1/2
		{name: "half", query: "solar wind", text: "solar panels", want: 0.5},
		// |Q∩T|=1, |Q|=1, |T|=4 → 1/2
		{name: "repeated tokens count once", query: "block", text: "block block chain of trust", want: 0.5},
		{name: "empty text", query: "solar", text: "", want: 0},
		{name: "punctuation only query", query: "?!", text: "solar", want: 0},
	}
	s := NewScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores, err := s.Score(context.Background(), []domain.Pair{{Query: tt.query, Text: tt.text}})
			require.NoError(t, err)
			require.Len(t, scores, 1)
			assert.InDelta(t, tt.want, scores[0], 1e-9)
		})
	}
}

func TestScorer_KeepsPairOrder(t *testing.T) {
	scores, err := NewScorer().Score(context.Background(), []domain.Pair{
		{Query: "a b", Text: "c"},
		{Query: "a b", Text: "a b"},
		{Query: "c", Text: "c"},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 1}, scores)
}

func TestScorer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewScorer().Score(ctx, []domain.Pair{{Query: "q", Text: "t"}})
	assert.ErrorIs(t, err, context.Canceled)
}
