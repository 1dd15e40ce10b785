package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"rerank/internal/domain"
	"rerank/internal/emphasis"
	"rerank/internal/reorder"
)

// fakeScorer returns scores by text and records every call.
type fakeScorer struct {
	byText map[string]float64
	err    error
	short  bool
	calls  [][]domain.Pair
}

func (f *fakeScorer) Name() string { return "fake" }

func (f *fakeScorer) Score(_ context.Context, pairs []domain.Pair) ([]float64, error) {
	f.calls = append(f.calls, pairs)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]float64, len(pairs))
	for i, p := range pairs {
		out[i] = f.byText[p.Text]
	}
	if f.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

func TestRank_WorkedExample(t *testing.T) {
	scorer := &fakeScorer{byText: map[string]float64{"A": 5, "B": 3, "C": 1, "D": 4, "E": 2}}
	svc := NewRankService(scorer)

	got, err := svc.Rank(context.Background(), "q", []string{"A", "B", "C", "D", "E"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "E", "D"}, got)
	require.Len(t, scorer.calls, 1)
	assert.Len(t, scorer.calls[0], 5)
}

func TestRank_ScoresEmphasizedButReturnsOriginals(t *testing.T) {
	passages := []string{
		"one two three four five six",
		"alpha beta gamma",
		"short text",
	}
	scorer := &fakeScorer{byText: map[string]float64{
		"onetwothreefourthreefourfivesix": 1,
		"alphabetabetagamma":              3,
		"short text":                      2,
	}}
	svc := NewRankService(scorer, WithEmphasizer(emphasis.Emphasizer{Factor: 2}))

	got, err := svc.RankScored(context.Background(), "query", passages)
	require.NoError(t, err)

	require.Len(t, scorer.calls, 1)
	assert.Equal(t, []domain.Pair{
		{Query: "query", Text: "onetwothreefourthreefourfivesix"},
		{Query: "query", Text: "alphabetabetagamma"},
		{Query: "query", Text: "short text"},
	}, scorer.calls[0])

	assert.Equal(t, []domain.ScoredPassage{
		{Text: "alpha beta gamma", Score: 3, Index: 1, Rank: 1},
		{Text: "one two three four five six", Score: 1, Index: 0, Rank: 3},
		{Text: "short text", Score: 2, Index: 2, Rank: 2},
	}, got)
}

func TestRank_DefaultEmphasisJoinsWithoutSeparator(t *testing.T) {
	scorer := &fakeScorer{}
	svc := NewRankService(scorer)
	_, err := svc.Rank(context.Background(), "q", []string{"a b c", "d e"})
	require.NoError(t, err)
	assert.Equal(t, "abc", scorer.calls[0][0].Text)
	assert.Equal(t, "d e", scorer.calls[0][1].Text)
}

func TestRank_EmptyDoesNotCallScorer(t *testing.T) {
	scorer := &fakeScorer{err: errors.New("must not be called")}
	svc := NewRankService(scorer)

	got, err := svc.Rank(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Empty(t, scorer.calls)
}

func TestRank_SinglePassage(t *testing.T) {
	svc := NewRankService(&fakeScorer{})
	got, err := svc.Rank(context.Background(), "q", []string{"only one"})
	require.NoError(t, err)
	assert.Equal(t, []string{"only one"}, got)
}

func TestRank_ScorerErrorPropagates(t *testing.T) {
	boom := errors.New("model unavailable")
	svc := NewRankService(&fakeScorer{err: boom})
	_, err := svc.Rank(context.Background(), "q", []string{"a", "b"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "score with fake")
}

func TestRank_ScoreCountMismatch(t *testing.T) {
	svc := NewRankService(&fakeScorer{short: true})
	_, err := svc.Rank(context.Background(), "q", []string{"a", "b", "c"})
	assert.ErrorIs(t, err, reorder.ErrLengthMismatch)
}

func TestRank_TiesAreDeterministic(t *testing.T) {
	passages := []string{"p0", "p1", "p2", "p3", "p4", "p5"}
	svc := NewRankService(&fakeScorer{})

	first, err := svc.Rank(context.Background(), "q", passages)
	require.NoError(t, err)
	assert.Equal(t, []string{"p0", "p2", "p4", "p5", "p3", "p1"}, first)
	for i := 0; i < 10; i++ {
		again, err := svc.Rank(context.Background(), "q", passages)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRank_DuplicatePassagesArePreserved(t *testing.T) {
	passages := []string{"same", "other", "same"}
	scorer := &fakeScorer{byText: map[string]float64{"same": 1, "other": 2}}
	got, err := NewRankService(scorer).Rank(context.Background(), "q", passages)
	require.NoError(t, err)
	assert.ElementsMatch(t, passages, got)
	assert.Equal(t, []string{"other", "same", "same"}, got)
}

func TestRank_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(&buf), zapcore.DebugLevel)
	svc := NewRankService(&fakeScorer{}, WithLogger(zap.New(core)))

	_, err := svc.Rank(context.Background(), "q", []string{"a", "b"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"scorer":"fake"`)
	assert.Contains(t, buf.String(), `"passages":2`)
}

var _ domain.RankService = (*RankServiceImpl)(nil)
