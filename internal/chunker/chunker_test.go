package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineChunker(t *testing.T) {
	got := LineChunker{}.Split("a first line\n\n  b second  \r\nc\n")
	assert.Equal(t, []string{"a first line", "b second", "c"}, got)
	assert.Empty(t, LineChunker{}.Split(" \n\t\n"))
}

func TestParagraphChunker(t *testing.T) {
	got := ParagraphChunker{}.Split("one\ntwo\n\nthree\n   \nfour\r\n\r\nfive")
	assert.Equal(t, []string{"one two", "three", "four", "five"}, got)
}

func TestSentenceChunker(t *testing.T) {
	tests := []struct {
		name    string
		per     int
		overlap int
		text    string
		want    []string
	}{
		{
			name: "overlap", per: 2, overlap: 1,
			text: "A one. B two! C three? D four",
			want: []string{"A one. B two!", "B two! C three?", "C three? D four"},
		},
		{
			name: "no overlap", per: 2, overlap: 0,
			text: "A. B. C.",
			want: []string{"A. B.", "C."},
		},
		{
			name: "no terminal punctuation", per: 3, overlap: 0,
			text: "  just   text ",
			want: []string{"just text"},
		},
		{
			name: "overlap clamped", per: 1, overlap: 5,
			text: "A. B.",
			want: []string{"A.", "B."},
		},
		{
			name: "empty", per: 3, overlap: 1,
			text: " ",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewSentenceChunker(tt.per, tt.overlap).Split(tt.text))
		})
	}
}

func TestSentenceChunker_SplitsOnEveryPeriod(t *testing.T) {
	got := NewSentenceChunker(1, 0).Split("Output is 3.5 kW. Done.")
	assert.Equal(t, []string{"Output is 3.", "5 kW.", "Done."}, got)
}

func TestNew(t *testing.T) {
	c, err := New("", 0, 0)
	require.NoError(t, err)
	assert.IsType(t, LineChunker{}, c)

	c, err = New(TypeParagraph, 0, 0)
	require.NoError(t, err)
	assert.IsType(t, ParagraphChunker{}, c)

	c, err = New(TypeSentence, 2, 0)
	require.NoError(t, err)
	assert.IsType(t, &SentenceChunker{}, c)

	_, err = New("semantic", 0, 0)
	assert.Error(t, err)
}
