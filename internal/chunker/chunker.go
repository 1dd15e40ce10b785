// Package chunker splits raw input text into passages for ranking.
//
// Sentence boundaries are found with a plain punctuation regexp, so decimal
// points and abbreviations ("3.5 kW", "e.g.") also end a sentence. Use the
// line or paragraph chunker for text where that matters.
package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"rerank/internal/domain"
)

// Chunker types accepted by New.
const (
	TypeSentence  = "sentence"
	TypeLine      = "line"
	TypeParagraph = "paragraph"
)

// New returns the chunker registered under typ.
func New(typ string, sentencesPerChunk, overlapSentences int) (domain.Chunker, error) {
	switch typ {
	case TypeLine, "":
		return LineChunker{}, nil
	case TypeParagraph:
		return ParagraphChunker{}, nil
	case TypeSentence:
		return NewSentenceChunker(sentencesPerChunk, overlapSentences), nil
	default:
		return nil, fmt.Errorf("chunker: unknown type %q", typ)
	}
}

// LineChunker yields one passage per non-blank line.
type LineChunker struct{}

// Split implements domain.Chunker.
func (LineChunker) Split(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

var blankLineRe = regexp.MustCompile(`\n\s*\n`)

// ParagraphChunker yields one passage per blank-line separated block,
// with inner line breaks folded into spaces.
type ParagraphChunker struct{}

// Split implements domain.Chunker.
func (ParagraphChunker) Split(text string) []string {
	var out []string
	for _, para := range blankLineRe.Split(strings.ReplaceAll(text, "\r\n", "\n"), -1) {
		if para = strings.Join(strings.Fields(para), " "); para != "" {
			out = append(out, para)
		}
	}
	return out
}

// SentenceChunker groups sentences into passages with overlap.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
	splitter          *regexp.Regexp
}

// NewSentenceChunker creates a sentence chunker. Overlap is clamped so that
// every passage advances by at least one sentence.
func NewSentenceChunker(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 3
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	if overlapSentences >= sentencesPerChunk {
		overlapSentences = sentencesPerChunk - 1
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
		splitter:          regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

// Split implements domain.Chunker. Trailing text without terminal
// punctuation becomes its own sentence.
func (c *SentenceChunker) Split(text string) []string {
	var sentences []string
	rest := text
	for _, loc := range c.splitter.FindAllStringIndex(text, -1) {
		if s := strings.Join(strings.Fields(text[loc[0]:loc[1]]), " "); s != "" {
			sentences = append(sentences, s)
		}
		rest = text[loc[1]:]
	}
	if tail := strings.Join(strings.Fields(rest), " "); tail != "" {
		sentences = append(sentences, tail)
	}
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	i := 0
	for i < len(sentences) {
		end := i + c.sentencesPerChunk
		if end > len(sentences) {
			end = len(sentences)
		}
		chunks = append(chunks, strings.Join(sentences[i:end], " "))
		if end == len(sentences) {
			break
		}
		i = end - c.overlapSentences
	}
	return chunks
}
