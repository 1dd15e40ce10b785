package tfidf

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"rerank/internal/domain"
)

// Scorer rates pairs by cosine similarity of TF-IDF vectors.
// The vocabulary and IDF values are built from the texts of each batch,
// so scores are only comparable within one call.
type Scorer struct {
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewScorer creates a TF-IDF scorer.
func NewScorer() *Scorer {
	return &Scorer{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`),
		stopwords:    defaultStopwords(),
	}
}

// Name returns the identifier of this scorer implementation.
func (s *Scorer) Name() string { return "tfidf" }

// Score returns one similarity in [0, 1] per pair.
func (s *Scorer) Score(ctx context.Context, pairs []domain.Pair) ([]float64, error) {
	if len(pairs) == 0 {
		return []float64{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	corpus := make([]string, len(pairs))
	for i, p := range pairs {
		corpus[i] = p.Text
	}
	m := s.prepare(corpus)

	queryVecs := make(map[string]map[int]float64)
	scores := make([]float64, len(pairs))
	for i, p := range pairs {
		qv, ok := queryVecs[p.Query]
		if !ok {
			qv = m.vector(s.tokenize(p.Query))
			queryVecs[p.Query] = qv
		}
		scores[i] = dot(qv, m.vector(s.tokenize(p.Text)))
	}
	return scores, nil
}

type model struct {
	vocabulary map[string]int
	idf        []float64
}

func (s *Scorer) prepare(corpus []string) *model {
	// Build vocabulary and document frequencies
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range s.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	// Stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	m := &model{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
	}
	N := float64(len(corpus))
	for i, term := range terms {
		m.vocabulary[term] = i
		// Smoothed IDF
		m.idf[i] = math.Log((1+N)/(1+float64(df[term]))) + 1.0
	}
	return m
}

// vector returns an L2-normalized sparse TF-IDF vector. Tokens outside the
// batch vocabulary are ignored.
func (m *model) vector(tokens []string) map[int]float64 {
	tf := make(map[int]int)
	total := 0
	for _, tok := range tokens {
		if idx, ok := m.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	vec := make(map[int]float64, len(tf))
	if total == 0 {
		return vec
	}
	norm := 0.0
	for idx, count := range tf {
		v := float64(count) / float64(total) * m.idf[idx]
		vec[idx] = v
		norm += v * v
	}
	norm = math.Sqrt(norm)
	for idx := range vec {
		vec[idx] /= norm
	}
	return vec
}

func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	sum := 0.0
	for idx, v := range a {
		sum += v * b[idx]
	}
	return sum
}

func (s *Scorer) tokenize(text string) []string {
	raw := s.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := s.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now", "what", "how", "does", "do",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
