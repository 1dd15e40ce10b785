// Package lexical scores passages by plain token overlap with the query.
package lexical

import (
	"context"
	"math"
	"regexp"
	"strings"

	"rerank/internal/domain"
)

var unicodeWordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// Scorer rates pairs with the Ochiai coefficient |Q∩T| / sqrt(|Q||T|)
// over the sets of lowercased words of query and text.
type Scorer struct{}

// NewScorer creates a lexical overlap scorer.
func NewScorer() *Scorer { return &Scorer{} }

// Name returns the identifier of this scorer implementation.
func (s *Scorer) Name() string { return "lexical" }

// Score returns one overlap coefficient in [0, 1] per pair.
func (s *Scorer) Score(ctx context.Context, pairs []domain.Pair) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	querySets := make(map[string]map[string]struct{})
	scores := make([]float64, len(pairs))
	for i, p := range pairs {
		qset, ok := querySets[p.Query]
		if !ok {
			qset = toTokenSet(p.Query)
			querySets[p.Query] = qset
		}
		scores[i] = overlapOchiai(qset, p.Text)
	}
	return scores, nil
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func overlapOchiai(qset map[string]struct{}, text string) float64 {
	tset := toTokenSet(text)
	if len(qset) == 0 || len(tset) == 0 {
		return 0
	}
	inter := 0
	for t := range tset {
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	return float64(inter) / math.Sqrt(float64(len(qset))*float64(len(tset)))
}
