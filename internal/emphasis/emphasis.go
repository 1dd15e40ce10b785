// Package emphasis biases a relevance scorer toward the middle of a passage
// by repeating its middle third of whitespace-delimited tokens.
package emphasis

import "strings"

// Emphasizer repeats the middle section of a passage Factor times.
//
// The zero Separator joins tokens with no separator at all. The emphasized
// text is only ever fed to the scorer, never shown to a reader.
type Emphasizer struct {
	Factor    int
	Separator string
	Disabled  bool
}

// Emphasize is Emphasizer{Factor: factor}.Apply(text).
func Emphasize(text string, factor int) string {
	return Emphasizer{Factor: factor}.Apply(text)
}

// Apply returns the emphasized form of text. Texts with fewer than three
// tokens have no distinguishable middle and are returned unchanged.
func (e Emphasizer) Apply(text string) string {
	if e.Disabled {
		return text
	}
	tokens := strings.Fields(text)
	n := len(tokens)
	if n < 3 {
		return text
	}
	factor := e.Factor
	if factor < 1 {
		factor = 1
	}

	midStart := n / 3
	midEnd := 2 * midStart
	middle := tokens[midStart:midEnd]

	out := make([]string, 0, n+(factor-1)*len(middle))
	out = append(out, tokens[:midStart]...)
	for i := 0; i < factor; i++ {
		out = append(out, middle...)
	}
	out = append(out, tokens[midEnd:]...)
	return strings.Join(out, e.Separator)
}
