// Package mood maps the fixed mood vocabulary onto integer severity codes.
package mood

// Code is a mood severity, 0 (worst) to 4 (best).
type Code int

// Pair is one label/code entry of the codec table.
type Pair struct {
	Label string
	Code  Code
}

// vocabulary lists every known label from worst to best. Codes equal the index.
var vocabulary = []Pair{
	{Label: "terribile", Code: 0},
	{Label: "male", Code: 1},
	{Label: "così così", Code: 2},
	{Label: "buono", Code: 3},
	{Label: "ottimo", Code: 4},
}

var byLabel = func() map[string]Code {
	m := make(map[string]Code, len(vocabulary))
	for _, p := range vocabulary {
		m[p.Label] = p.Code
	}
	return m
}()

// Encode returns the code for label. ok is false for labels outside the vocabulary.
// Matching is exact.
func Encode(label string) (c Code, ok bool) {
	c, ok = byLabel[label]
	return c, ok
}

// Decode returns the label for code, or false if code is out of range.
func Decode(c Code) (string, bool) {
	if c < 0 || int(c) >= len(vocabulary) {
		return "", false
	}
	return vocabulary[c].Label, true
}

// Pairs returns a copy of the codec table for persistence.
func Pairs() []Pair {
	out := make([]Pair, len(vocabulary))
	copy(out, vocabulary)
	return out
}
