package corpus

import (
	"iter"
	"math/rand/v2"
	"strings"

	"github.com/rivo/uniseg"
)

// NGrams yields every n-token window of tokens in order, joined with join.
func NGrams(tokens []string, n int, join string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 0; i+n <= len(tokens); i++ {
			if !yield(strings.Join(tokens[i:i+n], join)) {
				return
			}
		}
	}
}

// GraphemeNGrams yields every window of n grapheme clusters of s.
// Splitting on cluster boundaries instead of runes keeps combining marks
// attached to their base character.
func GraphemeNGrams(s string, n int) iter.Seq[string] {
	return func(yield func(string) bool) {
		var clusters []string
		g := uniseg.NewGraphemes(s)
		for g.Next() {
			clusters = append(clusters, g.Str())
		}
		for i := 0; i+n <= len(clusters); i++ {
			if !yield(strings.Join(clusters[i:i+n], "")) {
				return
			}
		}
	}
}

// RandomStrings yields num strings drawn from symbols with lengths in
// [minLen, maxLen). The same seed reproduces the same sequence; useful for
// tests and tree shape experiments.
func RandomStrings(num, minLen, maxLen int, symbols string, seed uint64) iter.Seq[string] {
	return func(yield func(string) bool) {
		rng := rand.New(rand.NewPCG(seed, 0))
		runes := []rune(symbols)
		for range num {
			n := minLen
			if maxLen > minLen {
				n += rng.IntN(maxLen - minLen)
			}
			var b strings.Builder
			for range n {
				b.WriteRune(runes[rng.IntN(len(runes))])
			}
			if !yield(b.String()) {
				return
			}
		}
	}
}
