// Package ngram implements a Markov n-gram model that keeps its counts in a
// ternary search tree: train it on a token stream, then query frequencies,
// conditional probabilities and completions.
package ngram // import "corpustools.io/corpustools/ngram"

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"fortio.org/log"
	"fortio.org/sets"

	"corpustools.io/corpustools/tst"
)

const (
	DefaultBoundary  = "</s>"
	DefaultSplitChar = '#'
)

// Options configures a Model. The zero value of every field but N is usable
// and gets the documented default.
type Options struct {
	// N is the n-gram size, required.
	N int
	// Boundary is the meta token n-grams must not cross (sentence or
	// document end). Default "</s>".
	Boundary string
	// SplitChar separates tokens inside stored n-gram strings. Default '#'.
	SplitChar rune
	// Vocabulary, when set, truncates n-grams at the first word outside it.
	Vocabulary sets.Set[string]
	// Targets, when set, restricts full n-grams to those ending in a
	// target; others contribute their (n-1)-prefix only.
	Targets sets.Set[string]
	// MustContain, when set, drops n-grams containing none of its words.
	// Probabilities become inaccurate, use for target counting only.
	MustContain sets.Set[string]
}

type Model struct {
	counts      *tst.Tree
	vocabulary  sets.Set[string]
	targets     sets.Set[string]
	mustContain sets.Set[string]
	boundary    string
	split       rune
	n           int
}

func NewModel(o Options) (*Model, error) {
	if o.N < 1 {
		return nil, fmt.Errorf("ngram: n must be at least 1, got %d", o.N)
	}
	if o.Boundary == "" {
		o.Boundary = DefaultBoundary
	}
	if o.SplitChar == 0 {
		o.SplitChar = DefaultSplitChar
	}
	log.Debugf("New %d-gram model, boundary %q, split %q", o.N, o.Boundary, o.SplitChar)
	return &Model{
		n:           o.N,
		counts:      tst.NewWithSplit(o.SplitChar),
		vocabulary:  o.Vocabulary,
		targets:     o.Targets,
		mustContain: o.MustContain,
		boundary:    o.Boundary,
		split:       o.SplitChar,
	}, nil
}

// Train counts every n-gram in the token stream. A boundary token flushes
// the current window and counts the shorter n-grams ending at it, without
// re-counting a full window that was already counted on the previous token.
func (m *Model) Train(tokens iter.Seq[string]) {
	window := make([]string, 0, m.n)
	for tok := range tokens {
		if tok == m.boundary {
			last := len(window)
			if last == m.n {
				last = m.n - 1
			}
			for l := 1; l <= last; l++ {
				m.train(window[len(window)-l:])
			}
			window = window[:0]
			continue
		}
		window = m.push(window, tok)
		if len(window) < m.n {
			continue
		}
		if m.targets != nil && !m.targets.Has(tok) {
			m.train(window[:m.n-1])
			continue
		}
		m.train(window)
	}
	// Tail of the stream, same as a boundary flush.
	if len(window) == m.n {
		window = window[1:]
	}
	for l := 1; l <= len(window); l++ {
		m.train(window[len(window)-l:])
	}
}

// push appends tok to a window of at most n tokens, dropping the oldest.
func (m *Model) push(window []string, tok string) []string {
	if len(window) < m.n {
		return append(window, tok)
	}
	copy(window, window[1:])
	window[m.n-1] = tok
	return window
}

func (m *Model) train(gram []string) {
	if m.vocabulary != nil {
		for i, w := range gram {
			if !m.vocabulary.Has(w) {
				gram = gram[:i]
				break
			}
		}
	}
	if m.mustContain != nil && !m.containsAny(gram) {
		return
	}
	m.counts.Insert(m.join(gram))
}

func (m *Model) containsAny(gram []string) bool {
	for _, w := range gram {
		if m.mustContain.Has(w) {
			return true
		}
	}
	return false
}

func (m *Model) join(gram []string) string {
	return strings.Join(gram, string(m.split))
}

// Insert adds freq occurrences of an already-joined n-gram string. With
// subsequences true, each prefix ending before a split rune is credited too
// (for "my#shiny#trigram" that is "my#shiny" and "my").
func (m *Model) Insert(ngram string, freq uint64, subsequences bool) {
	m.counts.Add(ngram, freq, subsequences)
}

// InsertTokens joins tokens with the split rune and inserts them.
func (m *Model) InsertTokens(tokens []string, freq uint64, subsequences bool) {
	m.Insert(m.join(tokens), freq, subsequences)
}

// InsertCounts bulk-inserts (n-gram, frequency) pairs.
func (m *Model) InsertCounts(counts iter.Seq2[string, uint64], subsequences bool) {
	for s, f := range counts {
		m.Insert(s, f, subsequences)
	}
}

// Frequency returns the stored count of the exact n-gram; the empty token
// slice returns the grand total.
func (m *Model) Frequency(tokens []string) uint64 {
	return m.counts.Frequency(m.join(tokens))
}

// Contains reports whether the n-gram was counted at least once.
func (m *Model) Contains(tokens []string) bool {
	return m.counts.Contains(m.join(tokens))
}

// Probability returns P(last token | preceding tokens), using at most the
// final n tokens. 0 when the n-gram was never seen.
func (m *Model) Probability(tokens []string) float64 {
	if len(tokens) > m.n {
		tokens = tokens[len(tokens)-m.n:]
	}
	return m.probability(tokens)
}

// Probabilities returns the conditional probability at every position of
// the token sequence, each conditioned on up to n-1 preceding tokens.
func (m *Model) Probabilities(tokens []string) []float64 {
	probs := make([]float64, 0, len(tokens))
	window := make([]string, 0, m.n)
	for _, tok := range tokens {
		window = m.push(window, tok)
		probs = append(probs, m.probability(window))
	}
	return probs
}

func (m *Model) probability(gram []string) float64 {
	freq := m.Frequency(gram)
	if freq == 0 {
		return 0
	}
	preceding := m.Frequency(gram[:len(gram)-1])
	if preceding == 0 {
		return 0
	}
	return float64(freq) / float64(preceding)
}

// Completions enumerates stored n-grams starting with prefix, in
// lexicographic order, filtered by MustContain when one is configured.
func (m *Model) Completions(prefix string) iter.Seq2[string, uint64] {
	if m.mustContain == nil {
		return m.counts.Completions(prefix)
	}
	return func(yield func(string, uint64) bool) {
		for s, f := range m.counts.Completions(prefix) {
			if !m.containsAny(strings.Split(s, string(m.split))) {
				continue
			}
			if !yield(s, f) {
				return
			}
		}
	}
}

// TargetProb is one stored n-gram ending in a target word, with its count
// and conditional probability.
type TargetProb struct {
	NGram       []string
	Frequency   uint64
	Probability float64
}

// TargetProbabilities enumerates every stored n-gram of the given sizes
// (default: n) whose final token is a target.
func (m *Model) TargetProbabilities(sizes ...int) iter.Seq[TargetProb] {
	if len(sizes) == 0 {
		sizes = []int{m.n}
	}
	return func(yield func(TargetProb) bool) {
		for s, freq := range m.counts.Completions("") {
			gram := strings.Split(s, string(m.split))
			if !slices.Contains(sizes, len(gram)) {
				continue
			}
			if m.targets != nil && !m.targets.Has(gram[len(gram)-1]) {
				continue
			}
			if !yield(TargetProb{NGram: gram, Frequency: freq, Probability: m.probability(gram)}) {
				return
			}
		}
	}
}

// Tree exposes the underlying counting tree, e.g. for raw string queries
// or completion UIs. Mutating it directly bypasses the model's filters.
func (m *Model) Tree() *tst.Tree { return m.counts }

func (m *Model) N() int           { return m.n }
func (m *Model) Boundary() string { return m.boundary }
func (m *Model) SplitChar() rune  { return m.split }
