// Package tst implements a counting ternary search tree over unicode strings.
// Each node holds one rune and three links; counts are stored for complete
// strings and, when a split rune is configured, for every prefix ending just
// before a split boundary (so counting a trigram also counts its leading
// bigram and unigram).
package tst // import "corpustools.io/corpustools/tst"

import (
	"iter"
	"unicode/utf8"
)

type node struct {
	lo, eq, hi *node
	ch         rune
	count      uint64
}

// Tree is a counting ternary search tree. The zero value is not usable,
// construct with New or NewWithSplit. Not safe for concurrent mutation.
type Tree struct {
	root     *node
	total    uint64
	split    rune
	hasSplit bool
}

// New returns an empty tree with no split rune: only complete inserted
// strings get counted.
func New() *Tree {
	return &Tree{}
}

// NewWithSplit returns an empty tree that treats r as the token separator
// for subsequence counting. The split rune is fixed for the tree's lifetime.
func NewWithSplit(r rune) *Tree {
	return &Tree{split: r, hasSplit: true}
}

// SplitChar returns the configured split rune, if any.
func (t *Tree) SplitChar() (rune, bool) {
	return t.split, t.hasSplit
}

// Insert adds one occurrence of s, with subsequence counting on.
func (t *Tree) Insert(s string) {
	t.Add(s, 1, true)
}

// Add adds weight occurrences of s. A weight of 0 creates the nodes without
// changing any reported frequency, which is the supported way to control
// tree shape (insert the median elements first for a balanced tree).
// When subsequences is true and a split rune is configured, every prefix of
// s ending just before a split rune is also credited with weight.
func (t *Tree) Add(s string, weight uint64, subsequences bool) {
	t.root = t.insert(t.root, s, weight, subsequences)
	t.total += weight
}

func (t *Tree) insert(n *node, s string, weight uint64, subsequences bool) *node {
	if s == "" {
		return n
	}
	ch, size := utf8.DecodeRuneInString(s)
	if n == nil {
		n = &node{ch: ch}
	}
	switch {
	case ch == n.ch:
		rest := s[size:]
		if rest == "" {
			n.count += weight
			return n
		}
		if subsequences && t.hasSplit {
			if next, _ := utf8.DecodeRuneInString(rest); next == t.split {
				n.count += weight
			}
		}
		n.eq = t.insert(n.eq, rest, weight, subsequences)
	case ch < n.ch:
		n.lo = t.insert(n.lo, s, weight, subsequences)
	default:
		n.hi = t.insert(n.hi, s, weight, subsequences)
	}
	return n
}

// search returns the node s terminates at, or nil. Never allocates.
func search(n *node, s string) *node {
	if s == "" || n == nil {
		return n
	}
	ch, size := utf8.DecodeRuneInString(s)
	switch {
	case ch == n.ch:
		rest := s[size:]
		if rest == "" {
			return n
		}
		return search(n.eq, rest)
	case ch < n.ch:
		return search(n.lo, s)
	default:
		return search(n.hi, s)
	}
}

// Frequency returns the stored count for exactly s: 0 for strings never
// inserted, the grand total of all insert weights for the empty string.
// It does not aggregate over longer strings sharing the prefix; sum over
// Completions for that, or rely on subsequence counting at insert time.
func (t *Tree) Frequency(s string) uint64 {
	if s == "" {
		return t.total
	}
	n := search(t.root, s)
	if n == nil {
		return 0
	}
	return n.count
}

// Total returns the sum of all insert weights, same as Frequency("").
func (t *Tree) Total() uint64 {
	return t.total
}

// Contains reports whether s was stored with a nonzero count.
func (t *Tree) Contains(s string) bool {
	n := search(t.root, s)
	return n != nil && n.count > 0
}

// Completions returns all stored strings starting with prefix, with their
// counts, in lexicographic order. The sequence is lazy: breaking out of the
// range loop stops the traversal, and ranging again restarts it from
// scratch. An unseen prefix yields an empty sequence.
func (t *Tree) Completions(prefix string) iter.Seq2[string, uint64] {
	return t.completions(prefix, true)
}

// Suffixes is Completions with the prefix stripped from each result.
func (t *Tree) Suffixes(prefix string) iter.Seq2[string, uint64] {
	return t.completions(prefix, false)
}

// All enumerates every distinct stored string with its count, in
// lexicographic order. Equivalent to Completions("").
func (t *Tree) All() iter.Seq2[string, uint64] {
	return t.completions("", true)
}

func (t *Tree) completions(prefix string, full bool) iter.Seq2[string, uint64] {
	return func(yield func(string, uint64) bool) {
		n := search(t.root, prefix)
		if n == nil {
			return
		}
		if prefix != "" {
			// Continuations after the prefix live in its eq subtree;
			// the prefix's own node is not a completion of itself.
			n = n.eq
		}
		base := ""
		if full {
			base = prefix
		}
		walk(n, base, yield)
	}
}

// walk emits counted nodes in lexicographic order: lo first, then this
// node's own terminal (a bare character sorts before that character plus
// anything), then eq continuations, then hi. Returns false once the
// consumer stops.
func walk(n *node, prefix string, yield func(string, uint64) bool) bool {
	if n == nil {
		return true
	}
	if !walk(n.lo, prefix, yield) {
		return false
	}
	key := prefix + string(n.ch)
	if n.count > 0 && !yield(key, n.count) {
		return false
	}
	if !walk(n.eq, key, yield) {
		return false
	}
	return walk(n.hi, prefix, yield)
}
