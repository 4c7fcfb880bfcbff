package shell

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fortio.org/terminal"

	"corpustools.io/corpustools/tst"
)

// Show at most this many candidates on an ambiguous tab.
const maxSuggestions = 16

// AutoComplete completes n-gram prefixes from a counting tree, for use as
// a fortio terminal callback.
type AutoComplete struct {
	Tree *tst.Tree
}

func NewCompletion(t *tst.Tree) *AutoComplete {
	return &AutoComplete{Tree: t}
}

func (a *AutoComplete) AutoComplete() terminal.AutoCompleteCallback {
	return func(t *terminal.Terminal, line string, pos int, key rune) (newLine string, newPos int, ok bool) {
		if key != '\t' {
			return // only tab for now
		}
		return a.autoCompleteCallback(t, line, pos)
	}
}

func (a *AutoComplete) autoCompleteCallback(t *terminal.Terminal, line string, pos int) (newLine string, newPos int, ok bool) {
	matches := a.matches(line[:pos])
	if len(matches) == 0 {
		return
	}
	if len(matches) > 1 {
		fmt.Fprint(t.Out, "One of: ")
		for _, m := range matches {
			fmt.Fprint(t.Out, m, " ")
		}
		fmt.Fprintln(t.Out)
	}
	common := commonPrefix(matches)
	return common, len(common), true
}

func (a *AutoComplete) matches(prefix string) []string {
	var matches []string
	for s := range a.Tree.Completions(prefix) {
		matches = append(matches, s)
		if len(matches) >= maxSuggestions {
			break
		}
	}
	return matches
}

// commonPrefix returns the longest prefix shared by all entries, trimmed
// on rune boundaries. Entries must be non-empty.
func commonPrefix(list []string) string {
	p := list[0]
	for _, s := range list[1:] {
		for !strings.HasPrefix(s, p) {
			_, size := utf8.DecodeLastRuneInString(p)
			p = p[:len(p)-size]
		}
	}
	return p
}
