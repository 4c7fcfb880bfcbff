// Package corpus extracts tokens from tagged corpora (one token per line,
// tab separated annotation fields, <...> meta lines) as lazy sequences and
// prepares them for n-gram counting.
package corpus // import "corpustools.io/corpustools/corpus"

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"

	"fortio.org/log"
	"fortio.org/sets"
)

const (
	polishLower  = "aąbcćdeęfghijklłmnńoóprsśtuwyzźżqvx"
	englishLower = "abcdefghijklmnopqrstuvwxyz"
)

// Alphabets accepted by ReplaceDisallowed, upper and lower case.
var (
	Polish  = strings.ToUpper(polishLower) + polishLower
	English = strings.ToUpper(englishLower) + englishLower
)

// FieldOptions configures line filtering and field extraction.
// DefaultFieldOptions returns the conventional settings for the tagged
// corpora this package targets; the zero value extracts field 0 of
// tab separated 5-field lines verbatim, keeping nothing else.
type FieldOptions struct {
	Delimiter string           // field separator, default tab
	NumFields int              // expected fields per line, default 5
	TagField  int              // index of the part-of-speech tag
	Field     int              // index of the field Tokens extracts
	Lower     bool             // lowercase lines before anything else
	DropMeta  bool             // drop single-field <...> meta lines
	KeepMeta  sets.Set[string] // meta lines kept even with DropMeta
	DropTags  sets.Set[string] // drop lines whose tag is in this set
}

func DefaultFieldOptions() FieldOptions {
	return FieldOptions{
		Delimiter: "\t",
		NumFields: 5,
		TagField:  2,
		Lower:     true,
		DropMeta:  true,
		KeepMeta:  sets.New("</s>"),
		DropTags:  sets.New("zz", "sy"), // punctuation and symbols
	}
}

// Tokens yields one field per corpus line, plus any kept meta lines.
// Lines with the wrong number of fields are skipped with a warning.
func Tokens(r io.Reader, o FieldOptions) iter.Seq[string] {
	return func(yield func(string) bool) {
		for rec := range Records(r, o, o.Field) {
			if !yield(rec[0]) {
				return
			}
		}
	}
}

// Records is the multi-field variant of Tokens: it yields the requested
// fields of each line. Kept meta lines come through as a single-element
// record holding the raw line.
func Records(r io.Reader, o FieldOptions, fields ...int) iter.Seq[[]string] {
	if len(fields) == 0 {
		fields = []int{o.Field}
	}
	if o.Delimiter == "" {
		o.Delimiter = "\t"
	}
	if o.NumFields == 0 {
		o.NumFields = 5
	}
	return func(yield func([]string) bool) {
		sc := bufio.NewScanner(r)
		lineno := 0
		for sc.Scan() {
			lineno++
			line := sc.Text()
			if o.Lower {
				line = strings.ToLower(line)
			}
			if line == "" {
				continue
			}
			if o.KeepMeta.Has(line) {
				if !yield([]string{line}) {
					return
				}
				continue
			}
			split := strings.Split(line, o.Delimiter)
			// Heuristic: a single field starting with < is a meta tag.
			if len(split) == 1 && strings.HasPrefix(line, "<") {
				if !o.DropMeta && !yield([]string{line}) {
					return
				}
				continue
			}
			if len(split) != o.NumFields {
				log.Warnf("line %d has %d fields, expected %d: %q", lineno, len(split), o.NumFields, line)
				continue
			}
			if o.DropTags.Has(split[o.TagField]) {
				continue
			}
			rec := make([]string, len(fields))
			for i, f := range fields {
				rec[i] = split[f]
			}
			if !yield(rec) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			log.Errf("corpus read: %v", err)
		}
	}
}

// Units groups tokens into boundary-delimited units, e.g. sentences on
// "</s>" or documents on "</doc>". The boundary is kept during extraction
// no matter what KeepMeta says, then consumed by the split.
func Units(r io.Reader, boundary string, o FieldOptions) iter.Seq[[]string] {
	o.KeepMeta = withMeta(o.KeepMeta, boundary)
	return SplitOn(Tokens(r, o), boundary)
}

func withMeta(keep sets.Set[string], boundary string) sets.Set[string] {
	km := sets.New(boundary)
	for k := range keep {
		km.Add(k)
	}
	return km
}

// SplitOn regroups a sequence into subsequences separated by sep,
// dropping empty groups.
func SplitOn[T comparable](seq iter.Seq[T], sep T) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		var cur []T
		for v := range seq {
			if v == sep {
				if len(cur) > 0 {
					if !yield(cur) {
						return
					}
					cur = nil
				}
				continue
			}
			cur = append(cur, v)
		}
		if len(cur) > 0 {
			yield(cur)
		}
	}
}

// ReplaceDisallowed returns a copy of tokens where every token containing
// a rune outside allowed is replaced wholesale.
func ReplaceDisallowed(tokens []string, allowed, replacement string) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok
		if !allowedOnly(tok, allowed) {
			out[i] = replacement
		}
	}
	return out
}

func allowedOnly(s, allowed string) bool {
	for _, r := range s {
		if !strings.ContainsRune(allowed, r) {
			return false
		}
	}
	return true
}

// MergeOptions configures MergeTokensTags.
type MergeOptions struct {
	Fields      FieldOptions
	Boundary    string // unit separator, default "</s>"
	Symbols     string // allowed symbols, default Polish; "|" always allowed
	Replacement string // stand-in for disallowed tokens, default "REPL"
	TokenField  int
	TagField    int
}

func DefaultMergeOptions() MergeOptions {
	return MergeOptions{
		Fields:      DefaultFieldOptions(),
		Boundary:    "</s>",
		Symbols:     Polish,
		Replacement: "REPL",
		TagField:    2,
	}
}

// MergeTokensTags rewrites a tagged corpus (one token per line) into one
// sentence per line, each token merged with its tag as "token|tag".
func MergeTokensTags(w io.Writer, r io.Reader, o MergeOptions) error {
	if o.Boundary == "" {
		o.Boundary = "</s>"
	}
	if o.Symbols == "" {
		o.Symbols = Polish
	}
	if o.Replacement == "" {
		o.Replacement = "REPL"
	}
	symbols := o.Symbols
	if !strings.ContainsRune(symbols, '|') {
		symbols += "|"
	}
	o.Fields.KeepMeta = withMeta(o.Fields.KeepMeta, o.Boundary)
	bw := bufio.NewWriter(w)
	var sentence []string
	flush := func() error {
		if len(sentence) == 0 {
			return nil
		}
		if _, err := fmt.Fprintln(bw, strings.Join(sentence, " ")); err != nil {
			return err
		}
		sentence = sentence[:0]
		return nil
	}
	for rec := range Records(r, o.Fields, o.TokenField, o.TagField) {
		if len(rec) == 1 {
			if rec[0] == o.Boundary {
				if err := flush(); err != nil {
					return err
				}
			}
			continue
		}
		rec = ReplaceDisallowed(rec, symbols, o.Replacement)
		sentence = append(sentence, strings.Join(rec, "|"))
	}
	if err := flush(); err != nil {
		return err
	}
	return bw.Flush()
}
