// Package shell implements the interactive query loop over a trained
// n-gram model, plus tab completion support for terminal embedding.
package shell // import "corpustools.io/corpustools/shell"

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"fortio.org/version"

	"corpustools.io/corpustools/ngram"
)

const Prompt = "$ "

type Options struct {
	// MaxCompletions caps the results of the complete command, 0 for all.
	MaxCompletions int
}

// Interactive reads query commands line by line until quit or EOF.
func Interactive(m *ngram.Model, in io.Reader, out io.Writer, options Options) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, Prompt)
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !runCommand(m, line, out, options) {
			return
		}
	}
}

// runCommand handles one query line, returning false to leave the loop.
func runCommand(m *ngram.Model, line string, out io.Writer, options Options) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch cmd {
	case "quit", "exit":
		return false
	case "help":
		fmt.Fprintln(out, "commands: freq <ngram>, complete <prefix>, prob <tokens...>, total, version, help, quit")
	case "version":
		_, long, _ := version.FromBuildInfoPath("corpustools.io/corpustools")
		fmt.Fprintln(out, long)
	case "total":
		fmt.Fprintln(out, m.Tree().Total())
	case "freq":
		if rest == "" {
			fmt.Fprintln(out, "usage: freq <ngram>")
			break
		}
		fmt.Fprintln(out, m.Tree().Frequency(rest))
	case "prob":
		if rest == "" {
			fmt.Fprintln(out, "usage: prob <tokens...>")
			break
		}
		fmt.Fprintln(out, m.Probability(strings.Fields(rest)))
	case "complete":
		n := 0
		for s, c := range m.Completions(rest) {
			fmt.Fprintf(out, "%s\t%d\n", s, c)
			n++
			if options.MaxCompletions > 0 && n >= options.MaxCompletions {
				fmt.Fprintln(out, "...")
				break
			}
		}
		if n == 0 {
			fmt.Fprintf(out, "no completions for %q\n", rest)
		}
	default:
		fmt.Fprintf(out, "unknown command %q, try help\n", cmd)
	}
	return true
}
