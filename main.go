// Corpustools counts n-grams from tagged corpora in a counting ternary
// search tree and answers frequency, probability and completion queries.
package main

import (
	"flag"
	"fmt"
	"io"
	"iter"
	"math"
	"os"
	"runtime"
	"runtime/debug"
	"unicode/utf8"

	"fortio.org/cli"
	"fortio.org/log"
	"fortio.org/safecast"
	"fortio.org/struct2env"

	"corpustools.io/corpustools/corpus"
	"corpustools.io/corpustools/ngram"
	"corpustools.io/corpustools/shell"
)

func main() {
	os.Exit(Main())
}

type Config struct {
	Boundary  string
	SplitChar string
}

var config = Config{}

func EnvHelp(w io.Writer) {
	res, _ := struct2env.StructToEnvVars(config)
	str := struct2env.ToShellWithPrefix("CORPUSTOOLS_", res, true)
	fmt.Fprintln(w, "# Corpustools environment variables:")
	fmt.Fprint(w, str)
}

func Main() int {
	nFlag := flag.Int("n", 3, "n-gram `size` to count")
	cli.EnvHelpFuncs = append(cli.EnvHelpFuncs, EnvHelp)
	errs := struct2env.SetFromEnv("CORPUSTOOLS_", &config)
	if len(errs) > 0 {
		log.Errf("Error setting config from env: %v", errs)
	}
	defaultBoundary := ngram.DefaultBoundary
	if config.Boundary != "" {
		defaultBoundary = config.Boundary
	}
	defaultSplit := string(ngram.DefaultSplitChar)
	if config.SplitChar != "" {
		defaultSplit = config.SplitChar
	}
	splitFlag := flag.String("split", defaultSplit, "`rune` separating tokens in stored n-grams")
	boundaryFlag := flag.String("boundary", defaultBoundary, "meta `token` n-grams must not cross")
	delimiter := flag.String("delimiter", "\t", "field `separator` in corpus lines")
	field := flag.Int("field", 0, "`index` of the token field")
	tagField := flag.Int("tag-field", 2, "`index` of the tag field")
	numFields := flag.Int("num-fields", 5, "expected `number` of fields per corpus line")
	keepCase := flag.Bool("keep-case", false, "don't lowercase corpus lines")
	freqFlag := flag.String("freq", "", "print the frequency of this `n-gram` and exit")
	completeFlag := flag.Bool("complete", false, "print completions of -prefix with their counts")
	prefixFlag := flag.String("prefix", "", "`prefix` for -complete")
	topFlag := flag.Int("top", 0, "max `number` of completions to print, 0 for all")
	totalFlag := flag.Bool("total", false, "print the total insertion count")
	insertFlag := flag.String("insert", "", "insert this `n-gram` with -weight before querying")
	weightFlag := flag.Int("weight", 1, "insertion `weight` for -insert, 0 shapes the tree without counting")
	noSubseq := flag.Bool("no-subsequences", false, "don't credit split-boundary prefixes on -insert")
	interactive := flag.Bool("i", false, "interactive query shell after counting")
	progressEvery := flag.Int("progress-every", 0, "log progress every `N` tokens, 0 to disable")

	cli.ArgsHelp = "corpus files to count or `-` for stdin; no files and no query flags for the interactive shell..."
	cli.MaxArgs = -1
	cli.Main()

	if utf8.RuneCountInString(*splitFlag) != 1 {
		return log.FErrf("-split must be exactly one rune, got %q", *splitFlag)
	}
	split, _ := utf8.DecodeRuneInString(*splitFlag)
	weight, err := safecast.Convert[uint64](*weightFlag)
	if err != nil {
		return log.FErrf("Invalid -weight: %v", err)
	}
	model, err := ngram.NewModel(ngram.Options{N: *nFlag, Boundary: *boundaryFlag, SplitChar: split})
	if err != nil {
		return log.FErrf("%v", err)
	}

	log.Infof("corpustools %s - counting %d-grams", cli.LongVersion, *nFlag)
	memlimit := debug.SetMemoryLimit(-1)
	if memlimit == math.MaxInt64 {
		log.Warnf("Memory limit not set, please set the GOMEMLIMIT env var; e.g. GOMEMLIMIT=1GiB")
	}

	fieldOpts := corpus.DefaultFieldOptions()
	fieldOpts.Delimiter = *delimiter
	fieldOpts.Field = *field
	fieldOpts.TagField = *tagField
	fieldOpts.NumFields = *numFields
	fieldOpts.Lower = !*keepCase
	fieldOpts.KeepMeta.Add(*boundaryFlag)

	for _, file := range flag.Args() {
		ret := processOneFile(file, model, fieldOpts, *progressEvery)
		if ret != 0 {
			return ret
		}
	}

	if *insertFlag != "" {
		model.Insert(*insertFlag, weight, !*noSubseq)
	}
	queried := false
	if *freqFlag != "" {
		fmt.Println(model.Tree().Frequency(*freqFlag))
		queried = true
	}
	if *totalFlag {
		fmt.Println(model.Tree().Total())
		queried = true
	}
	if *completeFlag {
		n := 0
		for s, c := range model.Completions(*prefixFlag) {
			fmt.Printf("%s\t%d\n", s, c)
			n++
			if *topFlag > 0 && n >= *topFlag {
				break
			}
		}
		queried = true
	}
	if *interactive || (!queried && *insertFlag == "" && len(flag.Args()) == 0) {
		shell.Interactive(model, os.Stdin, os.Stdout, shell.Options{MaxCompletions: *topFlag})
		return 0
	}
	log.Infof("All done, %d insertions counted", model.Tree().Total())
	return 0
}

func processOneFile(file string, m *ngram.Model, o corpus.FieldOptions, every int) int {
	if file == "-" {
		log.Infof("Counting stdin")
		return processOneStream(os.Stdin, m, o, every)
	}
	f, err := os.Open(file)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Infof("Counting %s", file)
	code := processOneStream(f, m, o, every)
	f.Close()
	return code
}

func processOneStream(in io.Reader, m *ngram.Model, o corpus.FieldOptions, every int) int {
	m.Train(progress(corpus.Tokens(in, o), m, every))
	return 0
}

// progress interleaves periodic consumption reports into a token stream.
func progress(tokens iter.Seq[string], m *ngram.Model, every int) iter.Seq[string] {
	if every <= 0 {
		return tokens
	}
	return func(yield func(string) bool) {
		n := 0
		for tok := range tokens {
			if !yield(tok) {
				return
			}
			n++
			if n%every == 0 {
				var ms runtime.MemStats
				runtime.ReadMemStats(&ms)
				log.Infof("Consumed %d tokens, %d insertions, %d MiB heap in use",
					n, m.Tree().Total(), ms.HeapInuse/1024/1024)
			}
		}
		log.Infof("Consumed %d tokens total", n)
	}
}
