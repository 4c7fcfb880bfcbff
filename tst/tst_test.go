package tst_test

import (
	"iter"
	"testing"

	"corpustools.io/corpustools/tst"
)

type pair struct {
	s string
	c uint64
}

func collect(seq iter.Seq2[string, uint64]) []pair {
	var out []pair
	for s, c := range seq {
		out = append(out, pair{s, c})
	}
	return out
}

func TestScenario(t *testing.T) {
	tree := tst.NewWithSplit('|')
	tree.Insert("a|b")
	tree.Add("a|c", 2, true)
	tree.Insert("a")
	if got := tree.Frequency(""); got != 4 {
		t.Errorf("Frequency(\"\") = %d, want 4", got)
	}
	// 1 direct insert of "a" plus subsequence credit from "a|b" (1) and "a|c" (2).
	if got := tree.Frequency("a"); got != 4 {
		t.Errorf("Frequency(\"a\") = %d, want 4", got)
	}
	got := collect(tree.Suffixes("a|"))
	want := []pair{{"b", 1}, {"c", 2}}
	if len(got) != len(want) {
		t.Fatalf("Suffixes(\"a|\") = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Suffixes(\"a|\")[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if !tree.Contains("a|b") {
		t.Error("expected tree to contain \"a|b\"")
	}
	if got := tree.Frequency("a|b"); got != 1 {
		t.Errorf("Frequency(\"a|b\") = %d, want 1", got)
	}
}

func TestTotalInvariant(t *testing.T) {
	tree := tst.New()
	weights := []uint64{1, 3, 0, 7, 2}
	strs := []string{"x", "", "yz", "x", "abc"}
	var sum uint64
	for i, s := range strs {
		tree.Add(s, weights[i], true)
		sum += weights[i]
	}
	if got := tree.Frequency(""); got != sum {
		t.Errorf("Frequency(\"\") = %d, want %d", got, sum)
	}
	if got := tree.Total(); got != sum {
		t.Errorf("Total() = %d, want %d", got, sum)
	}
}

func TestExactMatchAndUnseen(t *testing.T) {
	tree := tst.New()
	for range 5 {
		tree.Insert("cat")
	}
	tree.Insert("car")
	if got := tree.Frequency("cat"); got != 5 {
		t.Errorf("Frequency(cat) = %d, want 5", got)
	}
	if got := tree.Frequency("ca"); got != 0 {
		t.Errorf("Frequency(ca) = %d, want 0 (prefix only, never a terminus)", got)
	}
	if got := tree.Frequency("dog"); got != 0 {
		t.Errorf("Frequency(dog) = %d, want 0", got)
	}
	if tree.Contains("ca") {
		t.Error("Contains(ca) = true, want false")
	}
	if tree.Contains("catx") {
		t.Error("Contains(catx) = true, want false")
	}
}

func TestCompletionsSortedAndComplete(t *testing.T) {
	tree := tst.New()
	// Insertion order chosen to force lo/hi branching both ways.
	words := []string{"mango", "kiwi", "pear", "apple", "mangosteen", "m", "kim", "ZZ", "Über"}
	for _, w := range words {
		tree.Insert(w)
	}
	got := collect(tree.All())
	if len(got) != len(words) {
		t.Fatalf("All() returned %d entries, want %d: %v", len(got), len(words), got)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].s >= got[i].s {
			t.Errorf("All() not strictly increasing at %d: %q >= %q", i, got[i-1].s, got[i].s)
		}
	}
	seen := map[string]uint64{}
	for _, p := range got {
		seen[p.s] = p.c
	}
	for _, w := range words {
		if seen[w] != 1 {
			t.Errorf("All() count for %q = %d, want 1", w, seen[w])
		}
	}
}

func TestPrefixFiltering(t *testing.T) {
	tree := tst.New()
	words := []string{"ant", "anthem", "antelope", "and", "band", "an"}
	for _, w := range words {
		tree.Insert(w)
	}
	// Completions of a prefix are its proper extensions: the prefix's own
	// entry ("an" here) is not re-emitted.
	all := collect(tree.All())
	var wantFull []pair
	for _, p := range all {
		if len(p.s) > 2 && p.s[:2] == "an" {
			wantFull = append(wantFull, p)
		}
	}
	gotFull := collect(tree.Completions("an"))
	if len(gotFull) != len(wantFull) {
		t.Fatalf("Completions(an) = %v, want %v", gotFull, wantFull)
	}
	for i := range wantFull {
		if gotFull[i] != wantFull[i] {
			t.Errorf("Completions(an)[%d] = %v, want %v", i, gotFull[i], wantFull[i])
		}
	}
	gotStripped := collect(tree.Suffixes("an"))
	for i, p := range gotStripped {
		if want := wantFull[i].s[2:]; p.s != want {
			t.Errorf("Suffixes(an)[%d] = %q, want %q", i, p.s, want)
		}
	}
	if got := collect(tree.Completions("zzz")); got != nil {
		t.Errorf("Completions(zzz) = %v, want empty", got)
	}
	// "an" itself is stored but must not reappear as its own completion
	// with an empty suffix.
	for _, p := range gotStripped {
		if p.s == "" {
			t.Error("Suffixes(an) emitted the empty suffix")
		}
	}
}

func TestSubsequenceBoundaryCounting(t *testing.T) {
	tree := tst.NewWithSplit('/')
	tree.Insert("ab/cd")
	tree.Insert("ab/xy")
	if got := tree.Frequency("ab"); got != 2 {
		t.Errorf("Frequency(ab) = %d, want 2 (one per insertion with first segment ab)", got)
	}
	if got := tree.Frequency("ab/cd"); got != 1 {
		t.Errorf("Frequency(ab/cd) = %d, want 1", got)
	}
	// Direct insertions stack on top of subsequence credits.
	tree.Insert("ab")
	if got := tree.Frequency("ab"); got != 3 {
		t.Errorf("Frequency(ab) = %d after direct insert, want 3", got)
	}
	// Disabling subsequence counting leaves boundary nodes alone.
	tree.Add("ab/zz", 1, false)
	if got := tree.Frequency("ab"); got != 3 {
		t.Errorf("Frequency(ab) = %d after subsequences=false insert, want 3", got)
	}
	if got := tree.Frequency("ab/zz"); got != 1 {
		t.Errorf("Frequency(ab/zz) = %d, want 1", got)
	}
}

func TestNoSplitTreeSkipsSubsequences(t *testing.T) {
	tree := tst.New()
	tree.Insert("ab/cd")
	if got := tree.Frequency("ab"); got != 0 {
		t.Errorf("Frequency(ab) = %d on split-less tree, want 0", got)
	}
	if _, ok := tree.SplitChar(); ok {
		t.Error("SplitChar() reported a split rune on a split-less tree")
	}
	if r, ok := tst.NewWithSplit('#').SplitChar(); !ok || r != '#' {
		t.Errorf("SplitChar() = %q, %v, want '#', true", r, ok)
	}
}

func TestZeroWeightShapesWithoutCounting(t *testing.T) {
	tree := tst.New()
	tree.Add("m", 0, true) // balance the root before real data
	tree.Insert("a")
	tree.Insert("z")
	if got := tree.Frequency("m"); got != 0 {
		t.Errorf("Frequency(m) = %d, want 0 for zero-weight insert", got)
	}
	if got := tree.Total(); got != 2 {
		t.Errorf("Total() = %d, want 2", got)
	}
	got := collect(tree.All())
	want := []pair{{"a", 1}, {"z", 1}}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("All() = %v, want %v", got, want)
	}
}

func TestEmptyStringInsert(t *testing.T) {
	tree := tst.New()
	tree.Add("", 5, true)
	if got := tree.Frequency(""); got != 5 {
		t.Errorf("Frequency(\"\") = %d, want 5", got)
	}
	if got := collect(tree.All()); got != nil {
		t.Errorf("All() = %v after empty-string insert, want empty", got)
	}
}

func TestLazyEarlyStopAndRestart(t *testing.T) {
	tree := tst.New()
	for _, w := range []string{"a", "b", "c", "d"} {
		tree.Insert(w)
	}
	seq := tree.All()
	var first []string
	for s := range seq {
		first = append(first, s)
		if len(first) == 2 {
			break
		}
	}
	if len(first) != 2 || first[0] != "a" || first[1] != "b" {
		t.Errorf("first two = %v, want [a b]", first)
	}
	// Ranging again restarts from the beginning, no shared cursor.
	var again []string
	for s := range seq {
		again = append(again, s)
	}
	if len(again) != 4 || again[0] != "a" || again[3] != "d" {
		t.Errorf("restarted iteration = %v, want [a b c d]", again)
	}
}

func TestUnicodeRunes(t *testing.T) {
	tree := tst.NewWithSplit('#')
	tree.Insert("żółw#gra")
	tree.Insert("żółw")
	if got := tree.Frequency("żółw"); got != 2 {
		t.Errorf("Frequency(żółw) = %d, want 2", got)
	}
	got := collect(tree.Completions("żó"))
	want := []pair{{"żółw", 2}, {"żółw#gra", 1}}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Completions(żó) = %v, want %v", got, want)
	}
}
