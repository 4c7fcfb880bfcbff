package corpus

import (
	"maps"
	"slices"
	"sort"
)

// MedianSplitOrder returns the strings of a frequency table in the
// insertion order that yields a balanced ternary search tree: the string
// closest to the median of the cumulative probability mass first, then
// recursively the medians of the two remaining halves. Insert the result
// in order (weight 0 works for pure shaping) before loading real data.
func MedianSplitOrder(freq map[string]uint64) []string {
	keys := slices.Sorted(maps.Keys(freq))
	if len(keys) == 0 {
		return nil
	}
	var sum float64
	for _, k := range keys {
		sum += float64(freq[k])
	}
	cum := make([]float64, len(keys))
	run := 0.0
	for i, k := range keys {
		w := float64(freq[k])
		if sum == 0 {
			w = 1 / float64(len(keys)) // all-zero table, use uniform mass
		} else {
			w /= sum
		}
		run += w
		cum[i] = run
	}
	out := make([]string, 0, len(keys))
	var rec func(lo, hi int)
	rec = func(lo, hi int) {
		switch hi - lo {
		case 0:
		case 1:
			out = append(out, keys[lo])
		case 2:
			out = append(out, keys[lo], keys[lo+1])
		case 3:
			out = append(out, keys[lo+1], keys[lo], keys[lo+2])
		default:
			m := lo + medianIndex(cum[lo:hi])
			out = append(out, keys[m])
			rec(lo, m)
			rec(m+1, hi)
		}
	}
	rec(0, len(keys))
	return out
}

// medianIndex returns the index of the element closest to holding half the
// cumulative mass on each side.
func medianIndex(cum []float64) int {
	mid := (cum[0] + cum[len(cum)-1]) / 2
	i := sort.SearchFloat64s(cum, mid)
	if i == 0 {
		return 0
	}
	if cum[i]-mid >= mid-cum[i-1] {
		return i - 1
	}
	return i
}
