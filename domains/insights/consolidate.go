package insights

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	// consolidateThreshold is the input size below which consolidation is
	// skipped entirely.
	consolidateThreshold = 5

	titleSimilarityMin = 0.8
	descSimilarityMin  = 0.7
	descPrefixLen      = 100
)

// Consolidate merges near-duplicate insights produced by analyzing separate
// chunks. Inputs of five or fewer are returned unchanged. Otherwise
// insights are greedily clustered against each cluster's first member:
// title similarity above 0.8 or first-100-character description similarity
// above 0.7 joins the cluster, first match wins. Each cluster contributes
// its longest-description member (earliest on ties), with a synthetic ID
// assigned in output order.
func Consolidate(in []Insight) []Insight {
	if len(in) <= consolidateThreshold {
		return in
	}

	var clusters [][]int
	for i, ins := range in {
		placed := false
		for c, members := range clusters {
			rep := in[members[0]]
			if sameFinding(ins, rep) {
				clusters[c] = append(members, i)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, []int{i})
		}
	}

	out := make([]Insight, 0, len(clusters))
	for _, members := range clusters {
		best := members[0]
		for _, m := range members[1:] {
			if len(in[m].Description) > len(in[best].Description) {
				best = m
			}
		}
		rep := in[best]
		rep.ID = fmt.Sprintf("insight-%d", len(out)+1)
		out = append(out, rep)
	}

	return out
}

// sameFinding applies the combined similarity rule from the consolidation
// contract.
func sameFinding(a, b Insight) bool {
	if similarity(a.Title, b.Title) > titleSimilarityMin {
		return true
	}
	return similarity(prefix(a.Description, descPrefixLen), prefix(b.Description, descPrefixLen)) > descSimilarityMin
}

// similarity is 1 - normalized Levenshtein distance over lowercased
// strings. The distance counts runes, so the normalizer must too. Two
// empty strings are identical; one empty string is maximally distant from
// any non-empty one.
func similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// prefix returns the first n runes of s, never splitting a multibyte rune.
func prefix(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
