package insights

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insight(title, desc string) Insight {
	return Insight{
		Title:       title,
		Description: desc,
		Severity:    SeverityMedium,
		Category:    CategoryCodeQuality,
	}
}

// distinct generates insights with mutually dissimilar titles and
// descriptions.
func distinct(n int) []Insight {
	titles := []string{
		"Authentication bypass in login handler",
		"Unbounded goroutine growth in poller",
		"SQL built by string concatenation",
		"Panic on nil map write in cache",
		"Missing context timeout on HTTP client",
		"Global mutable provider registry",
		"Shadowed error variable inside loop",
		"Leaking file descriptors in tree walker",
		"Magic numbers define the retry budget",
		"Duplicated validation across handlers",
	}
	descs := []string{
		"The login handler compares tokens with == instead of a constant-time comparison.",
		"Every poll tick spawns a goroutine that is never joined, so memory grows without bound.",
		"User input is interpolated directly into the query string in the DAO layer.",
		"The cache map is written from multiple goroutines without synchronization.",
		"Outbound requests use http.DefaultClient, which has no timeout configured.",
		"Providers register themselves into a package-level map at init time.",
		"The err declared in the loop shadows the outer err, dropping the final error.",
		"Walk opens every file but only closes them on the success path.",
		"Retry count and backoff are hard-coded literals scattered across three call sites.",
		"The same URL validation block is copy-pasted into four different handlers.",
	}

	out := make([]Insight, n)
	for i := range out {
		out[i] = insight(titles[i%len(titles)], descs[i%len(descs)])
	}
	return out
}

func TestConsolidateSmallInputsUnchanged(t *testing.T) {
	for n := 0; n <= 5; n++ {
		in := distinct(n)
		got := Consolidate(in)
		assert.Equal(t, in, got, "inputs of length %d must be returned unchanged", n)
	}
}

func TestConsolidateMergesNearDuplicateTitles(t *testing.T) {
	in := append(distinct(5),
		insight("Missing null check", "short"),
		insight("Missing null-check", "a longer and more detailed description of the problem"),
	)

	got := Consolidate(in)

	require.Len(t, got, 6)

	// The near-duplicate pair collapses to its longest-description member.
	var merged *Insight
	for i := range got {
		if got[i].Title == "Missing null-check" || got[i].Title == "Missing null check" {
			require.Nil(t, merged, "only one representative expected")
			merged = &got[i]
		}
	}
	require.NotNil(t, merged)
	assert.Equal(t, "Missing null-check", merged.Title)
	assert.Equal(t, "a longer and more detailed description of the problem", merged.Description)
}

func TestConsolidateMergesBySimilarDescriptions(t *testing.T) {
	sharedPrefix := "The function readConfig in internal/config/loader.go ignores the error returned by os.Open and continues with a nil file handle"

	in := append(distinct(5),
		insight("Ignored error in loader", sharedPrefix),
		insight("Completely different headline", sharedPrefix+" which later causes a panic"),
	)

	got := Consolidate(in)
	assert.Len(t, got, 6)
}

func TestConsolidateNormalizesByRunes(t *testing.T) {
	t.Run("multibyte titles below the threshold stay separate", func(t *testing.T) {
		// 10 runes each (20 bytes), rune distance 3: similarity 0.7.
		// A byte-length normalizer would see 0.85 and merge them.
		in := append(distinct(5),
			insight("αβγδεζηθικ", "first greek finding, nothing shared"),
			insight("αβγδεζηλμν", "second unrelated body with other words"),
		)

		got := Consolidate(in)
		assert.Len(t, got, 7)
	})

	t.Run("multibyte titles above the threshold still merge", func(t *testing.T) {
		// rune distance 1 over 10 runes: similarity 0.9.
		in := append(distinct(5),
			insight("αβγδεζηθικ", "short"),
			insight("αβγδεζηθιλ", "the longer description survives the merge"),
		)

		got := Consolidate(in)
		require.Len(t, got, 6)
	})
}

func TestPrefixKeepsRuneBoundaries(t *testing.T) {
	s := strings.Repeat("a", 99) + "é-tail"

	got := prefix(s, 100)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 99)+"é", got)

	assert.Equal(t, s, prefix(s, 500))
	assert.Equal(t, "", prefix(s, 0))
}

func TestConsolidateAssignsIDs(t *testing.T) {
	got := Consolidate(distinct(8))

	require.Len(t, got, 8)
	for i, ins := range got {
		assert.Equal(t, fmt.Sprintf("insight-%d", i+1), ins.ID)
	}
}

func TestConsolidateIdempotent(t *testing.T) {
	in := append(distinct(7),
		insight("Missing null check", "short"),
		insight("Missing null-check", "much longer description here"),
	)

	once := Consolidate(in)
	twice := Consolidate(once)
	assert.Equal(t, once, twice)
}

func TestConsolidateDeterministic(t *testing.T) {
	in := append(distinct(6),
		insight("Race on counter", "increment without lock"),
		insight("Race on counter!", "increment happens outside the mutex, detailed"),
	)

	first := Consolidate(in)
	for range 10 {
		assert.Equal(t, first, Consolidate(in))
	}
}
