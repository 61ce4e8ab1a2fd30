package chunking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanSmallContent(t *testing.T) {
	t.Run("content under budget yields one chunk", func(t *testing.T) {
		chunks := Plan("hello world", 100)

		require.Len(t, chunks, 1)
		assert.Equal(t, 0, chunks[0].Index)
		assert.Equal(t, 0, chunks[0].Start)
		assert.Equal(t, 11, chunks[0].End)
		assert.Equal(t, "hello world", chunks[0].Content)
	})

	t.Run("content exactly at budget yields one chunk", func(t *testing.T) {
		content := strings.Repeat("a", 100)
		chunks := Plan(content, 100)

		require.Len(t, chunks, 1)
		assert.Equal(t, content, chunks[0].Content)
	})

	t.Run("empty content yields one empty chunk", func(t *testing.T) {
		chunks := Plan("", 100)

		require.Len(t, chunks, 1)
		assert.Equal(t, 0, chunks[0].End)
	})
}

func TestPlanSplitting(t *testing.T) {
	t.Run("250k bytes at 100k budget yields 3 chunks", func(t *testing.T) {
		content := strings.Repeat("x", 250_000)
		chunks := Plan(content, 100_000)

		require.Len(t, chunks, 3)
		assert.Equal(t, 100_000, len(chunks[0].Content))
		assert.Equal(t, 100_000, len(chunks[1].Content))
		assert.Equal(t, 50_000, len(chunks[2].Content))
	})

	t.Run("chunk count equals ceil of len over budget", func(t *testing.T) {
		tests := []struct {
			name       string
			contentLen int
			budget     int
			want       int
		}{
			{"even split", 300, 100, 3},
			{"remainder", 301, 100, 4},
			{"one byte over", 101, 100, 2},
			{"one byte under", 99, 100, 1},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				chunks := Plan(strings.Repeat("z", tt.contentLen), tt.budget)
				assert.Len(t, chunks, tt.want)
			})
		}
	})
}

func TestPlanCoverage(t *testing.T) {
	contents := []string{
		"",
		"short",
		strings.Repeat("line of text\n", 1000),
		strings.Repeat("\x00\xffbinary-ish", 777),
	}
	budgets := []int{1, 7, 64, 4096}

	for _, content := range contents {
		for _, budget := range budgets {
			chunks := Plan(content, budget)

			// Concatenation reproduces the content, gap-free and in order.
			var b strings.Builder
			prevEnd := 0
			for i, c := range chunks {
				require.Equal(t, i, c.Index)
				require.Equal(t, prevEnd, c.Start, "chunks must be gap-free")
				require.Equal(t, c.End-c.Start, len(c.Content))
				require.LessOrEqual(t, len(c.Content), max(budget, 1))
				b.WriteString(c.Content)
				prevEnd = c.End
			}
			require.Equal(t, content, b.String())
			require.Equal(t, len(content), prevEnd)
		}
	}
}
