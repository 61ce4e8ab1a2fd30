// Package chunking partitions concatenated repository content into ordered,
// non-overlapping chunks bounded by a byte budget.
package chunking

// Chunk is a contiguous slice of the planned content. Chunks for one plan
// are gap-free, non-overlapping, and cover [0, len(content)) exactly once.
type Chunk struct {
	Index   int
	Start   int
	End     int
	Content string
}

// DefaultBudget is the fallback per-chunk byte budget.
const DefaultBudget = 80_000

// Plan splits content into chunks of at most budget bytes each. Content
// that fits the budget yields a single chunk. Boundaries are exact byte
// offsets; the final chunk takes the remainder and may be shorter.
func Plan(content string, budget int) []Chunk {
	if budget <= 0 {
		budget = DefaultBudget
	}

	if len(content) <= budget {
		return []Chunk{{
			Index:   0,
			Start:   0,
			End:     len(content),
			Content: content,
		}}
	}

	chunks := make([]Chunk, 0, (len(content)+budget-1)/budget)
	for start := 0; start < len(content); start += budget {
		end := min(start+budget, len(content))
		chunks = append(chunks, Chunk{
			Index:   len(chunks),
			Start:   start,
			End:     end,
			Content: content[start:end],
		})
	}
	return chunks
}
