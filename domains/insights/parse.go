package insights

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnparsable means neither strict JSON decoding nor the labeled-line
// fallback could extract any finding from the model response.
var ErrUnparsable = errors.New("model response could not be parsed")

type rawInsight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Category    string `json:"category"`
}

// ParseResponse extracts insights from raw model output. It tries, in
// order: strict JSON array decoding, decoding after stripping markdown
// fences and surrounding prose, then a labeled-line extraction. The caller
// decides what to do when all three fail.
func ParseResponse(raw string) ([]Insight, error) {
	if parsed, err := parseJSON(raw); err == nil {
		return parsed, nil
	}

	if stripped := extractJSONArray(raw); stripped != "" {
		if parsed, err := parseJSON(stripped); err == nil {
			return parsed, nil
		}
	}

	if parsed := parseLabeledLines(raw); len(parsed) > 0 {
		return parsed, nil
	}

	return nil, ErrUnparsable
}

func parseJSON(raw string) ([]Insight, error) {
	var decoded []rawInsight
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &decoded); err != nil {
		return nil, err
	}

	var out []Insight
	for _, ri := range decoded {
		if strings.TrimSpace(ri.Title) == "" {
			continue
		}
		out = append(out, Insight{
			Title:       strings.TrimSpace(ri.Title),
			Description: strings.TrimSpace(ri.Description),
			Severity:    NormalizeSeverity(ri.Severity),
			Category:    NormalizeCategory(ri.Category),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("decoded JSON held no usable insights")
	}
	return out, nil
}

// extractJSONArray pulls the outermost array out of a response that wraps
// JSON in markdown fences or surrounding prose.
func extractJSONArray(raw string) string {
	raw = strings.ReplaceAll(raw, "```json", "")
	raw = strings.ReplaceAll(raw, "```", "")

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

var labelRe = regexp.MustCompile(`(?i)^\s*(?:[-*]\s*)?(?:"?)(title|description|severity|category)(?:"?)\s*[:=]\s*(.*?)[,"]*\s*$`)

// parseLabeledLines is the degraded extraction path: it scans for
// "title:", "description:", "severity:" and "category:" labeled lines,
// starting a new insight on each title.
func parseLabeledLines(raw string) []Insight {
	var out []Insight
	var cur *Insight

	flush := func() {
		if cur != nil && cur.Title != "" {
			out = append(out, *cur)
		}
		cur = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		m := labelRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		label := strings.ToLower(m[1])
		value := strings.Trim(strings.TrimSpace(m[2]), `"`)

		if label == "title" {
			flush()
			cur = &Insight{
				Title:    value,
				Severity: SeverityMedium,
				Category: CategoryCodeQuality,
			}
			continue
		}
		if cur == nil {
			continue
		}
		switch label {
		case "description":
			cur.Description = value
		case "severity":
			cur.Severity = NormalizeSeverity(value)
		case "category":
			cur.Category = NormalizeCategory(value)
		}
	}
	flush()

	return out
}

// Diagnostic builds the single insight recorded when a chunk's response
// defeated every parsing strategy, preserving visible progress instead of
// failing the job.
func Diagnostic(chunkIndex int, cause error) Insight {
	return Insight{
		Title:       fmt.Sprintf("Analysis output could not be parsed for chunk %d", chunkIndex+1),
		Description: fmt.Sprintf("The model response for chunk %d was not machine-parseable and the fallback extraction found no findings: %v", chunkIndex+1, cause),
		Severity:    SeverityLow,
		Category:    CategoryCodeQuality,
	}
}
