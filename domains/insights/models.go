// Package insights defines the analysis finding model, parses model output
// into findings, and consolidates near-duplicate findings across chunks.
package insights

import "strings"

// Severity grades the impact of a finding.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Category classifies what kind of finding this is.
type Category string

const (
	CategoryBug          Category = "bug"
	CategorySecurity     Category = "security"
	CategoryPerformance  Category = "performance"
	CategoryArchitecture Category = "architecture"
	CategoryBestPractice Category = "best_practice"
	CategoryCodeQuality  Category = "code_quality"
)

// Insight is one finding produced by analyzing a chunk of repository
// content. ID is synthetic and assigned at consolidation time.
type Insight struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
}

// NormalizeSeverity maps arbitrary model output onto a known severity,
// defaulting to medium.
func NormalizeSeverity(raw string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(raw))) {
	case SeverityLow:
		return SeverityLow
	case SeverityHigh:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// NormalizeCategory maps arbitrary model output onto a known category,
// defaulting to code_quality.
func NormalizeCategory(raw string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(strings.ReplaceAll(raw, "-", "_"))))
	switch c {
	case CategoryBug, CategorySecurity, CategoryPerformance,
		CategoryArchitecture, CategoryBestPractice, CategoryCodeQuality:
		return c
	default:
		return CategoryCodeQuality
	}
}
