package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponseJSON(t *testing.T) {
	t.Run("plain JSON array", func(t *testing.T) {
		raw := `[
			{"title": "SQL injection", "description": "Query built by concatenation", "severity": "high", "category": "security"},
			{"title": "Unused variable", "description": "x is never read", "severity": "low", "category": "code_quality"}
		]`

		got, err := ParseResponse(raw)
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, "SQL injection", got[0].Title)
		assert.Equal(t, SeverityHigh, got[0].Severity)
		assert.Equal(t, CategorySecurity, got[0].Category)
	})

	t.Run("JSON wrapped in markdown fences", func(t *testing.T) {
		raw := "Here are the findings:\n```json\n" +
			`[{"title": "Leaky abstraction", "description": "d", "severity": "medium", "category": "architecture"}]` +
			"\n```\nLet me know if you need more."

		got, err := ParseResponse(raw)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Leaky abstraction", got[0].Title)
	})

	t.Run("unknown severity and category normalized", func(t *testing.T) {
		raw := `[{"title": "t", "description": "d", "severity": "CRITICAL", "category": "styling"}]`

		got, err := ParseResponse(raw)
		require.NoError(t, err)
		assert.Equal(t, SeverityMedium, got[0].Severity)
		assert.Equal(t, CategoryCodeQuality, got[0].Category)
	})

	t.Run("entries without titles dropped", func(t *testing.T) {
		raw := `[{"title": "", "description": "d"}, {"title": "kept", "description": "d"}]`

		got, err := ParseResponse(raw)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "kept", got[0].Title)
	})
}

func TestParseResponseLabeledFallback(t *testing.T) {
	t.Run("labeled lines extracted", func(t *testing.T) {
		raw := `I found these issues:

title: Missing error check
description: The return value of Close is ignored
severity: medium
category: bug

title: Hard-coded credentials
description: API key committed in config
severity: high
category: security`

		got, err := ParseResponse(raw)
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, "Missing error check", got[0].Title)
		assert.Equal(t, CategoryBug, got[0].Category)
		assert.Equal(t, "Hard-coded credentials", got[1].Title)
		assert.Equal(t, SeverityHigh, got[1].Severity)
	})

	t.Run("bulleted labels", func(t *testing.T) {
		raw := "- title: Slow loop\n- description: O(n^2) scan\n- severity: low\n- category: performance"

		got, err := ParseResponse(raw)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Slow loop", got[0].Title)
		assert.Equal(t, CategoryPerformance, got[0].Category)
	})

	t.Run("labels without a title produce nothing", func(t *testing.T) {
		_, err := ParseResponse("description: orphaned\nseverity: low")
		require.ErrorIs(t, err, ErrUnparsable)
	})
}

func TestParseResponseUnparsable(t *testing.T) {
	_, err := ParseResponse("The repository looks fine to me overall.")
	require.ErrorIs(t, err, ErrUnparsable)
}

func TestDiagnostic(t *testing.T) {
	ins := Diagnostic(2, ErrUnparsable)

	assert.Contains(t, ins.Title, "chunk 3")
	assert.Equal(t, SeverityLow, ins.Severity)
	assert.Equal(t, CategoryCodeQuality, ins.Category)
}
