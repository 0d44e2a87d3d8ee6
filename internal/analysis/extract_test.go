package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractResultDirectJSON(t *testing.T) {
	raw, err := ExtractResult(`{"score": 82, "verdict": "LIKELY LEGITIMATE", "analysis": "Reads like routine news coverage."}`)
	require.NoError(t, err)

	require.NotNil(t, raw.Score)
	assert.Equal(t, 82.0, *raw.Score)
	assert.Equal(t, "LIKELY LEGITIMATE", raw.Verdict)
	assert.Equal(t, "Reads like routine news coverage.", raw.Analysis)
}

func TestExtractResultFencedBlock(t *testing.T) {
	response := "Here is my assessment:\n```json\n{\"score\": 12, \"verdict\": \"HIGHLY SUSPICIOUS\", \"analysis\": \"Classic advance-fee scam language.\"}\n```\nLet me know if you need more detail."

	raw, err := ExtractResult(response)
	require.NoError(t, err)

	require.NotNil(t, raw.Score)
	assert.Equal(t, 12.0, *raw.Score)
	assert.Equal(t, "HIGHLY SUSPICIOUS", raw.Verdict)
}

func TestExtractResultBraceSlice(t *testing.T) {
	response := `Based on my review, {"score": 55, "verdict": "PROCEED WITH CAUTION", "analysis": "Mixed signals in the text."} is my conclusion.`

	raw, err := ExtractResult(response)
	require.NoError(t, err)

	require.NotNil(t, raw.Score)
	assert.Equal(t, 55.0, *raw.Score)
}

func TestExtractResultScoreMention(t *testing.T) {
	raw, err := ExtractResult("I would rate this with a score: 25 because the claims are suspicious and unsupported.")
	require.NoError(t, err)

	require.NotNil(t, raw.Score)
	assert.Equal(t, 25.0, *raw.Score)
	assert.Equal(t, "HIGHLY SUSPICIOUS", raw.Verdict)
	assert.NotEmpty(t, raw.Analysis)
}

func TestExtractResultNoStructure(t *testing.T) {
	_, err := ExtractResult("The weather today is pleasant and mild.")
	assert.ErrorIs(t, err, ErrNoStructuredResult)
}

func TestExtractResultIgnoresUnrelatedJSON(t *testing.T) {
	_, err := ExtractResult(`{"temperature": 21, "unit": "celsius"}`)
	assert.ErrorIs(t, err, ErrNoStructuredResult)
}

func TestExtractKeyFindings(t *testing.T) {
	findings := ExtractKeyFindings("The text uses emotional manipulation and misleading framing, with several unverified claims.")

	assert.Contains(t, findings, "⚠ Emotional manipulation detected")
	assert.Contains(t, findings, "⚠ Potential bias or misleading content")
	assert.Contains(t, findings, "⚠ Unverified claims present")
	assert.LessOrEqual(t, len(findings), maxIndicators)
}

func TestExtractKeyFindingsFallback(t *testing.T) {
	findings := ExtractKeyFindings("Nothing notable here.")
	assert.Equal(t, []string{"ℹ Analysis completed - review full report"}, findings)
}
