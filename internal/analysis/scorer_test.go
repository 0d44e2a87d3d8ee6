package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verifyit/verifyit/internal/core"
)

const (
	scamPitch = "URGENT! Limited time offer! Click now to get free money and guaranteed returns."

	smsScam = "URGENT: Your SIM will be blocked within 24 hours. Share OTP to verify now bit.ly/kyc-update"

	researchPassage = "According to a study found in the Journal of Sleep Research, published in 2023, university researchers examined sleep patterns across 1,200 adults. The methodology involved a sample size large enough to draw robust conclusions. However, the authors caution that further replication is needed. Source: https://www.example.org/sleep-study"
)

func TestAnalyzeScamPitch(t *testing.T) {
	result := Analyze(scamPitch)
	require.NotNil(t, result)

	assert.Equal(t, core.ModeText, result.ContentType)
	assert.LessOrEqual(t, result.Score, 15, "override cascade should cap textbook scam templates")
	assert.Equal(t, core.VerdictHighlySuspicious, result.Verdict)
	assert.NotEmpty(t, result.Indicators)
	assert.NotEmpty(t, result.Recommendations)
	assert.NotEmpty(t, result.Analysis)
	assert.Equal(t, core.ProviderLocalHeuristic, result.AIProvider)
}

func TestAnalyzeSMSScam(t *testing.T) {
	result := Analyze(smsScam)
	require.NotNil(t, result)

	assert.Equal(t, core.ModePhone, result.ContentType)
	assert.LessOrEqual(t, result.Score, 15)
	assert.Equal(t, core.VerdictHighlySuspicious, result.Verdict)
	assert.Greater(t, result.SuspiciousScore, 50)
}

func TestAnalyzeResearchPassage(t *testing.T) {
	result := Analyze(researchPassage)
	require.NotNil(t, result)

	assert.Equal(t, core.ModeText, result.ContentType)
	assert.Greater(t, result.CredibilityScore, 50)
	assert.NotEqual(t, core.VerdictHighlySuspicious, result.Verdict)
	assert.Greater(t, result.Score, 35)
}

func TestAnalyzeLegitimateSMS(t *testing.T) {
	result := Analyze("Your OTP for login is 482913. It expires in 10 minutes. Do not share it with anyone.")
	require.NotNil(t, result)

	assert.Equal(t, core.ModePhone, result.ContentType)
	assert.NotEqual(t, core.VerdictHighlySuspicious, result.Verdict)
}

func TestAnalyzeScoresInRange(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"!",
		"a",
		scamPitch,
		smsScam,
		researchPassage,
		strings.Repeat("URGENT! FREE MONEY! GUARANTEED! ", 100),
		strings.Repeat("lorem ipsum dolor sit amet ", 200),
		"+1 (555) 019-2817",
		"🎉🎉🎉 you have won a prize 🎉🎉🎉",
	}

	for _, input := range inputs {
		result := Analyze(input)
		require.NotNil(t, result)

		for name, v := range map[string]int{
			"score":       result.Score,
			"credibility": result.CredibilityScore,
			"suspicious":  result.SuspiciousScore,
			"emotional":   result.EmotionalScore,
			"structure":   result.StructureScore,
			"source":      result.SourceScore,
		} {
			assert.GreaterOrEqual(t, v, 0, "%s below range for %q", name, input)
			assert.LessOrEqual(t, v, 100, "%s above range for %q", name, input)
		}

		assert.Equal(t, ClassifyScore(result.Score), result.Verdict, "verdict inconsistent for %q", input)
		assert.LessOrEqual(t, len(result.Indicators), maxIndicators)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	first := Analyze(scamPitch)
	for i := 0; i < 5; i++ {
		next := Analyze(scamPitch)
		assert.Equal(t, first.Score, next.Score)
		assert.Equal(t, first.Verdict, next.Verdict)
		assert.Equal(t, first.Analysis, next.Analysis)
		assert.Equal(t, first.Indicators, next.Indicators)
	}
}

func TestClassifyScore(t *testing.T) {
	tests := []struct {
		score    int
		expected core.Verdict
	}{
		{0, core.VerdictHighlySuspicious},
		{34, core.VerdictHighlySuspicious},
		{35, core.VerdictProceedWithCaution},
		{50, core.VerdictProceedWithCaution},
		{70, core.VerdictProceedWithCaution},
		{71, core.VerdictLikelyLegitimate},
		{100, core.VerdictLikelyLegitimate},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, ClassifyScore(tc.score), "score %d", tc.score)
	}
}

func TestScoreTableCapsRepeatedMatches(t *testing.T) {
	once := ScoreTable(textSuspiciousTable, "urgent")
	twice := ScoreTable(textSuspiciousTable, "urgent urgent")
	many := ScoreTable(textSuspiciousTable, strings.Repeat("urgent ", 50))

	assert.Equal(t, 2*once, twice)
	assert.Equal(t, twice, many, "a single repeated token must not dominate")
}

func TestApplyOverridesMonotonic(t *testing.T) {
	doc := newDocument(scamPitch, core.ModeText)
	for _, start := range []int{0, 10, 15, 40, 90, 100} {
		out := applyOverrides(doc, start)
		assert.LessOrEqual(t, out, start, "override raised the score")
	}
}

func TestApplyOverrideRecoversFromPanic(t *testing.T) {
	doc := newDocument("anything", core.ModeText)
	r := overrideRule{
		Name:      "panicking rule",
		Predicate: func(*document) bool { panic("boom") },
		Cap:       0,
	}
	assert.Equal(t, 80, applyOverride(doc, r, 80))
}
