package analysis

import (
	"math"
	"strings"

	"github.com/verifyit/verifyit/internal/core"
)

// Normalize coerces a partially populated external result into the canonical
// schema. Missing or non-finite numbers fall back to derived defaults, the
// verdict is validated or re-derived, a scoring-direction mismatch is
// repaired, and recommendations are always regenerated locally.
func Normalize(raw *RawResult, fallbackMode core.ContentMode, provider, model string) *core.AnalysisResult {
	if raw == nil {
		raw = &RawResult{}
	}

	mode := parseMode(raw.ContentType, fallbackMode)

	score := coerceScore(raw.Score, 50)
	suspicious := coerceScore(raw.SuspiciousScore, 100-score)
	credibility := coerceScore(raw.CredibilityScore, score)
	emotional := coerceScore(raw.EmotionalScore, suspicious)
	structure := coerceScore(raw.StructureScore, 55)
	source := coerceScore(raw.SourceScore, 50)

	verdict := core.Verdict(strings.TrimSpace(raw.Verdict))
	if !verdict.IsValid() {
		verdict = ClassifyScore(score)
	}

	// Some sources report a risk score where a trust score is expected. A
	// verdict that contradicts its own score is the tell; invert to repair.
	if verdict == core.VerdictHighlySuspicious && score > 65 {
		score = 100 - score
	} else if verdict == core.VerdictLikelyLegitimate && score < 35 {
		score = 100 - score
	}

	indicators := raw.Indicators
	if len(indicators) == 0 {
		indicators = ExtractKeyFindings(raw.Analysis)
	}

	return &core.AnalysisResult{
		Score:            score,
		Verdict:          verdict,
		Analysis:         raw.Analysis,
		CredibilityScore: credibility,
		SuspiciousScore:  suspicious,
		EmotionalScore:   emotional,
		StructureScore:   structure,
		SourceScore:      source,
		Indicators:       capIndicators(indicators),
		Recommendations:  Recommendations(verdict, mode),
		ContentType:      mode,
		AIProvider:       provider,
		AIModel:          model,
	}
}

func parseMode(contentType string, fallback core.ContentMode) core.ContentMode {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case string(core.ModePhone):
		return core.ModePhone
	case string(core.ModeText):
		return core.ModeText
	default:
		return fallback
	}
}

func coerceScore(v *float64, fallback int) int {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return clamp(fallback)
	}
	return clamp(int(math.Round(*v)))
}

// RawFromResult converts a canonical result back into the partial form, so a
// result can be re-normalized. Normalization is idempotent over this path.
func RawFromResult(r *core.AnalysisResult) *RawResult {
	f := func(v int) *float64 {
		fv := float64(v)
		return &fv
	}
	return &RawResult{
		Score:            f(r.Score),
		Verdict:          string(r.Verdict),
		Analysis:         r.Analysis,
		CredibilityScore: f(r.CredibilityScore),
		SuspiciousScore:  f(r.SuspiciousScore),
		EmotionalScore:   f(r.EmotionalScore),
		StructureScore:   f(r.StructureScore),
		SourceScore:      f(r.SourceScore),
		Indicators:       r.Indicators,
		ContentType:      string(r.ContentType),
	}
}
