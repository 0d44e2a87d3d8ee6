package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/verifyit/verifyit/internal/core"
)

// Merge weighting constants. The external result is favored for most fields;
// structure and source lean slightly more local since the heuristics measure
// them directly. Empirically tuned, preserved as-is.
const (
	mergeLocalWeight    = 0.30
	mergeExternalWeight = 0.70

	mergeScoreLocalWeight    = 0.35
	mergeScoreExternalWeight = 0.65

	mergeShapeLocalWeight    = 0.40
	mergeShapeExternalWeight = 0.60

	// Trustworthiness composite over merged credibility/source/structure.
	compositeCredWeight   = 0.70
	compositeSourceWeight = 0.20
	compositeStructWeight = 0.10

	// Final blend of the raw weighted score average with the composite.
	blendAverageWeight   = 0.40
	blendCompositeWeight = 0.60

	scamCapScore      = 30
	legitimacyFloor   = 70
	minAnalysisLength = 20
)

// IsUsable is the validation gate for an external result before merging: it
// needs an allowed verdict, at least one indicator, and an analysis string
// that is real prose rather than leaked raw JSON.
func IsUsable(external *core.AnalysisResult) bool {
	if external == nil {
		return false
	}
	if !external.Verdict.IsValid() {
		return false
	}
	if len(external.Indicators) == 0 {
		return false
	}
	analysis := strings.TrimSpace(external.Analysis)
	if len(analysis) < minAnalysisLength {
		return false
	}
	if strings.HasPrefix(analysis, "{") && strings.Contains(analysis, `"score"`) {
		return false
	}
	return true
}

// Merge reconciles a local heuristic result with a validated external result
// into one final result. Sub-scores are weighted averages favoring the
// external side; the merged score blends that average with a trustworthiness
// composite, then two sanity overrides keep either side from being fooled:
// a local scam signal caps an optimistic external score, and an unambiguous
// local legitimacy signal floors a pessimistic one.
func Merge(local, external *core.AnalysisResult, provider, model string) *core.AnalysisResult {
	cred := blend(local.CredibilityScore, external.CredibilityScore, mergeLocalWeight, mergeExternalWeight)
	susp := blend(local.SuspiciousScore, external.SuspiciousScore, mergeLocalWeight, mergeExternalWeight)
	emot := blend(local.EmotionalScore, external.EmotionalScore, mergeLocalWeight, mergeExternalWeight)
	structure := blend(local.StructureScore, external.StructureScore, mergeShapeLocalWeight, mergeShapeExternalWeight)
	source := blend(local.SourceScore, external.SourceScore, mergeShapeLocalWeight, mergeShapeExternalWeight)

	weightedAvg := float64(local.Score)*mergeScoreLocalWeight + float64(external.Score)*mergeScoreExternalWeight
	composite := float64(cred)*compositeCredWeight + float64(source)*compositeSourceWeight + float64(structure)*compositeStructWeight
	score := clamp(int(math.Round(weightedAvg*blendAverageWeight + composite*blendCompositeWeight)))

	localLooksScam := local.Score <= 25 ||
		local.Verdict == core.VerdictHighlySuspicious ||
		local.SuspiciousScore >= 75
	if localLooksScam && external.Score >= 75 && score > scamCapScore {
		score = scamCapScore
	}

	localLooksLegit := local.Score >= 80 ||
		local.Verdict == core.VerdictLikelyLegitimate ||
		local.CredibilityScore >= 75
	if localLooksLegit && external.Score <= 25 && score < legitimacyFloor {
		score = legitimacyFloor
	}

	verdict := ClassifyScore(score)
	mode := local.ContentType

	return &core.AnalysisResult{
		Score:            score,
		Verdict:          verdict,
		Analysis:         external.Analysis,
		CredibilityScore: cred,
		SuspiciousScore:  susp,
		EmotionalScore:   emot,
		StructureScore:   structure,
		SourceScore:      source,
		Indicators:       capIndicators(external.Indicators),
		Recommendations:  Recommendations(verdict, mode),
		ContentType:      mode,
		AIProvider:       fmt.Sprintf("%s+%s", provider, core.ProviderLocalHeuristic),
		AIModel:          model,
	}
}

func blend(local, external int, lw, ew float64) int {
	return clamp(int(math.Round(float64(local)*lw + float64(external)*ew)))
}
