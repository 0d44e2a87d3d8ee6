package analysis

import (
	"github.com/verifyit/verifyit/internal/core"
)

// ClassifyScore maps a final score to its verdict band. Boundary values 35
// and 70 both fall in the middle band.
func ClassifyScore(score int) core.Verdict {
	switch {
	case score < 35:
		return core.VerdictHighlySuspicious
	case score > 70:
		return core.VerdictLikelyLegitimate
	default:
		return core.VerdictProceedWithCaution
	}
}
