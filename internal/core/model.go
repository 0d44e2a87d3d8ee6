package core

import (
	"time"
)

// ContentMode classifies what kind of content is being analyzed. The mode is
// decided once per input, before scoring, and selects which rule tables and
// score weighting apply.
type ContentMode string

const (
	ModeText  ContentMode = "text"
	ModePhone ContentMode = "phone"
)

// Verdict is one of three mutually exclusive trust bands derived from the
// final score. The string values are part of the JSON API contract.
type Verdict string

const (
	VerdictHighlySuspicious   Verdict = "HIGHLY SUSPICIOUS"
	VerdictProceedWithCaution Verdict = "PROCEED WITH CAUTION"
	VerdictLikelyLegitimate   Verdict = "LIKELY LEGITIMATE"
)

// IsValid reports whether v is one of the three allowed verdict bands.
func (v Verdict) IsValid() bool {
	switch v {
	case VerdictHighlySuspicious, VerdictProceedWithCaution, VerdictLikelyLegitimate:
		return true
	}
	return false
}

// Provider identifiers recorded in AnalysisResult provenance.
const (
	ProviderLocalHeuristic = "local-heuristic"
	ProviderGemini         = "gemini-api"
	ProviderOpenAI         = "openai-api"
	ProviderBedrock        = "bedrock-api"

	// ModelLocalFallback marks a result that degraded to the local path
	// after an AI call or validation failure.
	ModelLocalFallback = "ai-fallback"
)

// AnalysisResult is the canonical result schema produced by both the local
// heuristic path and the AI path. All numeric fields are clamped to [0,100];
// higher score means more trustworthy.
type AnalysisResult struct {
	Score            int         `json:"score"`
	Verdict          Verdict     `json:"verdict"`
	Analysis         string      `json:"analysis"`
	CredibilityScore int         `json:"credibilityScore"`
	SuspiciousScore  int         `json:"suspiciousScore"`
	EmotionalScore   int         `json:"emotionalScore"`
	StructureScore   int         `json:"structureScore"`
	SourceScore      int         `json:"sourceScore"`
	Indicators       []string    `json:"indicators"`
	Recommendations  []string    `json:"recommendations"`
	ContentType      ContentMode `json:"contentType"`
	AIProvider       string      `json:"aiProvider"`
	AIModel          string      `json:"aiModel"`

	// Metadata appended by the service layer after analysis.
	Timestamp    time.Time `json:"timestamp,omitempty"`
	TextLength   int       `json:"textLength,omitempty"`
	ProcessingID string    `json:"processingId,omitempty"`
}

// Subscriber is a newsletter subscriber who receives fraud alerts.
type Subscriber struct {
	Email          string    `json:"email"`
	SubscribedAt   time.Time `json:"subscribedAt"`
	Active         bool      `json:"active"`
	AlertsReceived int       `json:"alertsReceived"`
}

// AlertState records the last fraud alert sent, used for cooldown and
// duplicate suppression by the alerting service.
type AlertState struct {
	LastAlertAt        time.Time `json:"lastFraudAlertAt"`
	LastAlertSignature string    `json:"lastFraudAlertSignature"`
}

// CacheEntry is a cached analysis result keyed by content signature.
type CacheEntry struct {
	Signature  string
	Score      int
	Verdict    Verdict
	Mode       ContentMode
	ResultJSON string
	LastSeen   time.Time
	ExpiresAt  time.Time
}
