package analysis

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// RawResult is a partially populated result as recovered from an external
// source. Pointer fields distinguish "absent" from a literal zero so the
// normalizer can apply its documented defaults.
type RawResult struct {
	Score            *float64 `json:"score"`
	Verdict          string   `json:"verdict"`
	Analysis         string   `json:"analysis"`
	CredibilityScore *float64 `json:"credibilityScore"`
	SuspiciousScore  *float64 `json:"suspiciousScore"`
	EmotionalScore   *float64 `json:"emotionalScore"`
	StructureScore   *float64 `json:"structureScore"`
	SourceScore      *float64 `json:"sourceScore"`
	Indicators       []string `json:"indicators"`
	ContentType      string   `json:"contentType"`
}

// ErrNoStructuredResult is returned when no extraction strategy recovers a
// usable result from the response text.
var ErrNoStructuredResult = errors.New("no structured result found in response")

var (
	fencedBlock  = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	scoreMention = regexp.MustCompile(`(?i)(?:score|rating)\s*[:=]?\s*(\d{1,3})`)
)

// extractStrategy attempts one way of recovering a RawResult from free-form
// model output. Strategies run in order until one succeeds.
type extractStrategy func(text string) (*RawResult, bool)

var extractStrategies = []extractStrategy{
	extractDirect,
	extractFenced,
	extractBraceSlice,
	extractScoreMention,
}

// ExtractResult recovers a RawResult from free-form external text. The JSON
// payload may be wrapped in commentary or fenced code blocks, or be absent
// entirely, in which case a last-resort regex pass looks for a score mention.
func ExtractResult(text string) (*RawResult, error) {
	for _, strategy := range extractStrategies {
		if raw, ok := strategy(text); ok {
			return raw, nil
		}
	}
	return nil, ErrNoStructuredResult
}

func extractDirect(text string) (*RawResult, bool) {
	return parseCandidate(strings.TrimSpace(text))
}

func extractFenced(text string) (*RawResult, bool) {
	for _, m := range fencedBlock.FindAllStringSubmatch(text, -1) {
		if raw, ok := parseCandidate(strings.TrimSpace(m[1])); ok {
			return raw, true
		}
	}
	return nil, false
}

func extractBraceSlice(text string) (*RawResult, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	return parseCandidate(text[start : end+1])
}

// extractScoreMention is the last resort: pull a numeric score mention out of
// prose and infer the verdict from keywords, keeping the prose as analysis.
func extractScoreMention(text string) (*RawResult, bool) {
	raw := &RawResult{Analysis: strings.TrimSpace(text)}

	if m := scoreMention.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			raw.Score = &v
		}
	}

	lowered := strings.ToLower(text)
	switch {
	case strings.Contains(lowered, "suspicious") || strings.Contains(lowered, "misleading"):
		raw.Verdict = "HIGHLY SUSPICIOUS"
	case strings.Contains(lowered, "legitimate") || strings.Contains(lowered, "credible"):
		raw.Verdict = "LIKELY LEGITIMATE"
	}

	if raw.Score == nil && raw.Verdict == "" {
		return nil, false
	}
	return raw, true
}

func parseCandidate(candidate string) (*RawResult, bool) {
	if !strings.HasPrefix(candidate, "{") {
		return nil, false
	}
	var raw RawResult
	if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
		return nil, false
	}
	// An object with none of the expected keys is not a result.
	if raw.Score == nil && raw.Verdict == "" && raw.Analysis == "" {
		return nil, false
	}
	return &raw, true
}

// ExtractKeyFindings derives indicator labels from free-form analysis prose.
// Used when an external result carries no indicator list of its own.
func ExtractKeyFindings(text string) []string {
	lowered := strings.ToLower(text)
	var findings []string

	if strings.Contains(lowered, "credible") || strings.Contains(lowered, "reliable") {
		findings = append(findings, "✓ Shows credible source patterns")
	}
	if strings.Contains(lowered, "fact") || strings.Contains(lowered, "evidence") {
		findings = append(findings, "✓ Contains verifiable claims")
	}
	if strings.Contains(lowered, "emotional") || strings.Contains(lowered, "manipul") {
		findings = append(findings, "⚠ Emotional manipulation detected")
	}
	if strings.Contains(lowered, "misleading") || strings.Contains(lowered, "bias") {
		findings = append(findings, "⚠ Potential bias or misleading content")
	}
	if strings.Contains(lowered, "unverified") || strings.Contains(lowered, "unsupported") {
		findings = append(findings, "⚠ Unverified claims present")
	}

	if len(findings) == 0 {
		findings = append(findings, "ℹ Analysis completed - review full report")
	}
	return capIndicators(findings)
}
