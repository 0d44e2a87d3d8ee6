package analysis

import (
	"math"
	"regexp"
	"strings"

	"github.com/verifyit/verifyit/internal/core"
)

// document holds the per-analysis view of one input. Evaluators read from it
// but never mutate it, keeping analyses independent under concurrency.
type document struct {
	raw       string
	lowered   string
	words     []string
	sentences []string
	mode      core.ContentMode
}

func newDocument(text string, mode core.ContentMode) *document {
	var sentences []string
	for _, s := range regexp.MustCompile(`[.!?]+`).Split(text, -1) {
		if len(strings.TrimSpace(s)) > 10 {
			sentences = append(sentences, s)
		}
	}
	return &document{
		raw:       text,
		lowered:   strings.ToLower(text),
		words:     wordPattern.FindAllString(strings.ToLower(text), -1),
		sentences: sentences,
		mode:      mode,
	}
}

func (d *document) exclamations() int {
	return strings.Count(d.raw, "!")
}

func (d *document) capsRatio() float64 {
	if len(d.raw) == 0 {
		return 0
	}
	return float64(len(capitalPattern.FindAllString(d.raw, -1))) / float64(len(d.raw))
}

// SubScores are the five independent 0-100 ratings computed per analysis.
type SubScores struct {
	Credibility int
	Suspicious  int
	Emotional   int
	Structure   int
	Source      int
}

// Final-score weightings. Mode-specific design constants tuned empirically;
// phone mode leans harder on suspicion since SMS scams carry few credibility
// signals either way.
var finalWeights = map[core.ContentMode]struct {
	credibility, suspicious, emotional, structure, source float64
}{
	core.ModeText:  {0.40, 0.28, 0.15, 0.10, 0.07},
	core.ModePhone: {0.34, 0.36, 0.14, 0.08, 0.08},
}

// Analyze runs the full local heuristic pipeline: mode detection, the five
// sub-score evaluators, weighted combination, the override cascade and the
// verdict classifier. It is total over string inputs.
func Analyze(text string) *core.AnalysisResult {
	mode := DetectMode(text)
	doc := newDocument(text, mode)

	subs := computeSubScores(doc)
	score := combineScores(subs, mode)
	score = applyOverrides(doc, score)

	verdict := ClassifyScore(score)

	return &core.AnalysisResult{
		Score:            clamp(score),
		Verdict:          verdict,
		Analysis:         narrative(doc, score, verdict),
		CredibilityScore: subs.Credibility,
		SuspiciousScore:  subs.Suspicious,
		EmotionalScore:   subs.Emotional,
		StructureScore:   subs.Structure,
		SourceScore:      subs.Source,
		Indicators:       indicators(doc, subs),
		Recommendations:  Recommendations(verdict, mode),
		ContentType:      mode,
		AIProvider:       core.ProviderLocalHeuristic,
		AIModel:          "pattern-engine-v3",
	}
}

func computeSubScores(doc *document) SubScores {
	if doc.mode == core.ModePhone {
		return SubScores{
			Credibility: phoneCredibility(doc),
			Suspicious:  phoneSuspicion(doc),
			Emotional:   ScoreTable(phoneEmotionalTable, doc.lowered),
			Structure:   phoneStructure(doc),
			Source:      phoneSource(doc),
		}
	}
	return SubScores{
		Credibility: textCredibility(doc),
		Suspicious:  textSuspicion(doc),
		Emotional:   ScoreTable(textEmotionalTable, doc.lowered),
		Structure:   textStructure(doc),
		Source:      textSource(doc),
	}
}

func combineScores(s SubScores, mode core.ContentMode) int {
	w, ok := finalWeights[mode]
	if !ok {
		w = finalWeights[core.ModeText]
	}
	combined := float64(s.Credibility)*w.credibility +
		float64(100-s.Suspicious)*w.suspicious +
		float64(100-s.Emotional)*w.emotional +
		float64(s.Structure)*w.structure +
		float64(s.Source)*w.source
	return clamp(int(math.Round(combined)))
}

// Text-mode evaluators.

func textSuspicion(doc *document) int {
	total := ScoreTable(textSuspiciousTable, doc.lowered)

	if doc.capsRatio() > 0.10 {
		total += 15
	}
	excl := doc.exclamations()
	if excl >= 2 {
		total += 12
	}
	if excl > 5 {
		total += 10
	}
	return clamp(total)
}

func textCredibility(doc *document) int {
	total := ScoreTable(textCredibilityTable, doc.lowered)

	if len(doc.sentences) > 0 {
		avg := float64(len(doc.words)) / float64(len(doc.sentences))
		if avg >= 12 && avg <= 25 {
			total += 10
		}
	}
	if len(doc.words) > 0 {
		unique := make(map[string]struct{}, len(doc.words))
		for _, w := range doc.words {
			unique[w] = struct{}{}
		}
		if float64(len(unique))/float64(len(doc.words)) > 0.6 {
			total += 8
		}
	}
	return clamp(total)
}

func textStructure(doc *document) int {
	score := 50

	var paragraphs int
	for _, p := range regexp.MustCompile(`\n\s*\n`).Split(doc.raw, -1) {
		if len(strings.TrimSpace(p)) > 50 {
			paragraphs++
		}
	}
	if paragraphs >= 2 {
		score += 15
	}
	if len(flowIndicators.FindAllString(doc.lowered, -1)) >= 2 {
		score += 20
	}
	questions := strings.Count(doc.raw, "?")
	if questions > 0 && questions <= 3 {
		score += 10
	}
	if len(doc.sentences) > 20 && paragraphs < 3 {
		score -= 20
	}
	return clamp(score)
}

func textSource(doc *document) int {
	score := 30
	if urlPattern.MatchString(doc.raw) {
		score += 20
	}
	if datePattern.MatchString(doc.lowered) {
		score += 15
	}
	if len(properNoun.FindAllString(doc.raw, -1)) >= 3 {
		score += 15
	}
	return clamp(score)
}

// Phone-mode evaluators.

func phoneSuspicion(doc *document) int {
	total := ScoreTable(phoneSuspiciousTable, doc.lowered)

	if doc.capsRatio() > 0.12 {
		total += 12
	}
	if doc.exclamations() >= 2 {
		total += 10
	}
	return clamp(total)
}

func phoneCredibility(doc *document) int {
	total := ScoreTable(phoneCredibilityTable, doc.lowered)

	// Terse, link-free informational messages are the norm for legitimate
	// transactional SMS.
	if len(doc.raw) <= shortMessageLimit && !shortLinkPattern.MatchString(doc.lowered) && doc.exclamations() == 0 {
		total += 10
	}
	return clamp(total)
}

func phoneStructure(doc *document) int {
	score := 55
	if doc.capsRatio() > 0.3 {
		score -= 15
	}
	if doc.exclamations() >= 3 {
		score -= 10
	}
	if len(strings.TrimSpace(doc.raw)) > 0 && len(doc.raw) <= shortMessageLimit {
		score += 10
	}
	return clamp(score)
}

func phoneSource(doc *document) int {
	score := 40
	if shortLinkPattern.MatchString(doc.lowered) {
		score -= 15
	} else if urlPattern.MatchString(doc.raw) {
		score += 10
	}
	if regexp.MustCompile(`(?i)ref(erence)? (no|number|id)`).MatchString(doc.lowered) {
		score += 10
	}
	return clamp(score)
}
