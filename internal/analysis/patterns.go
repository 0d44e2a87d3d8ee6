// Package analysis implements the scam/misinformation scoring engine: a
// content-mode detector, weighted regex rule tables, a heuristic scorer with
// override caps, a result normalizer, and the merge logic that reconciles
// local heuristic output with an external AI provider's output.
//
// All rule tables are compiled once at package init and shared across
// requests. Scoring operates on local copies of the input only, so the
// package is safe for concurrent use.
package analysis

import (
	"regexp"
)

// Rule is a single weighted regex signal. A matching rule contributes
// weight * min(occurrences, 2) to its table's sub-score.
type Rule struct {
	Name   string
	Regex  *regexp.Regexp
	Weight int
}

// RuleTable groups the rules feeding one sub-score.
type RuleTable struct {
	Category string
	Rules    []Rule
}

func rule(name, pattern string, weight int) Rule {
	return Rule{Name: name, Regex: regexp.MustCompile(`(?i)` + pattern), Weight: weight}
}

// General-text rule tables.
var (
	textSuspiciousTable = RuleTable{
		Category: "suspicious",
		Rules: []Rule{
			rule("urgency", `urgent|act now|limited time|hurry|immediate`, 20),
			rule("hyperbole", `miracle|guaranteed|100%|never fails|secret|amazing`, 15),
			rule("financial scam", `free money|get rich|make \$[\d,]+|easy money`, 30),
			rule("conspiracy language", `doctors hate|they don't want|hidden truth|conspiracy`, 22),
			rule("call to action", `click here|call now|act fast|don't miss|limited offer`, 18),
			rule("sensational language", `shocking|unbelievable|incredible|breakthrough`, 12),
			rule("investment terms", `\b(bitcoin|crypto|investment|profit|roi)\b`, 16),
		},
	}

	textCredibilityTable = RuleTable{
		Category: "credibility",
		Rules: []Rule{
			rule("research references", `according to|research shows|study found|data indicates|statistics show`, 15),
			rule("academic sources", `peer.?reviewed|published in|journal|university|academic`, 20),
			rule("expert mentions", `expert|professor|doctor|researcher|scientist`, 12),
			rule("source attribution", `source:|references?:|citation|bibliography`, 18),
			rule("academic identifiers", `\b(doi:|isbn:|pmid:)`, 25),
			rule("research methodology", `methodology|sample size|confidence interval|margin of error`, 20),
			rule("balanced language", `however|although|despite|nevertheless|on the other hand`, 8),
		},
	}

	textEmotionalTable = RuleTable{
		Category: "emotional",
		Rules: []Rule{
			rule("fear appeals", `fear|scared|terrified|panic|worried|anxiety|danger`, 12),
			rule("anger induction", `angry|outraged|furious|disgusting|hate|evil`, 10),
			rule("pressure tactics", `you must|you need to|don't let|before it's too late`, 15),
			rule("exclusivity claims", `exclusive|special|chosen|selected|privileged`, 8),
			rule("absolute statements", `everyone|nobody|always|never|every single`, 6),
		},
	}
)

// Phone/SMS rule tables. SMS scams lean on credential harvesting, shortened
// links and service-provider impersonation rather than long-form rhetoric.
var (
	phoneSuspiciousTable = RuleTable{
		Category: "suspicious",
		Rules: []Rule{
			rule("credential request", `\botp\b|one.?time password|verification code|share.{0,12}(pin|password|cvv)`, 30),
			rule("account threat", `blocked|suspended|deactivat|account locked|final notice`, 22),
			rule("prize hook", `you (have )?won|prize|lottery|lucky draw|claim (your|now)`, 25),
			rule("shortened link", `bit\.ly|tinyurl|t\.co\b|goo\.gl|cutt\.ly|rb\.gy`, 20),
			rule("remote access tool", `anydesk|teamviewer|quick ?support|screen.?shar`, 25),
			rule("payment demand", `pay now|send money|transfer|upi|wire|gift card`, 18),
			rule("impersonation", `\b(bank|kyc|sim|telecom|customs|tax office)\b`, 14),
			rule("urgency", `urgent|immediately|within 24 hours|right away|act now`, 16),
		},
	}

	phoneCredibilityTable = RuleTable{
		Category: "credibility",
		Rules: []Rule{
			rule("transactional phrasing", `your (order|parcel|package|booking)|has been (shipped|delivered)|tracking (number|id)`, 12),
			rule("opt-out notice", `reply stop|text stop to|unsubscribe`, 10),
			rule("reference number", `ref(erence)? (no|number|id)[:.]?\s*\w+`, 10),
			rule("safety advisory", `never share (your )?(otp|pin|password)|do not share`, 15),
			rule("named sender", `^-?\s*(from|sent by)\s+[a-z]`, 8),
		},
	}

	phoneEmotionalTable = RuleTable{
		Category: "emotional",
		Rules: []Rule{
			rule("legal threat", `police|arrest|legal action|court|lawsuit|fir\b`, 18),
			rule("service threat", `will be (blocked|suspended|disconnected|terminated)`, 15),
			rule("time pressure", `immediately|expires (today|soon)|last chance|within \d+ (minutes|hours)`, 12),
			rule("reward excitement", `congratulations|winner|selected|lucky`, 10),
		},
	}
)

// URL and structural helper patterns shared by the sub-score evaluators.
var (
	urlPattern       = regexp.MustCompile(`(?i)https?://\S+|www\.\S+`)
	shortLinkPattern = regexp.MustCompile(`(?i)bit\.ly|tinyurl|t\.co\b|goo\.gl|cutt\.ly|rb\.gy`)
	datePattern      = regexp.MustCompile(`(?i)\b(19|20)\d{2}\b|january|february|march|april|may|june|july|august|september|october|november|december`)
	properNoun       = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
	flowIndicators   = regexp.MustCompile(`(?i)first|second|third|finally|in conclusion|therefore|however|furthermore`)
	wordPattern      = regexp.MustCompile(`\b\w+\b`)
	capitalPattern   = regexp.MustCompile(`[A-Z]`)
)

// ScoreTable applies every rule in the table against lowered text and returns
// the clamped sum of contributions. Repeated matches of one rule contribute at
// most double weight, so a single repeated token cannot dominate the score.
func ScoreTable(table RuleTable, lowered string) int {
	total := 0
	for _, r := range table.Rules {
		n := len(r.Regex.FindAllStringIndex(lowered, -1))
		if n == 0 {
			continue
		}
		if n > 2 {
			n = 2
		}
		total += r.Weight * n
	}
	return clamp(total)
}

// MatchedRules returns the names of rules that match, for indicator labeling.
func MatchedRules(table RuleTable, lowered string) []string {
	var names []string
	for _, r := range table.Rules {
		if r.Regex.MatchString(lowered) {
			names = append(names, r.Name)
		}
	}
	return names
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
