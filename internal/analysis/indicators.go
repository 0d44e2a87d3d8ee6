package analysis

import (
	"fmt"
	"strings"

	"github.com/verifyit/verifyit/internal/core"
)

// maxIndicators bounds the indicator list in every result.
const maxIndicators = 6

// indicators builds the labeled findings list for a locally scored document.
func indicators(doc *document, subs SubScores) []string {
	var out []string

	if subs.Credibility > 30 {
		out = append(out, "✓ Contains reference patterns")
	}
	if subs.Credibility > 50 {
		out = append(out, "✓ Shows academic or research indicators")
	}
	if subs.Suspicious < 20 {
		out = append(out, "✓ Low suspicious language detected")
	}
	if subs.Emotional < 30 {
		out = append(out, "✓ Balanced emotional tone")
	}

	if subs.Suspicious > 40 {
		out = append(out, "⚠ High suspicious pattern density")
	}
	if subs.Emotional > 50 {
		out = append(out, "⚠ Strong emotional manipulation detected")
	}
	if subs.Credibility < 20 {
		out = append(out, "⚠ Lacks credible source indicators")
	}
	if len(doc.words) < 50 && doc.mode == core.ModeText {
		out = append(out, "⚠ Very short content - limited analysis")
	}

	if doc.mode == core.ModePhone {
		if reCredHarvest.MatchString(doc.raw) {
			out = append(out, "⚠ Requests for OTP/credentials detected")
		}
		if shortLinkPattern.MatchString(doc.lowered) {
			out = append(out, "⚠ Shortened link present - destination hidden")
		}
	} else {
		if reUrgency.MatchString(doc.raw) {
			out = append(out, "⚠ Urgency pressure tactics found")
		}
		if reMoneyClaims.MatchString(doc.raw) {
			out = append(out, "⚠ Financial claims present - verify carefully")
		}
	}

	if len(out) == 0 {
		out = append(out, "ℹ Standard content analysis completed")
	}
	return capIndicators(out)
}

func capIndicators(list []string) []string {
	if len(list) > maxIndicators {
		return list[:maxIndicators]
	}
	return list
}

// Recommendations regenerates the action-item list for a verdict and content
// mode. Recommendations are never trusted from external input.
func Recommendations(verdict core.Verdict, mode core.ContentMode) []string {
	if mode == core.ModePhone {
		switch verdict {
		case core.VerdictHighlySuspicious:
			return []string{
				"Do not reply, click links, or call numbers from this message",
				"Never share OTPs, PINs, or account details over SMS or phone",
				"Block and report the sender to your carrier or bank",
				"Contact the claimed organization only via its official channels",
			}
		case core.VerdictLikelyLegitimate:
			return []string{
				"Message appears routine but confirm via the official app or website",
				"Avoid tapping links; navigate to the service directly",
				"Check that the sender ID matches previous legitimate messages",
			}
		default:
			return []string{
				"Verify the request independently before acting on it",
				"Do not share codes or personal details until the sender is confirmed",
				"When in doubt, call the organization using a number you already trust",
			}
		}
	}

	switch verdict {
	case core.VerdictHighlySuspicious:
		return []string{
			"Do not share this content without verification",
			"Check official sources and fact-checking websites",
			"Look for corroborating evidence from reliable outlets",
			"Be aware this may be deliberate misinformation",
		}
	case core.VerdictLikelyLegitimate:
		return []string{
			"Content appears credible but verify important claims",
			"Cross-reference with additional trusted sources",
			"Check publication date for relevance",
			"Consider the source's reputation and expertise",
		}
	default:
		return []string{
			"Exercise caution and verify key claims",
			"Look for multiple independent sources",
			"Check for potential conflicts of interest",
			"Consider seeking expert opinions on the topic",
		}
	}
}

// narrative variants per verdict. Variant selection keys off word count so
// repeated analyses of the same input stay reproducible.
var narrativeVariants = map[core.Verdict][]string{
	core.VerdictHighlySuspicious: {
		"This content shows multiple red flags commonly associated with misinformation or scam content. The text contains %d words with patterns suggesting potential manipulation tactics.",
		"Key concerns include suspicious language patterns, emotional manipulation techniques, and lack of credible source attribution. The content structure and vocabulary suggest it may be designed to mislead rather than inform.",
		"Multiple indicators point to this being potentially false or misleading information that should be thoroughly fact-checked before sharing or acting upon.",
	},
	core.VerdictLikelyLegitimate: {
		"This content appears to follow patterns typical of credible information sources. The %d-word text demonstrates balanced language and appropriate sourcing indicators.",
		"The analysis found credible reference patterns, balanced emotional tone, and proper information structure. While no content is 100%% guaranteed accurate, this shows positive credibility signals.",
		"The text demonstrates characteristics of legitimate information, but as with all content, cross-referencing with authoritative sources is recommended for important decisions.",
	},
	core.VerdictProceedWithCaution: {
		"This content shows mixed signals that require careful evaluation. While containing %d words of analysis, it displays both credible and concerning elements.",
		"Some aspects appear legitimate while others raise caution flags. The content may contain accurate information presented in a potentially biased or incomplete manner.",
		"Neither clearly legitimate nor obviously suspicious, this content requires additional verification through independent sources before drawing conclusions.",
	},
}

func narrative(doc *document, score int, verdict core.Verdict) string {
	variants := narrativeVariants[verdict]
	if len(variants) == 0 {
		variants = narrativeVariants[core.VerdictProceedWithCaution]
	}
	selected := variants[len(doc.words)%len(variants)]

	var base string
	if strings.Contains(selected, "%d") {
		base = fmt.Sprintf(selected, len(doc.words))
	} else {
		base = strings.ReplaceAll(selected, "%%", "%")
	}

	switch {
	case score < 30:
		return base + " Strong indicators suggest this content should be treated with significant skepticism."
	case score > 75:
		return base + " Multiple positive indicators support the credibility of this content."
	default:
		return base + " Mixed indicators suggest a moderate approach to verification is appropriate."
	}
}
