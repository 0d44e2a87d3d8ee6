package analysis

import (
	"regexp"

	"github.com/verifyit/verifyit/internal/core"
)

// Override rules cap the final score when a known high-risk phrase
// combination is present, regardless of the weighted sub-score sum. Weighted
// sums alone under-penalize textbook scam templates; the cascade guarantees
// known-dangerous archetypes never score as safe.
//
// Each rule can only lower the score (min), never raise it. Rules evaluate in
// order and a predicate panic is swallowed, keeping the pre-rule score.
type overrideRule struct {
	Name      string
	Predicate func(doc *document) bool
	Cap       int
}

var (
	reFinancialScam = regexp.MustCompile(`(?i)free money|get rich|make \$[\d,]+|easy money|double your money`)
	reUrgency       = regexp.MustCompile(`(?i)urgent|act now|limited time|hurry|immediate|don't miss|act fast`)
	reDoctorsHate   = regexp.MustCompile(`(?i)doctors hate|doctors don't want`)
	reClassicHook   = regexp.MustCompile(`(?i)you (have been|were) selected|congratulations,? you|once.in.a.lifetime|act now to claim`)
	reMoneyTerms    = regexp.MustCompile(`(?i)\b(money|secret|profit)\b`)
	reCoverUp       = regexp.MustCompile(`(?i)they don't want you to know|hidden truth|cover.?up|mainstream media won't`)
	reAuthority     = regexp.MustCompile(`(?i)\b(government|big pharma|doctors|scientists|the elite)\b`)
	rePressureSale  = regexp.MustCompile(`(?i)buy now|order today|only \d+ left|while supplies last|special discount`)
	reHyperbole     = regexp.MustCompile(`(?i)guaranteed|100%|never fails|secret trick|miracle`)
	reMoneyClaims   = regexp.MustCompile(`(?i)\$[\d,]+|money|profit|investment`)

	reCredHarvest  = regexp.MustCompile(`(?i)share.{0,12}(otp|pin|password|cvv)|send.{0,12}(otp|code)|verification code`)
	reRemoteAccess = regexp.MustCompile(`(?i)anydesk|teamviewer|quick ?support|screen.?shar|remote access`)
	rePrizeHook    = regexp.MustCompile(`(?i)you (have )?won|prize|lottery|lucky draw`)
	rePhonePress   = regexp.MustCompile(`(?i)pay now|account locked|final notice|will be (blocked|suspended)`)
)

var textOverrides = []overrideRule{
	{
		Name: "financial scam with urgency",
		Predicate: func(d *document) bool {
			return reFinancialScam.MatchString(d.raw) && reUrgency.MatchString(d.raw)
		},
		Cap: 15,
	},
	{
		Name: "clickbait health claim",
		Predicate: func(d *document) bool {
			return reDoctorsHate.MatchString(d.raw) && (d.exclamations() >= 2 || reUrgency.MatchString(d.raw))
		},
		Cap: 10,
	},
	{
		Name: "classic scam hook",
		Predicate: func(d *document) bool {
			return reClassicHook.MatchString(d.raw) && reMoneyTerms.MatchString(d.raw)
		},
		Cap: 15,
	},
	{
		Name: "conspiracy narrative",
		Predicate: func(d *document) bool {
			return reCoverUp.MatchString(d.raw) && reAuthority.MatchString(d.raw)
		},
		Cap: 15,
	},
	{
		Name: "high-pressure sales pitch",
		Predicate: func(d *document) bool {
			return rePressureSale.MatchString(d.raw)
		},
		Cap: 12,
	},
	{
		Name: "hyperbole overload",
		Predicate: func(d *document) bool {
			return d.exclamations() >= 4 || reHyperbole.MatchString(d.raw)
		},
		Cap: 20,
	},
}

var phoneOverrides = []overrideRule{
	{
		Name: "credential harvesting",
		Predicate: func(d *document) bool {
			return reCredHarvest.MatchString(d.raw)
		},
		Cap: 10,
	},
	{
		Name: "remote access tool",
		Predicate: func(d *document) bool {
			return reRemoteAccess.MatchString(d.raw)
		},
		Cap: 12,
	},
	{
		Name: "shortened link with urgency",
		Predicate: func(d *document) bool {
			return shortLinkPattern.MatchString(d.lowered) && reUrgency.MatchString(d.raw)
		},
		Cap: 14,
	},
	{
		Name: "prize hook",
		Predicate: func(d *document) bool {
			return rePrizeHook.MatchString(d.raw)
		},
		Cap: 15,
	},
	{
		Name: "payment pressure",
		Predicate: func(d *document) bool {
			return rePhonePress.MatchString(d.raw)
		},
		Cap: 18,
	},
}

// applyOverrides runs the mode's override cascade. Each rule monotonically
// non-increases the score. A panicking predicate is ignored and the score
// from before that rule stands.
func applyOverrides(doc *document, score int) int {
	rules := textOverrides
	if doc.mode == core.ModePhone {
		rules = phoneOverrides
	}
	for _, r := range rules {
		score = applyOverride(doc, r, score)
	}
	return score
}

func applyOverride(doc *document, r overrideRule, score int) (out int) {
	out = score
	defer func() {
		if recover() != nil {
			out = score
		}
	}()
	if r.Predicate(doc) && r.Cap < out {
		out = r.Cap
	}
	return out
}
