package alert

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/verifyit/verifyit/internal/core"
)

const (
	excerptLimit        = 350
	maxEmailIndicators  = 5
	maxEmailRecommends  = 4
	criticalScoreCutoff = 25
)

// EmailBody holds both renderings of a fraud alert message.
type EmailBody struct {
	Text string
	HTML string
}

var fallbackRecommendations = []string{
	"Avoid clicking links or downloading files from this message.",
	"Verify the claim through official channels before responding.",
	"Report suspicious content to your security/admin team.",
}

// BuildAlertEmail renders a fraud alert from an analysis result. The text
// excerpt is whitespace-collapsed and truncated before it reaches the email;
// truncated marks a cut excerpt so both bodies show an ellipsis.
func BuildAlertEmail(excerpt string, truncated bool, result *core.AnalysisResult) EmailBody {
	score := result.Score
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	verdict := result.Verdict
	if verdict == "" {
		verdict = core.VerdictHighlySuspicious
	}

	timestamp := result.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	riskBadge := "HIGH RISK"
	riskColor := "#f97316"
	if score <= criticalScoreCutoff {
		riskBadge = "CRITICAL RISK"
		riskColor = "#dc2626"
	}

	indicators := result.Indicators
	if len(indicators) > maxEmailIndicators {
		indicators = indicators[:maxEmailIndicators]
	}
	recommendations := result.Recommendations
	if len(recommendations) > maxEmailRecommends {
		recommendations = recommendations[:maxEmailRecommends]
	}

	return EmailBody{
		Text: buildPlainText(excerpt, truncated, score, verdict, timestamp, riskBadge, indicators, recommendations),
		HTML: buildHTML(excerpt, truncated, score, verdict, timestamp, riskBadge, riskColor, indicators, recommendations),
	}
}

func buildPlainText(excerpt string, truncated bool, score int, verdict core.Verdict, timestamp time.Time, riskBadge string, indicators, recommendations []string) string {
	var b strings.Builder

	b.WriteString("VerifyIt High-Risk Fraud Alert\n\n")
	fmt.Fprintf(&b, "Risk Level: %s\n", riskBadge)
	fmt.Fprintf(&b, "Risk Score: %d/100\n", score)
	fmt.Fprintf(&b, "Verdict: %s\n", verdict)
	fmt.Fprintf(&b, "Detected At (UTC): %s\n\n", timestamp.UTC().Format(time.RFC3339))

	b.WriteString("Content Excerpt:\n")
	b.WriteString(excerpt)
	if truncated {
		b.WriteString("...")
	}
	b.WriteString("\n\n")

	if len(indicators) > 0 {
		b.WriteString("Indicators:\n- ")
		b.WriteString(strings.Join(indicators, "\n- "))
	} else {
		b.WriteString("Indicators: No additional indicators available.")
	}
	b.WriteString("\n\n")

	b.WriteString("Recommended Actions:\n- ")
	if len(recommendations) > 0 {
		b.WriteString(strings.Join(recommendations, "\n- "))
	} else {
		b.WriteString(strings.Join(fallbackRecommendations, "\n- "))
	}
	b.WriteString("\n\nSent by VerifyIt Security Alerts\n")

	return b.String()
}

func buildHTML(excerpt string, truncated bool, score int, verdict core.Verdict, timestamp time.Time, riskBadge, riskColor string, indicators, recommendations []string) string {
	safeExcerpt := html.EscapeString(excerpt)
	if truncated {
		safeExcerpt += "..."
	}

	indicatorsHTML := `<p style="margin:0;color:#6b7280;">No additional indicators were available.</p>`
	if len(indicators) > 0 {
		indicatorsHTML = htmlList(indicators)
	}

	recommendationsHTML := htmlList(fallbackRecommendations)
	if len(recommendations) > 0 {
		recommendationsHTML = htmlList(recommendations)
	}

	var b strings.Builder
	b.WriteString(`<div style="margin:0;padding:0;background:#f3f4f6;font-family:Arial,Helvetica,sans-serif;">`)
	b.WriteString(`<table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background:#f3f4f6;padding:24px 0;"><tr><td align="center">`)
	b.WriteString(`<table role="presentation" width="680" cellspacing="0" cellpadding="0" style="max-width:680px;background:#ffffff;border-radius:16px;overflow:hidden;border:1px solid #e5e7eb;">`)

	b.WriteString(`<tr><td style="background:linear-gradient(120deg,#4f46e5 0%,#7c3aed 100%);padding:22px 28px;color:#ffffff;">`)
	b.WriteString(`<div style="font-size:13px;opacity:0.95;letter-spacing:0.4px;">VERIFYIT SECURITY ALERT</div>`)
	b.WriteString(`<h1 style="margin:8px 0 6px 0;font-size:24px;line-height:1.2;">High-Risk Content Detected</h1>`)
	b.WriteString(`<p style="margin:0;font-size:14px;opacity:0.95;">An automated analysis has flagged potentially fraudulent content.</p>`)
	b.WriteString(`</td></tr>`)

	b.WriteString(`<tr><td style="padding:24px 28px;">`)
	b.WriteString(`<table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="margin-bottom:18px;"><tr>`)
	b.WriteString(`<td style="padding:14px;border:1px solid #e5e7eb;border-radius:10px;background:#fafafa;">`)
	fmt.Fprintf(&b, `<div style="display:inline-block;background:%s;color:#ffffff;font-size:12px;font-weight:700;padding:6px 10px;border-radius:999px;letter-spacing:0.3px;">%s</div>`, riskColor, riskBadge)
	fmt.Fprintf(&b, `<div style="margin-top:12px;color:#111827;font-size:16px;font-weight:700;">Risk Score: %d/100</div>`, score)
	fmt.Fprintf(&b, `<div style="margin-top:5px;color:#374151;font-size:14px;">Verdict: <strong>%s</strong></div>`, html.EscapeString(string(verdict)))
	fmt.Fprintf(&b, `<div style="margin-top:5px;color:#6b7280;font-size:12px;">Detected at (UTC): %s</div>`, timestamp.UTC().Format(time.RFC3339))
	b.WriteString(`</td></tr></table>`)

	b.WriteString(`<h2 style="margin:0 0 8px 0;font-size:16px;color:#111827;">Message Excerpt</h2>`)
	fmt.Fprintf(&b, `<div style="margin:0 0 16px 0;padding:12px 14px;background:#f9fafb;border:1px solid #e5e7eb;border-radius:10px;color:#374151;font-size:14px;line-height:1.6;">%s</div>`, safeExcerpt)

	b.WriteString(`<h2 style="margin:0 0 8px 0;font-size:16px;color:#111827;">Detected Indicators</h2>`)
	fmt.Fprintf(&b, `<div style="margin:0 0 16px 0;padding:12px 14px;background:#f9fafb;border:1px solid #e5e7eb;border-radius:10px;">%s</div>`, indicatorsHTML)

	b.WriteString(`<h2 style="margin:0 0 8px 0;font-size:16px;color:#111827;">Recommended Actions</h2>`)
	fmt.Fprintf(&b, `<div style="margin:0 0 18px 0;padding:12px 14px;background:#f9fafb;border:1px solid #e5e7eb;border-radius:10px;">%s</div>`, recommendationsHTML)

	b.WriteString(`<div style="padding:12px 14px;background:#fff7ed;border:1px solid #fed7aa;border-radius:10px;color:#9a3412;font-size:13px;line-height:1.5;">`)
	b.WriteString(`Do not share account details, OTPs, or payment information based on suspicious messages. Confirm requests through trusted and official channels.`)
	b.WriteString(`</div></td></tr>`)

	b.WriteString(`<tr><td style="padding:16px 28px;background:#f9fafb;color:#6b7280;font-size:12px;line-height:1.6;border-top:1px solid #e5e7eb;">`)
	b.WriteString(`This alert was generated automatically by VerifyIt. If this looks unexpected, review your newsletter subscriptions and security settings.`)
	b.WriteString(`</td></tr></table></td></tr></table></div>`)

	return b.String()
}

func htmlList(items []string) string {
	var b strings.Builder
	b.WriteString(`<ul style="margin:0;padding-left:18px;color:#374151;line-height:1.6;">`)
	for _, item := range items {
		fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(item))
	}
	b.WriteString("</ul>")
	return b.String()
}
