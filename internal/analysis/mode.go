package analysis

import (
	"regexp"
	"strings"

	"github.com/verifyit/verifyit/internal/core"
)

// Mode detection heuristics. Classification is a triage only: it must be
// deterministic and total, but false classification is acceptable.
var (
	// Entire input looks like a bare phone number: digits plus common
	// separators, 7-24 characters overall.
	phoneShape = regexp.MustCompile(`^[\d\s()+\-]{7,24}$`)

	// A long digit run inside longer content that resembles a number.
	longDigitRun = regexp.MustCompile(`(?:\d[\s\-()]?){8,15}`)

	phoneTokens = regexp.MustCompile(`(?i)\b(call|whatsapp|missed call|otp|verification code|kyc|upi|bank|sim|telecom)\b`)
	scamTokens  = regexp.MustCompile(`(?i)urgent|blocked|suspended|prize|lottery|refund|claim|click|link|verify now|account locked|pay now|remote access|screen share`)
)

const shortMessageLimit = 280

// DetectMode classifies input as general text or phone/SMS content.
func DetectMode(input string) core.ContentMode {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return core.ModeText
	}

	if phoneShape.MatchString(trimmed) {
		digits := 0
		for _, r := range trimmed {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 8 && digits <= 15 {
			return core.ModePhone
		}
	}

	hasPhoneSignal := longDigitRun.MatchString(trimmed) || phoneTokens.MatchString(trimmed)
	if hasPhoneSignal {
		if len(trimmed) <= shortMessageLimit || scamTokens.MatchString(trimmed) {
			return core.ModePhone
		}
	}

	return core.ModeText
}
