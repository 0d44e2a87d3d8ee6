package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/verifyit/verifyit/internal/core"
)

func TestDetectMode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected core.ContentMode
	}{
		{
			name:     "empty input",
			input:    "",
			expected: core.ModeText,
		},
		{
			name:     "whitespace only",
			input:    "   \n\t  ",
			expected: core.ModeText,
		},
		{
			name:     "bare phone number",
			input:    "+1 (555) 019-2817",
			expected: core.ModePhone,
		},
		{
			name:     "phone number with spaces",
			input:    "91 98765 43210",
			expected: core.ModePhone,
		},
		{
			name:     "digits but too few for a phone number",
			input:    "12345",
			expected: core.ModeText,
		},
		{
			name:     "sms scam with otp and short link",
			input:    "URGENT: Your SIM will be blocked in 24 hours. Share OTP sent to your number at bit.ly/kyc-update",
			expected: core.ModePhone,
		},
		{
			name:     "short message with telecom token",
			input:    "Your KYC verification is pending. Visit your nearest branch.",
			expected: core.ModePhone,
		},
		{
			name:     "long article with no phone signals",
			input:    "According to a study published in the Journal of Sleep Research, university researchers examined sleep patterns across adults over several years. The methodology involved careful controls. However, the authors caution that further work is needed before the results generalize to wider populations and age groups beyond those sampled here.",
			expected: core.ModeText,
		},
		{
			name:     "plain prose",
			input:    "The committee met on Tuesday to review the quarterly budget.",
			expected: core.ModeText,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DetectMode(tc.input))
		})
	}
}

func TestDetectModeDeterministic(t *testing.T) {
	inputs := []string{
		"+1 (555) 019-2817",
		"Your account has a missed call from an unknown number",
		"An ordinary sentence about the weather.",
	}
	for _, input := range inputs {
		first := DetectMode(input)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, DetectMode(input), "mode flipped for %q", input)
		}
	}
}
