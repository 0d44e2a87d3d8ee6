package alert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/verifyit/verifyit/internal/core"
	"github.com/verifyit/verifyit/internal/utils"
	"go.uber.org/zap"
)

const alertSubject = "VerifyIt Fraud Alert: High-Risk Content Detected"

// Dispatch outcome reasons reported back on the API response.
const (
	ReasonDisabled      = "alerts-disabled"
	ReasonNoMailer      = "email-transport-not-configured"
	ReasonNoSubscribers = "no-active-subscribers"
	ReasonCooldown      = "cooldown-active"
	ReasonDuplicate     = "duplicate-alert"
	ReasonAllFailed     = "all-sends-failed"
)

// DispatchStatus describes what happened to a single alert dispatch attempt.
type DispatchStatus struct {
	Attempted  bool   `json:"attempted"`
	Sent       bool   `json:"sent"`
	Recipients int    `json:"recipientsCount"`
	Reason     string `json:"reason,omitempty"`
}

// DispatchOptions control the suppression checks for a dispatch.
type DispatchOptions struct {
	BypassCooldown  bool
	BypassDuplicate bool
}

// Service sends fraud alerts to active newsletter subscribers. Dispatches
// are rate limited by a cooldown window and deduplicated by content
// signature, both persisted through the subscriber repository.
type Service struct {
	enabled   bool
	threshold int
	cooldown  time.Duration
	from      string

	subscribers core.SubscriberRepository
	mailer      core.AlertMailer
	text        *utils.TextProcessor
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a fraud alert service. mailer may be nil when no SMTP
// transport is configured; dispatches then report ReasonNoMailer.
func NewService(
	enabled bool,
	threshold int,
	cooldown time.Duration,
	fromName string,
	fromAddress string,
	subscribers core.SubscriberRepository,
	mailer core.AlertMailer,
	text *utils.TextProcessor,
	logger *zap.Logger,
) *Service {
	from := fromAddress
	if fromName != "" && fromAddress != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromAddress)
	}
	return &Service{
		enabled:     enabled,
		threshold:   threshold,
		cooldown:    cooldown,
		from:        from,
		subscribers: subscribers,
		mailer:      mailer,
		text:        text,
		logger:      logger,
		now:         time.Now,
	}
}

// From returns the formatted sender used on outgoing alerts.
func (s *Service) From() string {
	return s.from
}

// ShouldAlert reports whether a result is risky enough to alert on.
func (s *Service) ShouldAlert(result *core.AnalysisResult) bool {
	if result == nil {
		return false
	}
	if result.Verdict == core.VerdictHighlySuspicious {
		return true
	}
	return result.Score <= s.threshold
}

// Dispatch sends the alert to all active subscribers, honoring the cooldown
// window and duplicate suppression unless the options bypass them. Partial
// delivery failures are logged but only a total failure marks the dispatch
// unsent.
func (s *Service) Dispatch(ctx context.Context, text string, result *core.AnalysisResult, opts DispatchOptions) (*DispatchStatus, error) {
	status := &DispatchStatus{}

	if !s.enabled {
		status.Reason = ReasonDisabled
		return status, nil
	}
	if s.mailer == nil {
		status.Reason = ReasonNoMailer
		return status, nil
	}

	active, err := s.subscribers.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	if len(active) == 0 {
		status.Reason = ReasonNoSubscribers
		return status, nil
	}

	now := s.now()
	state, err := s.subscribers.AlertState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alert state: %w", err)
	}
	if !opts.BypassCooldown && !state.LastAlertAt.IsZero() && now.Sub(state.LastAlertAt) < s.cooldown {
		status.Reason = ReasonCooldown
		return status, nil
	}

	signature := core.Signature(text)
	if !opts.BypassDuplicate && state.LastAlertSignature != "" && state.LastAlertSignature == signature {
		status.Reason = ReasonDuplicate
		return status, nil
	}

	status.Attempted = true

	excerpt, truncated := s.text.Excerpt(text, excerptLimit)
	body := BuildAlertEmail(excerpt, truncated, result)

	var delivered []string
	for _, sub := range active {
		if err := s.mailer.Send(ctx, sub.Email, alertSubject, body.Text, body.HTML); err != nil {
			s.logger.Warn("Fraud alert delivery failed",
				zap.String("recipient", sub.Email),
				zap.Error(err))
			continue
		}
		delivered = append(delivered, strings.ToLower(sub.Email))
	}

	if len(delivered) == 0 {
		status.Reason = ReasonAllFailed
		return status, nil
	}

	if err := s.subscribers.IncrementAlerts(ctx, delivered); err != nil {
		s.logger.Warn("Failed to increment alert counters", zap.Error(err))
	}
	if err := s.subscribers.UpdateAlertState(ctx, &core.AlertState{
		LastAlertAt:        now,
		LastAlertSignature: signature,
	}); err != nil {
		s.logger.Warn("Failed to persist alert state", zap.Error(err))
	}

	status.Sent = true
	status.Recipients = len(delivered)
	s.logger.Info("Fraud alert dispatched",
		zap.Int("recipients", len(delivered)),
		zap.Int("score", result.Score),
		zap.String("verdict", string(result.Verdict)))
	return status, nil
}
