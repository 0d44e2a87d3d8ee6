package core

import (
	"context"
)

// AIClient defines the interface for external AI analysis providers.
type AIClient interface {
	// AnalyzeText analyzes a piece of content and returns a normalized
	// result. Implementations are responsible for recovering structured
	// output from free-form model responses.
	AnalyzeText(ctx context.Context, text string) (*AnalysisResult, error)
}

// CacheRepository defines the interface for caching analysis results by
// content signature.
type CacheRepository interface {
	// Get retrieves a cached entry for a content signature.
	Get(ctx context.Context, signature string) (*CacheEntry, error)

	// Set stores a cache entry.
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry.
	Delete(ctx context.Context, signature string) error

	// Cleanup removes expired entries.
	Cleanup(ctx context.Context) error
}

// SubscriberRepository defines the interface for newsletter subscriber
// persistence and alert-state bookkeeping.
type SubscriberRepository interface {
	// GetByEmail returns the subscriber for an email, or ErrSubscriberNotFound.
	GetByEmail(ctx context.Context, email string) (*Subscriber, error)

	// Create adds a new active subscriber.
	Create(ctx context.Context, email string) error

	// Reactivate re-enables a previously unsubscribed address.
	Reactivate(ctx context.Context, email string) error

	// ListActive returns all active subscribers.
	ListActive(ctx context.Context) ([]Subscriber, error)

	// IncrementAlerts bumps the alerts-received counter for the given emails.
	IncrementAlerts(ctx context.Context, emails []string) error

	// AlertState returns the persisted alert cooldown/dedup state.
	AlertState(ctx context.Context) (*AlertState, error)

	// UpdateAlertState persists new alert cooldown/dedup state.
	UpdateAlertState(ctx context.Context, state *AlertState) error
}

// AlertMailer delivers a single alert email to one recipient.
type AlertMailer interface {
	Send(ctx context.Context, to string, subject string, textBody string, htmlBody string) error
}
