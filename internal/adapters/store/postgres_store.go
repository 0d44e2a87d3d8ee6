package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/verifyit/verifyit/internal/core"
	"go.uber.org/zap"
)

// ErrSubscriberNotFound is returned when no subscriber exists for an email.
var ErrSubscriberNotFound = errors.New("subscriber not found")

// PostgresStore is a PostgreSQL implementation of the SubscriberRepository interface
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresStore opens a connection and bootstraps the schema
func NewPostgresStore(dsn string, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	store := &PostgresStore{db: db, logger: logger}
	if err := store.bootstrap(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *PostgresStore) bootstrap() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS subscribers (
			email TEXT PRIMARY KEY,
			subscribed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			active BOOLEAN NOT NULL DEFAULT TRUE,
			alerts_received INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS alert_state (
			id INTEGER PRIMARY KEY,
			last_fraud_alert_at TIMESTAMPTZ,
			last_fraud_alert_signature TEXT
		)`,
		`INSERT INTO alert_state (id) VALUES (1) ON CONFLICT (id) DO NOTHING`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to bootstrap schema: %w", err)
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetByEmail returns the subscriber for an email
func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*core.Subscriber, error) {
	sub := &core.Subscriber{}
	err := s.db.QueryRowContext(ctx, `
		SELECT email, subscribed_at, active, alerts_received
		FROM subscribers WHERE email = $1
	`, normalizeEmail(email)).Scan(&sub.Email, &sub.SubscribedAt, &sub.Active, &sub.AlertsReceived)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("failed to query subscriber: %w", err)
	}
	return sub, nil
}

// Create adds a new active subscriber
func (s *PostgresStore) Create(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscribers (email, subscribed_at, active, alerts_received)
		VALUES ($1, NOW(), TRUE, 0)
	`, normalizeEmail(email))
	if err != nil {
		return fmt.Errorf("failed to create subscriber: %w", err)
	}
	return nil
}

// Reactivate re-enables a previously unsubscribed address
func (s *PostgresStore) Reactivate(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE subscribers SET active = TRUE, subscribed_at = NOW()
		WHERE email = $1
	`, normalizeEmail(email))
	if err != nil {
		return fmt.Errorf("failed to reactivate subscriber: %w", err)
	}
	return nil
}

// ListActive returns all active subscribers
func (s *PostgresStore) ListActive(ctx context.Context) ([]core.Subscriber, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT email, subscribed_at, active, alerts_received
		FROM subscribers WHERE active = TRUE
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []core.Subscriber
	for rows.Next() {
		var sub core.Subscriber
		if err := rows.Scan(&sub.Email, &sub.SubscribedAt, &sub.Active, &sub.AlertsReceived); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// IncrementAlerts bumps the alerts-received counter for the given emails
func (s *PostgresStore) IncrementAlerts(ctx context.Context, emails []string) error {
	if len(emails) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		if n := normalizeEmail(e); n != "" {
			normalized = append(normalized, n)
		}
	}
	if len(normalized) == 0 {
		return nil
	}

	placeholders := make([]string, len(normalized))
	args := make([]interface{}, len(normalized))
	for i, e := range normalized {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = e
	}

	query := fmt.Sprintf(`
		UPDATE subscribers SET alerts_received = alerts_received + 1
		WHERE email IN (%s)
	`, strings.Join(placeholders, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to increment alert counters: %w", err)
	}
	return nil
}

// AlertState returns the persisted alert cooldown/dedup state
func (s *PostgresStore) AlertState(ctx context.Context) (*core.AlertState, error) {
	var at sql.NullTime
	var sig sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT last_fraud_alert_at, last_fraud_alert_signature
		FROM alert_state WHERE id = 1
	`).Scan(&at, &sig)
	if err != nil {
		if err == sql.ErrNoRows {
			return &core.AlertState{}, nil
		}
		return nil, fmt.Errorf("failed to query alert state: %w", err)
	}

	state := &core.AlertState{}
	if at.Valid {
		state.LastAlertAt = at.Time
	}
	if sig.Valid {
		state.LastAlertSignature = sig.String
	}
	return state, nil
}

// UpdateAlertState persists new alert cooldown/dedup state
func (s *PostgresStore) UpdateAlertState(ctx context.Context, state *core.AlertState) error {
	var at interface{}
	if !state.LastAlertAt.IsZero() {
		at = state.LastAlertAt
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE alert_state SET last_fraud_alert_at = $1, last_fraud_alert_signature = $2
		WHERE id = 1
	`, at, state.LastAlertSignature)
	if err != nil {
		return fmt.Errorf("failed to update alert state: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
