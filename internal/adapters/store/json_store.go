package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/verifyit/verifyit/internal/core"
	"go.uber.org/zap"
)

// jsonFile is the on-disk shape of the subscriber database
type jsonFile struct {
	Subscribers []core.Subscriber `json:"subscribers"`
	AlertState  core.AlertState   `json:"alertState"`
}

// JSONStore is a file-backed implementation of the SubscriberRepository
// interface for deployments without a database.
type JSONStore struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
	data   jsonFile
}

// NewJSONStore loads (or initializes) the subscriber file at path
func NewJSONStore(path string, logger *zap.Logger) (*JSONStore, error) {
	store := &JSONStore{path: path, logger: logger}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read subscriber file: %w", err)
		}
		if err := store.flush(); err != nil {
			return nil, err
		}
		return store, nil
	}

	if err := json.Unmarshal(raw, &store.data); err != nil {
		return nil, fmt.Errorf("failed to parse subscriber file: %w", err)
	}
	return store, nil
}

// flush writes the current state atomically. Caller holds the lock
// (or is the constructor before the store is shared).
func (s *JSONStore) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode subscriber file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write subscriber file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace subscriber file: %w", err)
	}
	return nil
}

func (s *JSONStore) find(email string) *core.Subscriber {
	email = normalizeEmail(email)
	for i := range s.data.Subscribers {
		if s.data.Subscribers[i].Email == email {
			return &s.data.Subscribers[i]
		}
	}
	return nil
}

// GetByEmail returns the subscriber for an email
func (s *JSONStore) GetByEmail(_ context.Context, email string) (*core.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := s.find(email)
	if sub == nil {
		return nil, ErrSubscriberNotFound
	}
	copied := *sub
	return &copied, nil
}

// Create adds a new active subscriber
func (s *JSONStore) Create(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Subscribers = append(s.data.Subscribers, core.Subscriber{
		Email:        normalizeEmail(email),
		SubscribedAt: time.Now().UTC(),
		Active:       true,
	})
	return s.flush()
}

// Reactivate re-enables a previously unsubscribed address
func (s *JSONStore) Reactivate(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := s.find(email)
	if sub == nil {
		return ErrSubscriberNotFound
	}
	sub.Active = true
	sub.SubscribedAt = time.Now().UTC()
	return s.flush()
}

// ListActive returns all active subscribers
func (s *JSONStore) ListActive(_ context.Context) ([]core.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var subs []core.Subscriber
	for _, sub := range s.data.Subscribers {
		if sub.Active {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

// IncrementAlerts bumps the alerts-received counter for the given emails
func (s *JSONStore) IncrementAlerts(_ context.Context, emails []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	touched := false
	for _, email := range emails {
		if sub := s.find(email); sub != nil {
			sub.AlertsReceived++
			touched = true
		}
	}
	if !touched {
		return nil
	}
	return s.flush()
}

// AlertState returns the persisted alert cooldown/dedup state
func (s *JSONStore) AlertState(_ context.Context) (*core.AlertState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.data.AlertState
	return &state, nil
}

// UpdateAlertState persists new alert cooldown/dedup state
func (s *JSONStore) UpdateAlertState(_ context.Context, state *core.AlertState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.AlertState = *state
	return s.flush()
}
