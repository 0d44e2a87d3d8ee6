package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verifyit/verifyit/internal/core"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*JSONStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subscribers.json")
	s, err := NewJSONStore(path, zap.NewNop())
	require.NoError(t, err)
	return s, path
}

func TestJSONStoreCreateAndGet(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "Alice@Example.com"))

	sub, err := s.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", sub.Email, "emails are normalized to lower case")
	assert.True(t, sub.Active)
	assert.Equal(t, 0, sub.AlertsReceived)
}

func TestJSONStoreGetMissing(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrSubscriberNotFound)
}

func TestJSONStoreReactivate(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "bob@example.com"))

	// Deactivate by editing state directly, then persist and reload.
	s.mu.Lock()
	s.data.Subscribers[0].Active = false
	require.NoError(t, s.flush())
	s.mu.Unlock()

	reloaded, err := NewJSONStore(path, zap.NewNop())
	require.NoError(t, err)

	active, err := reloaded.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, reloaded.Reactivate(ctx, "bob@example.com"))

	active, err = reloaded.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "bob@example.com", active[0].Email)
}

func TestJSONStoreIncrementAlerts(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "a@example.com"))
	require.NoError(t, s.Create(ctx, "b@example.com"))

	require.NoError(t, s.IncrementAlerts(ctx, []string{"a@example.com", "missing@example.com"}))

	a, err := s.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, a.AlertsReceived)

	b, err := s.GetByEmail(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, b.AlertsReceived)
}

func TestJSONStoreAlertStateRoundTrip(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	state, err := s.AlertState(ctx)
	require.NoError(t, err)
	assert.True(t, state.LastAlertAt.IsZero())
	assert.Empty(t, state.LastAlertSignature)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.UpdateAlertState(ctx, &core.AlertState{
		LastAlertAt:        at,
		LastAlertSignature: "abc123",
	}))

	reloaded, err := NewJSONStore(path, zap.NewNop())
	require.NoError(t, err)

	state, err = reloaded.AlertState(ctx)
	require.NoError(t, err)
	assert.True(t, state.LastAlertAt.Equal(at))
	assert.Equal(t, "abc123", state.LastAlertSignature)
}

func TestJSONStorePersistsAcrossReopen(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "carol@example.com"))

	reloaded, err := NewJSONStore(path, zap.NewNop())
	require.NoError(t, err)

	sub, err := reloaded.GetByEmail(ctx, "carol@example.com")
	require.NoError(t, err)
	assert.True(t, sub.Active)
}
