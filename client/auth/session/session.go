package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/viant/exchange/client/auth/store"
	"github.com/viant/exchange/internal/collection"
)

// State is the client's belief about being authenticated, derived only
// from the presence of the credential pair.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Reason tells listeners why a session ended.
type Reason string

const (
	ReasonLogout        Reason = "logout"
	ReasonRefreshFailed Reason = "refresh_failed"
)

// Listener is notified synchronously after the credentials were erased.
// The surrounding application typically navigates to its login entry point.
type Listener func(ctx context.Context, reason Reason)

// Manager owns the credential store and the session termination signal.
type Manager struct {
	store     store.Store
	listeners *collection.SyncMap[string, Listener]
}

// New creates a session manager over s.
func New(s store.Store) *Manager {
	return &Manager{store: s, listeners: collection.NewSyncMap[string, Listener]()}
}

// Store returns the underlying credential store.
func (m *Manager) Store() store.Store {
	return m.store
}

// State reports Authenticated only when both credentials are present.
func (m *Manager) State(ctx context.Context) State {
	if _, ok := store.Load(ctx, m.store); ok {
		return Authenticated
	}
	return Anonymous
}

// Begin persists the pair obtained by a successful login.
func (m *Manager) Begin(ctx context.Context, pair *store.Pair) error {
	if pair == nil || pair.AccessToken == "" || pair.RefreshToken == "" {
		return fmt.Errorf("incomplete credential pair")
	}
	if err := store.Save(ctx, m.store, pair); err != nil {
		return fmt.Errorf("failed to persist credentials: %w", err)
	}
	return nil
}

// End erases both credentials, then notifies every listener.
// Listeners run even when erasing failed, the in-process session is over either way.
func (m *Manager) End(ctx context.Context, reason Reason) error {
	err := store.Erase(ctx, m.store)
	m.listeners.Range(func(_ string, listener Listener) bool {
		listener(ctx, reason)
		return true
	})
	if err != nil {
		return fmt.Errorf("failed to erase credentials: %w", err)
	}
	return nil
}

// Normalize erases a half-present pair without notifying anyone, so the store
// never holds a refresh credential without its access credential.
func (m *Manager) Normalize(ctx context.Context) error {
	if m.State(ctx) == Authenticated {
		return nil
	}
	return store.Erase(ctx, m.store)
}

// Subscribe registers listener and returns its unsubscribe function.
func (m *Manager) Subscribe(listener Listener) func() {
	id := uuid.NewString()
	m.listeners.Put(id, listener)
	return func() {
		m.listeners.Delete(id)
	}
}
