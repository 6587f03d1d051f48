package store

import (
	"context"
	"sync"
)

// Name identifies one of the persisted credentials.
type Name string

const (
	// AccessToken is the short-lived bearer credential attached to every call.
	AccessToken Name = "access_token"
	// RefreshToken is the long-lived credential exchanged for a new access token.
	RefreshToken Name = "refresh_token"
)

// Names lists every entry a Store is expected to hold.
var Names = []Name{AccessToken, RefreshToken}

// Store is a pluggable persistence layer for the credential pair.
// Get never fails: absence (or an unreadable backend) means "no session".
// The in-memory default is fine for tests and short-lived CLIs; swap with a
// file, disk, redis or encrypted store for anything that outlives the process.
type Store interface {
	Get(ctx context.Context, name Name) (string, bool)
	Set(ctx context.Context, name Name, value string) error
	Clear(ctx context.Context, name Name) error
}

// Pair is the access/refresh credential pair, opaque to the client.
type Pair struct {
	AccessToken  string `json:"access_token" yaml:"access_token"`
	RefreshToken string `json:"refresh_token" yaml:"refresh_token"`
}

// Load returns the stored pair, ok is false unless both entries are present.
func Load(ctx context.Context, s Store) (*Pair, bool) {
	access, ok := s.Get(ctx, AccessToken)
	if !ok {
		return nil, false
	}
	refresh, ok := s.Get(ctx, RefreshToken)
	if !ok {
		return nil, false
	}
	return &Pair{AccessToken: access, RefreshToken: refresh}, true
}

// Save writes both entries of the pair.
func Save(ctx context.Context, s Store, pair *Pair) error {
	if err := s.Set(ctx, AccessToken, pair.AccessToken); err != nil {
		return err
	}
	return s.Set(ctx, RefreshToken, pair.RefreshToken)
}

// Erase clears both entries; erasing an empty store is a no-op.
func Erase(ctx context.Context, s Store) error {
	for _, name := range Names {
		if err := s.Clear(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

type MemoryStoreOption func(*memoryStore)

// WithPair seeds the memory store with a credential pair.
func WithPair(pair *Pair) MemoryStoreOption {
	return func(m *memoryStore) {
		m.values[AccessToken] = pair.AccessToken
		m.values[RefreshToken] = pair.RefreshToken
	}
}

type memoryStore struct {
	mu     sync.RWMutex
	values map[Name]string
}

func (m *memoryStore) Get(_ context.Context, name Name) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[name]
	return value, ok
}

func (m *memoryStore) Set(_ context.Context, name Name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = value
	return nil
}

func (m *memoryStore) Clear(_ context.Context, name Name) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, name)
	return nil
}

func NewMemoryStore(options ...MemoryStoreOption) Store {
	ret := &memoryStore{values: map[Name]string{}}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
