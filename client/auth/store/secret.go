package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/scy"
)

// DefaultSecretKey is the scy KMS key used when none is configured.
// The blowfish provider has to be registered by importing
// github.com/viant/scy/kms/blowfish.
const DefaultSecretKey = "blowfish://default"

type secretSnapshot struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// SecretStore keeps the pair encrypted at rest through scy.
type SecretStore struct {
	backend
	mu       sync.RWMutex
	fs       afs.Service
	secrets  *scy.Service
	resource *scy.Resource
	values   map[Name]string
}

// NewSecretStore creates an encrypted store at URL using the scy key
// (DefaultSecretKey when empty). Missing or undecryptable data yields an empty store.
func NewSecretStore(ctx context.Context, URL, key string, options ...Option) *SecretStore {
	if key == "" {
		key = DefaultSecretKey
	}
	ret := &SecretStore{
		backend:  newBackend(options),
		fs:       afs.New(),
		secrets:  scy.New(),
		resource: scy.NewResource(secretSnapshot{}, URL, key),
		values:   map[Name]string{},
	}
	if err := ret.load(ctx); err != nil {
		ret.log.WithError(err).WithField("url", URL).Warn("failed to load encrypted credentials, starting without a session")
	}
	return ret
}

func (s *SecretStore) Get(_ context.Context, name Name) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[name]
	return value, ok
}

func (s *SecretStore) Set(ctx context.Context, name Name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
	return s.save(ctx)
}

func (s *SecretStore) Clear(ctx context.Context, name Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[name]; !ok {
		return nil
	}
	delete(s.values, name)
	return s.save(ctx)
}

func (s *SecretStore) save(ctx context.Context) error {
	snap := &secretSnapshot{AccessToken: s.values[AccessToken], RefreshToken: s.values[RefreshToken]}
	if err := s.secrets.Store(ctx, scy.NewSecret(snap, s.resource)); err != nil {
		return fmt.Errorf("failed to store encrypted credentials: %w", err)
	}
	return nil
}

func (s *SecretStore) load(ctx context.Context) error {
	if exists, err := s.fs.Exists(ctx, s.resource.URL); err != nil || !exists {
		return err
	}
	secret, err := s.secrets.Load(ctx, s.resource)
	if err != nil {
		return err
	}
	snap, ok := secret.Target.(*secretSnapshot)
	if !ok {
		return fmt.Errorf("unexpected secret type %T", secret.Target)
	}
	if snap.AccessToken != "" {
		s.values[AccessToken] = snap.AccessToken
	}
	if snap.RefreshToken != "" {
		s.values[RefreshToken] = snap.RefreshToken
	}
	return nil
}
