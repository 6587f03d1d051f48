package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/viant/afs"
)

// FileStore persists the credential pair as a JSON snapshot at an afs URL
// (local path, file:// or mem://). The snapshot is rewritten on every
// mutation and reloaded on construction, so credentials survive restarts.
type FileStore struct {
	backend
	mu     sync.RWMutex
	URL    string
	fs     afs.Service
	values map[Name]string
}

// NewFileStore creates a Store backed by the snapshot at URL. A missing or
// unreadable snapshot yields an empty store.
func NewFileStore(ctx context.Context, URL string, options ...Option) *FileStore {
	ret := &FileStore{
		backend: newBackend(options),
		URL:     URL,
		fs:      afs.New(),
		values:  map[Name]string{},
	}
	if err := ret.load(ctx); err != nil {
		ret.log.WithError(err).WithField("url", URL).Warn("failed to load credentials, starting without a session")
	}
	return ret
}

func (f *FileStore) Get(_ context.Context, name Name) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	value, ok := f.values[name]
	return value, ok
}

func (f *FileStore) Set(ctx context.Context, name Name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] = value
	return f.save(ctx)
}

func (f *FileStore) Clear(ctx context.Context, name Name) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[name]; !ok {
		return nil
	}
	delete(f.values, name)
	return f.save(ctx)
}

// ---- persistence ----

type fileSnapshot struct {
	Values map[Name]string `json:"values"`
}

func (f *FileStore) save(ctx context.Context) error {
	data, err := json.MarshalIndent(fileSnapshot{Values: f.values}, "", "  ")
	if err != nil {
		return err
	}
	if err = f.fs.Upload(ctx, f.URL, 0o600, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save credentials to %v: %w", f.URL, err)
	}
	return nil
}

func (f *FileStore) load(ctx context.Context) error {
	exists, err := f.fs.Exists(ctx, f.URL)
	if err != nil || !exists {
		return err
	}
	data, err := f.fs.DownloadWithURL(ctx, f.URL)
	if err != nil {
		return err
	}
	var snap fileSnapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return err
	}
	for k, v := range snap.Values {
		f.values[k] = v
	}
	return nil
}
