package store

import (
	"context"
	"errors"
	"io/fs"

	"github.com/peterbourgon/diskv/v3"
)

// DiskStore keeps one file per credential under a profile directory.
type DiskStore struct {
	backend
	dv *diskv.Diskv
}

// NewDiskStore creates a store rooted at the profile directory dir.
// Reads are not cached: other processes may share the profile.
func NewDiskStore(dir string, options ...Option) *DiskStore {
	flatTransform := func(s string) []string { return []string{} }
	return &DiskStore{
		backend: newBackend(options),
		dv: diskv.New(diskv.Options{
			BasePath:     dir,
			Transform:    flatTransform,
			CacheSizeMax: 0,
			FilePerm:     0o600,
			PathPerm:     0o700,
		}),
	}
}

func (d *DiskStore) Get(_ context.Context, name Name) (string, bool) {
	data, err := d.dv.Read(string(name))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			d.log.WithError(err).WithField("name", name).Warn("failed to read credential")
		}
		return "", false
	}
	return string(data), true
}

func (d *DiskStore) Set(_ context.Context, name Name, value string) error {
	return d.dv.Write(string(name), []byte(value))
}

func (d *DiskStore) Clear(_ context.Context, name Name) error {
	err := d.dv.Erase(string(name))
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
