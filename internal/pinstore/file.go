// ABOUTME: JSON file persistence for the pin store
// ABOUTME: One document per installation; loads degrade to empty, saves are atomic temp-file renames

package pinstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rebble/pinsync/internal/pin"
)

// StoreFileName is the backing document's name inside the installation's
// data directory.
const StoreFileName = "timeline-pins.json"

// FileStore reads and writes the backing JSON document for one installation.
// The on-disk shape is {token: [pinObject...]} where each pin object is the
// caller's original payload plus a _stored insertion timestamp.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by the given file path. The file
// and its directory need not exist yet; Save creates them.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the backing file into a Store. A missing file yields an empty
// store and no error. An unreadable or unparsable file yields an empty store
// and an error wrapping ErrCorruptStore — recoverable by design, the caller
// logs it and proceeds.
func (f *FileStore) Load() (Store, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Store{}, nil
		}
		return Store{}, fmt.Errorf("%w: reading %s: %v", ErrCorruptStore, f.path, err)
	}

	var raw map[string][]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Store{}, fmt.Errorf("%w: parsing %s: %v", ErrCorruptStore, f.path, err)
	}

	store := make(Store, len(raw))
	for token, entries := range raw {
		coll := make(Collection, 0, len(entries))
		for _, fields := range entries {
			coll = append(coll, pin.FromStored(fields))
		}
		store[token] = coll
	}
	return store, nil
}

// Save serializes the whole store and replaces the backing file in one
// rename, so readers never observe a partial document. Failures wrap
// ErrPersist; the in-memory store is unaffected either way.
func (f *FileStore) Save(s Store) error {
	raw := make(map[string][]map[string]any, len(s))
	for token, coll := range s {
		entries := make([]map[string]any, 0, len(coll))
		for _, p := range coll {
			entries = append(entries, p.Stored())
		}
		raw[token] = entries
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding: %v", ErrPersist, err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrPersist, dir, err)
	}

	tmp, err := os.CreateTemp(dir, StoreFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
