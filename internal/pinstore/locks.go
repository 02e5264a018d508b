// ABOUTME: Process-wide mutex registry keyed by backing-file path
// ABOUTME: Serializes load→mutate→save cycles so concurrent operations cannot lose each other's writes

package pinstore

import (
	"path/filepath"
	"sync"
)

// pathLocks maps a canonical backing-file path to its mutex. Coordinators
// for the same file share one lock even when constructed independently.
var pathLocks sync.Map // string -> *sync.Mutex

// lockFor returns the mutex guarding the given backing file.
func lockFor(path string) *sync.Mutex {
	key := filepath.Clean(path)
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}
	mu, _ := pathLocks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
