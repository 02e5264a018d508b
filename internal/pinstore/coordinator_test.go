// ABOUTME: Tests for the store coordinator's load→mutate→sweep→persist cycle.
// ABOUTME: Uses a counting persister to verify exactly when the file is written.

package pinstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingPersister wraps a FileStore and counts Save calls; optionally it
// fails every save to exercise the degraded path.
type countingPersister struct {
	inner    *FileStore
	saves    int
	failSave bool
}

func (c *countingPersister) Load() (Store, error) { return c.inner.Load() }

func (c *countingPersister) Save(s Store) error {
	c.saves++
	if c.failSave {
		return fmt.Errorf("%w: disk full", ErrPersist)
	}
	return c.inner.Save(s)
}

func (c *countingPersister) Path() string { return c.inner.Path() }

func newTestCoordinator(t *testing.T) (*Coordinator, *countingPersister) {
	t.Helper()
	p := &countingPersister{inner: NewFileStore(filepath.Join(t.TempDir(), StoreFileName))}
	return NewCoordinatorWith(p, 0, nil), p
}

func TestCoordinator_AddPin_Persists(t *testing.T) {
	coord, p := newTestCoordinator(t)

	err := coord.AddPin("token-a", makePin("p1", "2024-06-15T12:00:00Z"))

	require.NoError(t, err)
	assert.Equal(t, 1, p.saves)
	assert.Len(t, coord.ListPins("token-a", nil, nil), 1)
}

func TestCoordinator_AddPin_Upserts(t *testing.T) {
	coord, _ := newTestCoordinator(t)

	require.NoError(t, coord.AddPin("token-a", makePin("p1", "2024-06-15T12:00:00Z")))
	require.NoError(t, coord.AddPin("token-a", makePin("p1", "2024-06-16T12:00:00Z")))

	pins := coord.ListPins("token-a", nil, nil)
	require.Len(t, pins, 1)
	assert.Equal(t, "2024-06-16T12:00:00Z", pins[0].Fields["time"])
}

func TestCoordinator_CrossTokenIsolation(t *testing.T) {
	coord, _ := newTestCoordinator(t)

	require.NoError(t, coord.AddPin("token-a", makePin("p1", "2024-06-15T12:00:00Z")))

	assert.Empty(t, coord.ListPins("token-b", nil, nil))
}

func TestCoordinator_DeletePin(t *testing.T) {
	coord, _ := newTestCoordinator(t)
	require.NoError(t, coord.AddPin("token-a", makePin("p1", "2024-06-15T12:00:00Z")))

	removed, err := coord.DeletePin("token-a", "p1")

	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, coord.ListPins("token-a", nil, nil))
}

func TestCoordinator_DeletePin_UnknownID_NoWrite(t *testing.T) {
	coord, p := newTestCoordinator(t)
	require.NoError(t, coord.AddPin("token-a", makePin("p1", "2024-06-15T12:00:00Z")))
	savesAfterAdd := p.saves

	removed, err := coord.DeletePin("token-a", "nonexistent-id")

	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, savesAfterAdd, p.saves, "delete of unknown id must not write the file")
}

func TestCoordinator_DeletePin_UnknownToken(t *testing.T) {
	coord, p := newTestCoordinator(t)

	removed, err := coord.DeletePin("never-seen", "p1")

	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 0, p.saves)
}

func TestCoordinator_ListPins_NoWrite(t *testing.T) {
	coord, p := newTestCoordinator(t)
	require.NoError(t, coord.AddPin("token-a", makePin("p1", "2024-06-15T12:00:00Z")))
	savesAfterAdd := p.saves

	coord.ListPins("token-a", nil, nil)

	assert.Equal(t, savesAfterAdd, p.saves)
}

func TestCoordinator_ListPins_RangeBounds(t *testing.T) {
	coord, _ := newTestCoordinator(t)
	require.NoError(t, coord.AddPin("token-a", makePin("p1", "2024-06-15T12:00:00Z")))
	require.NoError(t, coord.AddPin("token-a", makePin("p2", "2024-07-01T09:00:00Z")))

	from := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC)
	pins := coord.ListPins("token-a", &from, &to)

	require.Len(t, pins, 1)
	assert.Equal(t, "p1", pins[0].ID)
}

func TestCoordinator_CorruptFile_ListsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), StoreFileName)
	require.NoError(t, os.WriteFile(path, []byte("%%% definitely not json"), 0o644))
	coord := NewCoordinator(path, 0, nil)

	// Indistinguishable from a genuinely empty store
	assert.Empty(t, coord.ListPins("any-token", nil, nil))
}

func TestCoordinator_CorruptFile_AddRecovers(t *testing.T) {
	path := filepath.Join(t.TempDir(), StoreFileName)
	require.NoError(t, os.WriteFile(path, []byte("%%%"), 0o644))
	coord := NewCoordinator(path, 0, nil)

	require.NoError(t, coord.AddPin("token-a", makePin("p1", "2024-06-15T12:00:00Z")))

	assert.Len(t, coord.ListPins("token-a", nil, nil), 1)
}

func TestCoordinator_AddPin_PersistFailureSurfaced(t *testing.T) {
	p := &countingPersister{
		inner:    NewFileStore(filepath.Join(t.TempDir(), StoreFileName)),
		failSave: true,
	}
	coord := NewCoordinatorWith(p, 0, nil)

	err := coord.AddPin("token-a", makePin("p1", "2024-06-15T12:00:00Z"))

	assert.True(t, errors.Is(err, ErrPersist))
}

func TestCoordinator_AddPin_SweepsAllTokens(t *testing.T) {
	coord, _ := newTestCoordinator(t)
	base := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	// Insert an old pin for token-b, then advance the clock past the window
	coord.now = func() time.Time { return base.AddDate(0, -2, 0) }
	require.NoError(t, coord.AddPin("token-b", makePin("stale", "2024-04-01T12:00:00Z")))

	coord.now = func() time.Time { return base }
	require.NoError(t, coord.AddPin("token-a", makePin("fresh", "2024-06-20T12:00:00Z")))

	// Mutating token-a garbage-collected token-b's expired pin too
	assert.Empty(t, coord.ListPins("token-b", nil, nil))
	assert.Len(t, coord.ListPins("token-a", nil, nil), 1)
}

func TestCoordinator_DeletePin_SweepsOpportunistically(t *testing.T) {
	coord, _ := newTestCoordinator(t)
	base := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	coord.now = func() time.Time { return base.AddDate(0, -2, 0) }
	require.NoError(t, coord.AddPin("token-b", makePin("stale", "2024-04-01T12:00:00Z")))

	coord.now = func() time.Time { return base }
	removed, err := coord.DeletePin("token-a", "absent")

	require.NoError(t, err)
	assert.False(t, removed)
	// The delete removed nothing, but the sweep did, so the write happened
	assert.Empty(t, coord.ListPins("token-b", nil, nil))
}

func TestCoordinator_ConcurrentOperations(t *testing.T) {
	coord, _ := newTestCoordinator(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("pin-%d", i)
			assert.NoError(t, coord.AddPin("token-a", makePin(id, "2024-06-15T12:00:00Z")))
			coord.ListPins("token-a", nil, nil)
		}(i)
	}
	wg.Wait()

	// The per-file lock serializes cycles, so no add is lost
	assert.Len(t, coord.ListPins("token-a", nil, nil), 20)
}

func TestCoordinator_SharedLockAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), StoreFileName)
	a := NewCoordinator(path, 0, nil)
	b := NewCoordinator(path, 0, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			coord := a
			if i%2 == 0 {
				coord = b
			}
			assert.NoError(t, coord.AddPin("t", makePin(fmt.Sprintf("p-%d", i), "2024-06-15T12:00:00Z")))
		}(i)
	}
	wg.Wait()

	assert.Len(t, a.ListPins("t", nil, nil), 10)
}
