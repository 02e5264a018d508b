// ABOUTME: StoreCoordinator: one load→mutate→sweep→persist transaction per operation
// ABOUTME: Owns the per-file lock; all failures degrade to best-effort behavior

package pinstore

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rebble/pinsync/internal/pin"
)

// Persister is what the coordinator needs from the persistence layer. It is
// satisfied by FileStore and by test doubles that count writes.
type Persister interface {
	Load() (Store, error)
	Save(Store) error
	Path() string
}

// Coordinator serializes operations against one backing file. Every
// operation is a single session: load the store, apply the mutation, sweep
// expired pins, and persist if anything changed. The file is a best-effort
// mirror of the remote service, so load failures degrade to an empty store
// and persist failures are reported without rolling anything back.
type Coordinator struct {
	persister       Persister
	mu              *sync.Mutex
	retentionMonths int
	now             func() time.Time // injectable for deterministic tests
	logger          *slog.Logger
}

// NewCoordinator creates a coordinator for the backing file at path.
// retentionMonths of 0 selects DefaultRetentionMonths.
func NewCoordinator(path string, retentionMonths int, logger *slog.Logger) *Coordinator {
	return newCoordinator(NewFileStore(path), retentionMonths, logger)
}

// NewCoordinatorWith is NewCoordinator with an explicit persistence layer.
func NewCoordinatorWith(p Persister, retentionMonths int, logger *slog.Logger) *Coordinator {
	return newCoordinator(p, retentionMonths, logger)
}

func newCoordinator(p Persister, retentionMonths int, logger *slog.Logger) *Coordinator {
	if retentionMonths <= 0 {
		retentionMonths = DefaultRetentionMonths
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		persister:       p,
		mu:              lockFor(p.Path()),
		retentionMonths: retentionMonths,
		now:             time.Now,
		logger:          logger.With("component", "pinstore"),
	}
}

// AddPin upserts p into the token's collection and persists unconditionally
// (an add always changes state). Expired pins across all tokens are swept in
// the same write. The returned error, if any, wraps ErrPersist; the caller
// should surface it as a warning, not treat the add as failed.
func (c *Coordinator) AddPin(token string, p pin.Pin) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	store := c.load()
	now := c.now()

	coll, replaced := store[token].Upsert(p, now)
	store[token] = coll
	swept := SweepAll(store, now, c.retentionMonths)

	c.logger.Debug("pin added",
		"id", p.ID,
		"replaced", replaced,
		"swept", swept,
	)
	return c.save(store)
}

// DeletePin removes the pin with the given id from the token's collection.
// The file is written only when the delete or the accompanying retention
// sweep actually removed something; a delete of an unknown id costs no disk
// write. Reports whether the pin existed locally.
func (c *Coordinator) DeletePin(token, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	store := c.load()
	now := c.now()

	coll, removed := store[token].Remove(id)
	if removed > 0 {
		if len(coll) == 0 {
			delete(store, token)
		} else {
			store[token] = coll
		}
	}
	swept := SweepAll(store, now, c.retentionMonths)

	if removed == 0 && swept == 0 {
		return false, nil
	}
	c.logger.Debug("pin delete persisted",
		"id", id,
		"removed", removed,
		"swept", swept,
	)
	return removed > 0, c.save(store)
}

// ListPins returns the token's pins whose event time falls in [from, to],
// both bounds optional and inclusive. Pure read: no sweep, no write. An
// unknown token — or a store that failed to load — yields an empty slice.
func (c *Coordinator) ListPins(token string, from, to *time.Time) []pin.Pin {
	c.mu.Lock()
	defer c.mu.Unlock()

	store := c.load()
	return store[token].InRange(from, to)
}

// load reads the backing file, degrading a corrupt file to an empty store.
func (c *Coordinator) load() Store {
	store, err := c.persister.Load()
	if err != nil {
		c.logger.Warn("pin store unreadable, starting empty",
			"path", c.persister.Path(),
			"error", err,
		)
	}
	return store
}

// save writes the store back, logging and returning the failure without
// unwinding the in-memory mutation.
func (c *Coordinator) save(store Store) error {
	if err := c.persister.Save(store); err != nil {
		c.logger.Warn("pin store write failed",
			"path", c.persister.Path(),
			"error", err,
		)
		return err
	}
	return nil
}
