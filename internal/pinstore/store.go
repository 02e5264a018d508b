// ABOUTME: Core types and errors for the local pin mirror
// ABOUTME: A Store maps access tokens to ordered pin collections; the whole Store is the unit of persistence

package pinstore

import (
	"errors"

	"github.com/rebble/pinsync/internal/pin"
)

// Store errors. Both are degradations, not operation failures: a corrupt
// backing file is replaced by an empty store, and a persist failure leaves
// the in-memory mutation (and the remote action that triggered it) intact.
var (
	// ErrCorruptStore indicates the backing file existed but could not be
	// parsed. The loader substitutes an empty store.
	ErrCorruptStore = errors.New("pin store file is corrupt")

	// ErrPersist indicates the backing file could not be written.
	ErrPersist = errors.New("persisting pin store failed")
)

// Collection is one token's ordered sequence of pins. Order carries no
// meaning, but iteration is stable so tests stay deterministic.
type Collection []pin.Pin

// Store is the full local mirror: access token to pin collection.
type Store map[string]Collection

// TotalPins counts pins across every token's collection.
func (s Store) TotalPins() int {
	n := 0
	for _, coll := range s {
		n += len(coll)
	}
	return n
}
