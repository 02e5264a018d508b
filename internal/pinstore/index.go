// ABOUTME: In-memory operations on a single token's pin collection
// ABOUTME: Upsert, delete-by-id, and inclusive range queries over event time

package pinstore

import (
	"time"

	"github.com/rebble/pinsync/internal/pin"
)

// Upsert inserts p into the collection, replacing any existing pin with the
// same id. The new entry is stamped with now as its storage time, replacing
// any prior stamp. Reports whether an existing pin was replaced.
func (c Collection) Upsert(p pin.Pin, now time.Time) (Collection, bool) {
	out, removed := c.Remove(p.ID)
	p.StoredAt = now
	return append(out, p), removed > 0
}

// Remove deletes the pin with the given id if present and reports how many
// entries were removed (0 or 1). Removing an absent id is a silent no-op.
func (c Collection) Remove(id string) (Collection, int) {
	for i, p := range c {
		if p.ID == id {
			out := make(Collection, 0, len(c)-1)
			out = append(out, c[:i]...)
			return append(out, c[i+1:]...), 1
		}
	}
	return c, 0
}

// InRange returns the pins whose event time falls within [from, to],
// inclusive on each bound that is non-nil. With both bounds nil every pin is
// returned. When a bound is given, pins whose event time could not be parsed
// are excluded rather than guessed at.
func (c Collection) InRange(from, to *time.Time) []pin.Pin {
	if from == nil && to == nil {
		return append([]pin.Pin(nil), c...)
	}
	var out []pin.Pin
	for _, p := range c {
		if p.EventTime.IsZero() {
			continue
		}
		if from != nil && p.EventTime.Before(*from) {
			continue
		}
		if to != nil && p.EventTime.After(*to) {
			continue
		}
		out = append(out, p)
	}
	return out
}
