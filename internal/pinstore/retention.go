// ABOUTME: Time-based eviction of pins past their local retention window
// ABOUTME: The window is whole calendar months, matching historical pin-lifetime expectations

package pinstore

import (
	"time"
)

// DefaultRetentionMonths is how many calendar months a pin survives locally
// after insertion before the next sweep evicts it.
const DefaultRetentionMonths = 1

// Sweep removes every pin whose storage time is older than months calendar
// months before now. The cutoff uses month-field arithmetic, not a fixed
// 30-day duration. Pins without a parseable storage stamp count as expired.
func Sweep(c Collection, now time.Time, months int) (Collection, int) {
	cutoff := now.AddDate(0, -months, 0)
	survivors := make(Collection, 0, len(c))
	removed := 0
	for _, p := range c {
		if p.StoredAt.IsZero() || p.StoredAt.Before(cutoff) {
			removed++
			continue
		}
		survivors = append(survivors, p)
	}
	return survivors, removed
}

// SweepAll applies Sweep to every token's collection in the store, dropping
// tokens whose collections empty out. Collections that are already empty are
// left alone. Returns the total number of pins evicted.
func SweepAll(s Store, now time.Time, months int) int {
	removed := 0
	for token, coll := range s {
		if len(coll) == 0 {
			continue
		}
		survivors, n := Sweep(coll, now, months)
		if n == 0 {
			continue
		}
		removed += n
		if len(survivors) == 0 {
			delete(s, token)
		} else {
			s[token] = survivors
		}
	}
	return removed
}
