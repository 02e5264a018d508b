// ABOUTME: Pin type and the single normalization boundary for caller-supplied pin objects
// ABOUTME: Coerces ids to strings and parses timestamps once so downstream code assumes well-formed data

package pin

import (
	"fmt"
	"time"
)

// Wire field names used by the timeline API and the backing file.
const (
	FieldID        = "id"
	FieldEventTime = "time"
	FieldStoredAt  = "_stored"
)

// MaxIDLength is the longest pin id the timeline service accepts.
const MaxIDLength = 64

// Pin is a single timeline pin as tracked by the local mirror.
//
// ID and EventTime are the only fields the store indexes on; everything else
// the caller supplied lives in Fields and passes through untouched. A zero
// EventTime means the caller's "time" field was absent or unparsable — such
// pins are kept but excluded from time-bounded queries. StoredAt is assigned
// by the store when the pin is inserted, never by the caller.
type Pin struct {
	ID        string
	EventTime time.Time
	StoredAt  time.Time
	Fields    map[string]any
}

// FromCaller normalizes a caller-supplied pin object into a Pin.
//
// The id field is coerced to a string (callers occasionally produce numeric
// ids), and the event time is parsed once here. No other validation happens:
// payload shape belongs to the remote service, not the mirror.
func FromCaller(fields map[string]any) Pin {
	p := Pin{Fields: fields}
	if fields == nil {
		p.Fields = map[string]any{}
		return p
	}
	if raw, ok := fields[FieldID]; ok {
		p.ID = CoerceID(raw)
	}
	if raw, ok := fields[FieldEventTime]; ok {
		p.EventTime = parseTime(raw)
	}
	return p
}

// FromStored normalizes a pin object read back from the backing file. The
// _stored bookkeeping field is extracted into StoredAt and removed from
// Fields so round-trips do not accumulate duplicates.
func FromStored(fields map[string]any) Pin {
	var storedAt time.Time
	if raw, ok := fields[FieldStoredAt]; ok {
		storedAt = parseTime(raw)
		delete(fields, FieldStoredAt)
	}
	p := FromCaller(fields)
	p.StoredAt = storedAt
	return p
}

// Stored returns the wire form of the pin for the backing file: the original
// fields plus _stored recording the insertion time.
func (p Pin) Stored() map[string]any {
	out := make(map[string]any, len(p.Fields)+1)
	for k, v := range p.Fields {
		out[k] = v
	}
	if !p.StoredAt.IsZero() {
		out[FieldStoredAt] = p.StoredAt.UTC().Format(time.RFC3339)
	}
	return out
}

// CoerceID renders any caller-supplied id value as a string key.
func CoerceID(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case nil:
		return ""
	case float64:
		// JSON numbers decode as float64; integral ids must not grow a ".0" suffix.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprint(v)
	default:
		return fmt.Sprint(v)
	}
}

// parseTime interprets a stored timestamp value. Anything that is not an
// RFC3339 string (or a time.Time already) yields the zero time, which the
// store treats as "malformed" rather than an error.
func parseTime(raw any) time.Time {
	switch v := raw.(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
