// Package pinstore is the local mirror of timeline pins, one JSON document
// per installation, keyed by access token.
//
// # Architecture
//
//   - Store / Collection: the in-memory view, token → ordered pins
//   - FileStore: load/save of the backing document (atomic rename on save)
//   - Sweep / SweepAll: calendar-month retention eviction
//   - Coordinator: the only writer; one load→mutate→sweep→persist
//     transaction per operation, serialized by a per-file mutex
//
// # Consistency model
//
// The backing file is a best-effort cache of state the remote timeline
// service owns. Consequently every failure inside the package degrades
// rather than propagates: a corrupt file loads as empty (ErrCorruptStore is
// logged), a failed write leaves the in-memory mutation standing (ErrPersist
// is returned for the caller to surface as a warning), and queries against a
// token with no collection return nothing rather than erroring.
//
// Within one token's collection pin ids are unique: inserting an existing id
// replaces the prior entry and resets its storage timestamp. Pins whose
// stored timestamps are missing or unparsable are treated as expired by the
// sweep and excluded from time-bounded queries — tolerance for corrupt
// entries lives at the normalization boundary in package pin, so the logic
// here assumes well-formed values.
//
// # Backing file
//
// <dataDir>/pebble-timeline/timeline-pins.json, shaped as
//
//	{"<token>": [{"id": "...", "time": "...", ..., "_stored": "RFC3339"}]}
//
// where _stored records local insertion time and everything else is the
// caller's payload, untouched.
package pinstore
