// Package tzrules supplies DST transition tables for the sequencer.
//
// A Rules value is an immutable description of one zone: its standard and
// DST offsets from UTC and an ordered list of yearly transition instants.
// The sequencer consumes the table through a narrow query surface, chiefly
// Classify, which sorts a civil date-time into one of three buckets:
//
//   - Ordinary: exactly one absolute instant matches the reading
//   - Ambiguous: the reading repeats during the fall-back hour
//   - Nonexistent: the reading is skipped by the spring-forward gap
//
// Tables are configuration, not computation: this package ships a few
// built-in rule sets generated from the statutory US and EU weekday rules,
// and a YAML loader for synthetic zones used in tests. It does not load,
// cache, or otherwise manage a timezone database, and a Rules value is
// never mutated after construction, so it is safe to share across any
// number of streamers.
//
// Coverage is bounded by the transition list. Civil times in years the
// table does not cover resolve with the standard offset and classify as
// Ordinary; correctness outside coverage is not guaranteed.
package tzrules
