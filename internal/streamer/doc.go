// Package streamer implements the monotonic civil-time sequencer.
//
// A TimeStreamer ingests a stream of naive calendar assignments, which may
// arrive out of order or repeat the same nominal value, and produces a
// strictly increasing sequence of UTC instants. The DST transition table
// it resolves against is an injected tzrules.Rules value; the streamer
// never computes or mutates zone data.
//
// ARCHITECTURE:
//
// Single-Writer Value Type:
// A streamer is one logical sequence (one log stream, one event source).
// It is not internally synchronized; callers that share a streamer across
// goroutines must serialize every Set/Add/Next themselves. No operation
// blocks or performs I/O, so there is no context, cancellation, or timeout
// surface.
//
// Read Path State Machine:
// The first-read-after-set behavior is a two-state machine, not a flag
// check. Assignments move the streamer to JustSet; the first Next in
// JustSet emits the assigned instant unchanged and moves to Ticking; every
// Next in Ticking advances the sub-second fraction by one tick before
// emitting. Add adjusts the calendar value without touching the state, so
// a relative advance between an assignment and its first read does not
// cost that read its emit-unchanged behavior. Successive reads without an
// intervening assignment therefore strictly increase even when the wall
// clock has not moved.
//
// Ambiguity Is Stateful:
// Resolving the repeated fall-back hour requires remembering whether the
// previous assignment already landed in the same window. That memory is
// the streamer's secondOccurrence flag, a deliberate exception to an
// otherwise pure resolution function: a naive regression inside the
// window marks every following in-window reading as the later of the two
// occurrences, until an assignment lands outside the window.
package streamer
