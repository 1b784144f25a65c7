// Package civil provides naive calendar value types: dates, times of day,
// and date-times with no attached UTC offset.
//
// A civil value names a position on a wall clock and calendar, nothing more.
// Whether a given civil value corresponds to zero, one, or two absolute
// instants depends on a timezone's DST transition rules, which live in
// tzrules; this package deliberately knows nothing about zones.
//
// All types are small comparable structs. Arithmetic ("naive" arithmetic)
// treats the calendar as if every local day had exactly 24 hours: adding an
// hour to 2015-11-01 01:30:00 yields 02:30:00 regardless of any fall-back
// transition in between. Callers that need absolute-time arithmetic must
// resolve through a transition table first.
package civil
