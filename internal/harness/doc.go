// Package harness provides conformance testing for the civil-time
// sequencer.
//
// The harness loads a scenario, drives a fresh TimeStreamer through its
// steps, and validates per-step expectations against the instants, deltas,
// and flags the streamer produces.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	zone: America/Los_Angeles
//	start: "2015-11-01 00:30:00"
//	steps:
//	  - set: "2015-11-01 01:30:00"
//	    expect:
//	      instant: "2015-11-01T08:30:00Z"
//	      delta: 1h
//	  - set_time: "11:14:00"
//	    roll: none
//	  - add: 1ms
//	  - next: 2
//
// The zone is a built-in name or a path to a YAML rule file, resolved
// relative to the scenario file. Each step carries exactly one operation:
// set, set_date, set_time (with an optional roll policy), add, next (a
// read count), or now. An expect clause on a step with a read count
// applies to the final read.
//
// # Deterministic Testing
//
// A streamer is deterministic by construction, so every run of a scenario
// produces an identical trace. The trace serializes to canonical JSON for
// golden snapshot comparison; stream tokens default to a fixed value so
// golden files stay stable, and production replays stamp a generated
// token instead.
package harness
