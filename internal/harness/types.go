package harness

import "time"

// instantLayout is the fixed-width serialization for instants in traces.
// Constant width keeps golden files diffable.
const instantLayout = "2006-01-02T15:04:05.000000000Z07:00"

// TraceEvent records one streamer operation and what it produced.
type TraceEvent struct {
	Seq       int    `json:"seq"`
	Op        string `json:"op"`
	Arg       string `json:"arg,omitempty"`
	Instant   string `json:"instant,omitempty"`
	Delta     string `json:"delta,omitempty"`
	DayRolled bool   `json:"day_rolled,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success: every expect clause
	// matched and no step failed unexpectedly.
	Pass bool `json:"pass"`

	// StreamToken identifies the logical sequence this run modeled.
	StreamToken string `json:"stream_token,omitempty"`

	// Trace contains every operation in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation mismatches. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(token string) *Result {
	return &Result{
		Pass:        true,
		StreamToken: token,
		Trace:       []TraceEvent{},
		Errors:      []string{},
	}
}

// AddError records an expectation mismatch and marks the result failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addEvent appends a trace event, stamping the next sequence number.
func (r *Result) addEvent(ev TraceEvent) *TraceEvent {
	ev.Seq = len(r.Trace) + 1
	r.Trace = append(r.Trace, ev)
	return &r.Trace[len(r.Trace)-1]
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(instantLayout)
}
