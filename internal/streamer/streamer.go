package streamer

import (
	"time"

	"civseq/internal/civil"
	"civseq/internal/tzrules"
)

// tickUnit is the smallest representable sub-second advance, used to force
// strict ordering between reads that saw no new assignment.
const tickUnit = time.Nanosecond

// streamState is the read-path state machine. The first read after any
// assignment must emit the assigned instant unchanged; every later read
// must tick first.
type streamState uint8

const (
	stateJustSet streamState = iota
	stateTicking
)

// RollPolicy selects how a time-of-day assignment treats a reading that
// would move absolute time backward on the same date.
type RollPolicy int

const (
	// RollForward advances the date by one day when the same-day reading
	// would produce an earlier instant than the current state.
	RollForward RollPolicy = iota

	// RollNone assigns the same-day reading unconditionally; the
	// resulting delta may be negative.
	RollNone
)

func (p RollPolicy) String() string {
	switch p {
	case RollForward:
		return "forward"
	case RollNone:
		return "none"
	default:
		return "RollPolicy(?)"
	}
}

// TimeStreamer turns a stream of civil-time assignments into a strictly
// increasing sequence of UTC instants. See the package documentation for
// the state machine and the ambiguity memory.
type TimeStreamer struct {
	rules     *tzrules.Rules
	civil     civil.DateTime
	fraction  time.Duration // sub-second ticks, always in [0, 1s)
	delta     time.Duration
	state     streamState
	dayRolled bool
	second    bool // current reading is the later fall-back occurrence
}

// New creates a streamer starting at the Unix epoch (1970-01-01 00:00:00
// civil time). rules is shared and never mutated.
func New(rules *tzrules.Rules) *TimeStreamer {
	return &TimeStreamer{
		rules: rules,
		civil: civil.DateTime{
			Date: civil.Date{Year: 1970, Month: time.January, Day: 1},
		},
	}
}

// NewAt creates a streamer starting at an explicit civil time. The start
// must exist in the zone.
func NewAt(rules *tzrules.Rules, dt civil.DateTime) (*TimeStreamer, error) {
	if rules.Classify(dt) == tzrules.Nonexistent {
		return nil, nonexistentLocalTimeError(rules.Name(), dt)
	}
	return &TimeStreamer{rules: rules, civil: dt}, nil
}

// SetDateTime assigns a full civil date-time.
//
// Assigning the value already held is a no-op except that the delta
// becomes zero; fraction and flags keep their state from the previous
// assignment. A reading inside the spring-forward gap fails with
// ErrCodeNonexistentLocalTime and mutates nothing.
//
// The delta after a successful assignment is the naive difference to the
// previous civil time.
func (ts *TimeStreamer) SetDateTime(dt civil.DateTime) error {
	if dt == ts.civil {
		ts.delta = 0
		return nil
	}
	if ts.rules.Classify(dt) == tzrules.Nonexistent {
		return nonexistentLocalTimeError(ts.rules.Name(), dt)
	}
	ts.second = ts.occurrenceFor(dt)
	ts.delta = dt.Sub(ts.civil)
	ts.civil = dt
	ts.fraction = 0
	ts.state = stateJustSet
	ts.dayRolled = false
	return nil
}

// SetDate rewrites the date portion, preserving the stored time of day.
func (ts *TimeStreamer) SetDate(d civil.Date) error {
	return ts.SetDateTime(civil.DateTime{Date: d, Time: ts.civil.Time})
}

// SetTimeOfDay rewrites the time of day, preserving the stored date.
//
// Under RollForward, a same-day reading whose absolute instant would
// precede the current state's instant advances the date by one day; the
// delta is then the true absolute-instant difference and DayRolled reports
// true until the next read or assignment. Under RollNone the same-day
// reading is assigned unconditionally.
func (ts *TimeStreamer) SetTimeOfDay(tod civil.TimeOfDay, roll RollPolicy) error {
	cand := civil.DateTime{Date: ts.civil.Date, Time: tod}
	if roll != RollForward {
		return ts.SetDateTime(cand)
	}
	if cand == ts.civil {
		ts.delta = 0
		return nil
	}
	if ts.rules.Classify(cand) == tzrules.Nonexistent {
		return nonexistentLocalTimeError(ts.rules.Name(), cand)
	}
	prev := resolveCivil(ts.rules, ts.civil, ts.second)
	candInstant := resolveCivil(ts.rules, cand, ts.occurrenceFor(cand))
	if !candInstant.Before(prev) {
		return ts.SetDateTime(cand)
	}
	rolled := civil.DateTime{Date: ts.civil.Date.AddDays(1), Time: tod}
	if err := ts.SetDateTime(rolled); err != nil {
		return err
	}
	ts.delta = resolveCivil(ts.rules, ts.civil, ts.second).Sub(prev)
	ts.dayRolled = true
	return nil
}

// Add advances the civil time by d. Whole seconds go into the calendar
// value; any sub-second remainder folds into the fraction, which stays in
// [0, 1s). The delta accumulates d on top of its previous value, and the
// read-path state is left alone.
func (ts *TimeStreamer) Add(d time.Duration) {
	total := ts.fraction + d
	carry := total.Truncate(time.Second)
	frac := total - carry
	if frac < 0 {
		carry -= time.Second
		frac += time.Second
	}
	ts.civil = ts.civil.Add(carry)
	ts.fraction = frac
	ts.delta += d
}

// Now projects the current state to a UTC instant without mutating
// anything.
func (ts *TimeStreamer) Now() time.Time {
	return resolveCivil(ts.rules, ts.civil, ts.second).Add(ts.fraction)
}

// Next returns the next instant in the sequence. The first read after an
// assignment emits the assigned instant unchanged; every later read ticks
// the fraction first, so reads without an intervening assignment strictly
// increase. Ticking reads also clear DayRolled.
func (ts *TimeStreamer) Next() time.Time {
	if ts.state == stateJustSet {
		ts.state = stateTicking
		return ts.Now()
	}
	ts.tick()
	ts.dayRolled = false
	return ts.Now()
}

// Delta returns the duration computed by the most recent assignment or
// tick.
func (ts *TimeStreamer) Delta() time.Duration {
	return ts.delta
}

// DayRolled reports whether the most recent time-of-day assignment
// advanced the date.
func (ts *TimeStreamer) DayRolled() bool {
	return ts.dayRolled
}

// Civil returns the last assigned civil time.
func (ts *TimeStreamer) Civil() civil.DateTime {
	return ts.civil
}

// SecondOccurrence reports whether the current reading is interpreted as
// the later of the two fall-back occurrences.
func (ts *TimeStreamer) SecondOccurrence() bool {
	return ts.second
}

// Zone returns the injected rule table.
func (ts *TimeStreamer) Zone() *tzrules.Rules {
	return ts.rules
}

// tick advances the fraction by exactly one tick and records it as the
// delta. A full second's worth of accumulated ticks carries into the
// civil value to keep the fraction invariant.
func (ts *TimeStreamer) tick() {
	ts.fraction += tickUnit
	ts.delta = tickUnit
	if ts.fraction >= time.Second {
		ts.civil = ts.civil.Add(time.Second)
		ts.fraction -= time.Second
	}
}

// occurrenceFor decides the fall-back occurrence flag that assigning next
// would leave behind, against the current civil time. A naive regression
// inside the same repeated-hour window marks the later occurrence; any
// assignment outside the window resets the memory.
func (ts *TimeStreamer) occurrenceFor(next civil.DateTime) bool {
	w, in := ts.rules.AmbiguousWindow(next)
	if !in {
		return false
	}
	if !w.Contains(ts.civil) {
		return false
	}
	if next.Before(ts.civil) {
		return true
	}
	return ts.second
}
