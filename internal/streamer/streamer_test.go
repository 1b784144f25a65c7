package streamer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civseq/internal/civil"
	"civseq/internal/tzrules"
)

func mustDateTime(t *testing.T, s string) civil.DateTime {
	t.Helper()
	dt, err := civil.ParseDateTime(s)
	require.NoError(t, err)
	return dt
}

func mustTimeOfDay(t *testing.T, s string) civil.TimeOfDay {
	t.Helper()
	tod, err := civil.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func newLA(t *testing.T, start string) *TimeStreamer {
	t.Helper()
	ts, err := NewAt(tzrules.AmericaLosAngeles(), mustDateTime(t, start))
	require.NoError(t, err)
	return ts
}

func utc(year int, month time.Month, day, hour, min, sec, nsec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, nsec, time.UTC)
}

func TestNewStartsAtEpoch(t *testing.T) {
	ts := New(tzrules.Fixed("UTC", 0))
	assert.Equal(t, "1970-01-01 00:00:00", ts.Civil().String())
	assert.Equal(t, utc(1970, time.January, 1, 0, 0, 0, 0), ts.Now())
}

func TestNewAtRejectsGapTime(t *testing.T) {
	_, err := NewAt(tzrules.AmericaLosAngeles(), mustDateTime(t, "2005-04-03 02:14:00"))
	require.Error(t, err)
	assert.True(t, IsNonexistentLocalTime(err))
}

func TestMonotonicReads(t *testing.T) {
	ts := newLA(t, "2015-06-01 12:00:00")

	prev := ts.Next()
	for i := 0; i < 1000; i++ {
		next := ts.Next()
		require.True(t, next.After(prev), "read %d did not advance: %s !> %s", i, next, prev)
		prev = next
	}
}

func TestFirstReadAfterSetIsUnchanged(t *testing.T) {
	ts := newLA(t, "2015-06-01 12:00:00")

	require.NoError(t, ts.SetDateTime(mustDateTime(t, "2015-06-01 13:00:00")))
	want := utc(2015, time.June, 1, 20, 0, 0, 0)
	assert.Equal(t, want, ts.Next())

	// The second read ticks.
	assert.Equal(t, want.Add(time.Nanosecond), ts.Next())
	assert.Equal(t, time.Duration(time.Nanosecond), ts.Delta())
}

func TestSubTickUniqueness(t *testing.T) {
	ts := newLA(t, "2015-06-01 12:00:00")
	ts.Next()

	a := ts.Next()
	b := ts.Next()
	assert.True(t, b.After(a))
	assert.Equal(t, time.Nanosecond, b.Sub(a))
	assert.Equal(t, time.Duration(time.Nanosecond), ts.Delta())
}

func TestNowDoesNotMutate(t *testing.T) {
	ts := newLA(t, "2015-06-01 12:00:00")

	first := ts.Now()
	assert.Equal(t, first, ts.Now())
	assert.Equal(t, first, ts.Now())
	// Now does not consume the just-set state either.
	assert.Equal(t, first, ts.Next())
}

func TestIdempotentSetIsNoOp(t *testing.T) {
	ts := newLA(t, "2015-06-01 12:00:00")
	dt := mustDateTime(t, "2015-06-01 13:00:00")

	require.NoError(t, ts.SetDateTime(dt))
	require.NotZero(t, ts.Delta())

	require.NoError(t, ts.SetDateTime(dt))
	assert.Zero(t, ts.Delta())
	assert.Equal(t, dt, ts.Civil())

	// The just-set state from the first assignment is intact: the next
	// read still emits the assigned instant unchanged.
	assert.Equal(t, utc(2015, time.June, 1, 20, 0, 0, 0), ts.Next())
}

func TestIdempotentSetPreservesDayRolled(t *testing.T) {
	ts := newLA(t, "2005-01-01 12:14:00")
	tod := mustTimeOfDay(t, "11:14:00")

	require.NoError(t, ts.SetTimeOfDay(tod, RollForward))
	require.True(t, ts.DayRolled())

	// Re-assigning the identical time of day is a no-op beyond delta.
	require.NoError(t, ts.SetTimeOfDay(tod, RollForward))
	assert.Zero(t, ts.Delta())
	assert.True(t, ts.DayRolled())
}

func TestRollForwardAdvancesDate(t *testing.T) {
	ts := newLA(t, "2005-01-01 12:14:00")

	require.NoError(t, ts.SetTimeOfDay(mustTimeOfDay(t, "11:14:00"), RollForward))
	assert.Equal(t, "2005-01-02 11:14:00", ts.Civil().String())
	assert.True(t, ts.DayRolled())
	assert.Equal(t, 23*time.Hour, ts.Delta())
	assert.Equal(t, utc(2005, time.January, 2, 19, 14, 0, 0), ts.Now())
}

func TestRollNoneNeverRolls(t *testing.T) {
	ts := newLA(t, "2005-01-01 12:14:00")

	require.NoError(t, ts.SetTimeOfDay(mustTimeOfDay(t, "11:14:00"), RollNone))
	assert.Equal(t, "2005-01-01 11:14:00", ts.Civil().String())
	assert.False(t, ts.DayRolled())
	assert.Equal(t, -time.Hour, ts.Delta())
}

func TestRollForwardKeepsForwardAssignments(t *testing.T) {
	ts := newLA(t, "2005-01-01 12:14:00")

	require.NoError(t, ts.SetTimeOfDay(mustTimeOfDay(t, "13:14:00"), RollForward))
	assert.Equal(t, "2005-01-01 13:14:00", ts.Civil().String())
	assert.False(t, ts.DayRolled())
	assert.Equal(t, time.Hour, ts.Delta())
}

func TestDayRolledClearedByTickingRead(t *testing.T) {
	ts := newLA(t, "2005-01-01 12:14:00")

	require.NoError(t, ts.SetTimeOfDay(mustTimeOfDay(t, "11:14:00"), RollForward))
	require.True(t, ts.DayRolled())

	ts.Next() // first read, emits the assigned instant
	assert.True(t, ts.DayRolled())
	ts.Next() // ticking read clears the flag
	assert.False(t, ts.DayRolled())
}

func TestDayRolledClearedByAssignment(t *testing.T) {
	ts := newLA(t, "2005-01-01 12:14:00")

	require.NoError(t, ts.SetTimeOfDay(mustTimeOfDay(t, "11:14:00"), RollForward))
	require.True(t, ts.DayRolled())

	require.NoError(t, ts.SetDateTime(mustDateTime(t, "2005-01-02 12:00:00")))
	assert.False(t, ts.DayRolled())
}

func TestAmbiguousFallBackSequence(t *testing.T) {
	ts := newLA(t, "2015-11-01 00:30:00")

	// First assignment in the repeated hour resolves to the
	// pre-transition (DST) offset.
	require.NoError(t, ts.SetDateTime(mustDateTime(t, "2015-11-01 01:30:00")))
	assert.Equal(t, utc(2015, time.November, 1, 8, 30, 0, 0), ts.Now())
	assert.Equal(t, time.Hour, ts.Delta())
	assert.False(t, ts.SecondOccurrence())

	// A naive regression inside the window marks the repeated hour's
	// second pass: the reading is nudged one absolute hour forward.
	require.NoError(t, ts.SetDateTime(mustDateTime(t, "2015-11-01 01:00:00")))
	assert.Equal(t, utc(2015, time.November, 1, 9, 0, 0, 0), ts.Now())
	assert.Equal(t, -30*time.Minute, ts.Delta())
	assert.True(t, ts.SecondOccurrence())

	// Leaving the window resets the memory.
	require.NoError(t, ts.SetDateTime(mustDateTime(t, "2015-11-01 02:00:00")))
	assert.Equal(t, utc(2015, time.November, 1, 10, 0, 0, 0), ts.Now())
	assert.Equal(t, time.Hour, ts.Delta())
	assert.False(t, ts.SecondOccurrence())
}

func TestAmbiguousForwardMotionKeepsOccurrence(t *testing.T) {
	ts := newLA(t, "2015-11-01 00:30:00")

	// Forward motion inside the window stays on the first pass.
	require.NoError(t, ts.SetDateTime(mustDateTime(t, "2015-11-01 01:00:00")))
	assert.Equal(t, utc(2015, time.November, 1, 8, 0, 0, 0), ts.Now())
	require.NoError(t, ts.SetDateTime(mustDateTime(t, "2015-11-01 01:30:00")))
	assert.Equal(t, utc(2015, time.November, 1, 8, 30, 0, 0), ts.Now())
	assert.False(t, ts.SecondOccurrence())

	// Once the regression flips to the second pass, forward motion
	// inside the window stays there.
	require.NoError(t, ts.SetDateTime(mustDateTime(t, "2015-11-01 01:10:00")))
	assert.True(t, ts.SecondOccurrence())
	assert.Equal(t, utc(2015, time.November, 1, 9, 10, 0, 0), ts.Now())
	require.NoError(t, ts.SetDateTime(mustDateTime(t, "2015-11-01 01:20:00")))
	assert.True(t, ts.SecondOccurrence())
	assert.Equal(t, utc(2015, time.November, 1, 9, 20, 0, 0), ts.Now())
}

func TestNonexistentLocalTimeRejected(t *testing.T) {
	ts := newLA(t, "2005-04-03 01:30:00")
	before := *ts

	err := ts.SetDateTime(mustDateTime(t, "2005-04-03 02:14:00"))
	require.Error(t, err)
	assert.True(t, IsNonexistentLocalTime(err))

	var re *ResolveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeNonexistentLocalTime, re.Code)
	assert.Equal(t, "America/Los_Angeles", re.Zone)

	// No partial mutation.
	assert.Equal(t, before, *ts)
}

func TestNonexistentTimeOfDayRejected(t *testing.T) {
	ts := newLA(t, "2005-04-03 01:30:00")
	before := *ts

	err := ts.SetTimeOfDay(mustTimeOfDay(t, "02:14:00"), RollForward)
	require.Error(t, err)
	assert.True(t, IsNonexistentLocalTime(err))
	assert.Equal(t, before, *ts)

	err = ts.SetTimeOfDay(mustTimeOfDay(t, "02:14:00"), RollNone)
	require.Error(t, err)
	assert.True(t, IsNonexistentLocalTime(err))
	assert.Equal(t, before, *ts)
}

func TestAdditiveOffset(t *testing.T) {
	ts := newLA(t, "2015-06-01 12:00:00")

	require.NoError(t, ts.SetDateTime(mustDateTime(t, "2015-06-01 13:00:00")))
	prevDelta := ts.Delta()

	ts.Add(time.Millisecond)
	assert.Equal(t, prevDelta+time.Millisecond, ts.Delta())
	assert.Equal(t, utc(2015, time.June, 1, 20, 0, 0, int(time.Millisecond)), ts.Next())
}

func TestAddCarriesWholeSeconds(t *testing.T) {
	ts := newLA(t, "2015-06-01 12:00:00")

	ts.Add(600 * time.Millisecond)
	assert.Equal(t, "2015-06-01 12:00:00", ts.Civil().String())
	ts.Add(600 * time.Millisecond)
	assert.Equal(t, "2015-06-01 12:00:01", ts.Civil().String())
	assert.Equal(t, utc(2015, time.June, 1, 19, 0, 1, int(200*time.Millisecond)), ts.Now())
}

func TestAddNegative(t *testing.T) {
	ts := newLA(t, "2015-06-01 12:00:00")

	ts.Add(-1500 * time.Millisecond)
	assert.Equal(t, "2015-06-01 11:59:58", ts.Civil().String())
	assert.Equal(t, utc(2015, time.June, 1, 18, 59, 58, int(500*time.Millisecond)), ts.Now())
	assert.Equal(t, -1500*time.Millisecond, ts.Delta())
}

func TestAddKeepsReadState(t *testing.T) {
	ts := newLA(t, "2015-06-01 12:00:00")

	require.NoError(t, ts.SetDateTime(mustDateTime(t, "2015-06-01 13:00:00")))
	ts.Add(time.Millisecond)
	// The assignment's just-set state survives the relative advance, so
	// the first read emits the advanced instant unchanged.
	assert.Equal(t, utc(2015, time.June, 1, 20, 0, 0, int(time.Millisecond)), ts.Next())
}

func TestSetDatePreservesTimeOfDay(t *testing.T) {
	ts := newLA(t, "2005-01-01 12:14:00")

	d, err := civil.ParseDate("2005-03-15")
	require.NoError(t, err)
	require.NoError(t, ts.SetDate(d))
	assert.Equal(t, "2005-03-15 12:14:00", ts.Civil().String())
	assert.Equal(t, 73*24*time.Hour, ts.Delta())
}

func TestTickCarriesIntoCivilSecond(t *testing.T) {
	ts := newLA(t, "2015-06-01 12:00:00")
	ts.Add(time.Second - time.Nanosecond)

	ts.Next() // consumes the just-set state of construction
	ts.Next() // tick carries the fraction into the civil second
	assert.Equal(t, "2015-06-01 12:00:01", ts.Civil().String())
	assert.Equal(t, utc(2015, time.June, 1, 19, 0, 1, 0), ts.Now())
}

func TestDeltaAcrossSpringForwardSet(t *testing.T) {
	ts := newLA(t, "2015-03-08 01:30:00")

	// The naive difference skips nothing: 01:30 standard to 03:30 DST is
	// two naive hours even though only one absolute hour elapsed.
	require.NoError(t, ts.SetDateTime(mustDateTime(t, "2015-03-08 03:30:00")))
	assert.Equal(t, 2*time.Hour, ts.Delta())
	assert.Equal(t, utc(2015, time.March, 8, 10, 30, 0, 0), ts.Now())
}

func TestFixedZoneStreaming(t *testing.T) {
	ts, err := NewAt(tzrules.Fixed("Test/Fixed", 2*time.Hour), mustDateTime(t, "2015-11-01 01:30:00"))
	require.NoError(t, err)

	// No DST: the repeated-hour machinery never engages.
	assert.False(t, ts.SecondOccurrence())
	assert.Equal(t, utc(2015, time.October, 31, 23, 30, 0, 0), ts.Now())

	require.NoError(t, ts.SetDateTime(mustDateTime(t, "2015-11-01 01:00:00")))
	assert.False(t, ts.SecondOccurrence())
	assert.Equal(t, utc(2015, time.October, 31, 23, 0, 0, 0), ts.Now())
}

func TestZoneAccessor(t *testing.T) {
	rules := tzrules.AmericaLosAngeles()
	ts := New(rules)
	assert.Same(t, rules, ts.Zone())
}
