package civil

import (
	"fmt"
	"time"
)

// Canonical layouts accepted by the parsing helpers.
const (
	DateLayout      = "2006-01-02"
	TimeOfDayLayout = "15:04:05"
	DateTimeLayout  = "2006-01-02 15:04:05"
)

// Date is a calendar date with no time-of-day and no offset.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar date from t, read in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a date in the form "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// IsValid reports whether the date names a real calendar day.
func (d Date) IsValid() bool {
	return DateOf(d.midnightUTC()) == d
}

// AddDays returns the date n days after d, normalized across month and
// year boundaries.
func (d Date) AddDays(n int) Date {
	return DateOf(d.midnightUTC().AddDate(0, 0, n))
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) midnightUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// TimeOfDay is a wall-clock reading with second precision and no offset.
// Sub-second precision belongs to the streamer's fraction, not to the
// civil value.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// TimeOfDayOf extracts the wall-clock reading from t, read in t's location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay{Hour: h, Minute: m, Second: s}
}

// ParseTimeOfDay parses a time of day in the form "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(TimeOfDayLayout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return TimeOfDayOf(t), nil
}

// IsValid reports whether the reading is on a 24-hour clock.
func (t TimeOfDay) IsValid() bool {
	return t.Hour >= 0 && t.Hour < 24 &&
		t.Minute >= 0 && t.Minute < 60 &&
		t.Second >= 0 && t.Second < 60
}

// Before reports whether t is earlier on the clock face than o.
func (t TimeOfDay) Before(o TimeOfDay) bool {
	if t.Hour != o.Hour {
		return t.Hour < o.Hour
	}
	if t.Minute != o.Minute {
		return t.Minute < o.Minute
	}
	return t.Second < o.Second
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// DateTime is a naive calendar date-time: a Date plus a TimeOfDay, with no
// attached offset. DateTime is comparable; two values are equal exactly
// when all calendar fields match.
type DateTime struct {
	Date Date
	Time TimeOfDay
}

// DateTimeOf extracts the civil date-time from t, read in t's location.
// Sub-second precision is dropped.
func DateTimeOf(t time.Time) DateTime {
	return DateTime{Date: DateOf(t), Time: TimeOfDayOf(t)}
}

// ParseDateTime parses a date-time in the form "2006-01-02 15:04:05".
func ParseDateTime(s string) (DateTime, error) {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return DateTime{}, fmt.Errorf("parse date-time %q: %w", s, err)
	}
	return DateTimeOf(t), nil
}

// UTC returns the instant that would correspond to dt if its wall clock
// were UTC. This is the carrier for naive arithmetic, not a resolution:
// mapping a civil time onto the real UTC timeline requires a transition
// table.
func (dt DateTime) UTC() time.Time {
	return time.Date(dt.Date.Year, dt.Date.Month, dt.Date.Day,
		dt.Time.Hour, dt.Time.Minute, dt.Time.Second, 0, time.UTC)
}

// Sub returns the naive difference dt - o, counting every local day as
// exactly 24 hours.
func (dt DateTime) Sub(o DateTime) time.Duration {
	return dt.UTC().Sub(o.UTC())
}

// Add returns dt advanced by d on the naive calendar. d must be a whole
// number of seconds; sub-second amounts are the streamer's concern and are
// truncated here.
func (dt DateTime) Add(d time.Duration) DateTime {
	return DateTimeOf(dt.UTC().Add(d.Truncate(time.Second)))
}

// Before reports whether dt is naively earlier than o.
func (dt DateTime) Before(o DateTime) bool {
	return dt.UTC().Before(o.UTC())
}

// Compare orders two civil date-times naively: -1 if dt is earlier,
// 0 if equal, +1 if later.
func (dt DateTime) Compare(o DateTime) int {
	return dt.UTC().Compare(o.UTC())
}

// IsValid reports whether both the date and the time of day are in range.
func (dt DateTime) IsValid() bool {
	return dt.Date.IsValid() && dt.Time.IsValid()
}

func (dt DateTime) String() string {
	return dt.Date.String() + " " + dt.Time.String()
}
