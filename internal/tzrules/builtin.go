package tzrules

import (
	"sort"
	"time"
)

// Built-in coverage. Years outside this range classify as Ordinary with
// the standard offset.
const (
	usFirstYear = 1987
	euFirstYear = 1996
	lastYear    = 2040
)

// AmericaLosAngeles returns the rule table for US Pacific time.
func AmericaLosAngeles() *Rules {
	return usZone("America/Los_Angeles", -8*time.Hour)
}

// AmericaNewYork returns the rule table for US Eastern time.
func AmericaNewYork() *Rules {
	return usZone("America/New_York", -5*time.Hour)
}

// EuropeBerlin returns the rule table for Central European time.
func EuropeBerlin() *Rules {
	std := time.Hour
	transitions := make([]Transition, 0, lastYear-euFirstYear+1)
	for year := euFirstYear; year <= lastYear; year++ {
		// EU transitions happen at 01:00 UTC in every member zone.
		transitions = append(transitions, Transition{
			Year:     year,
			DSTStart: time.Date(year, time.March, lastWeekday(year, time.March, time.Sunday), 1, 0, 0, 0, time.UTC),
			DSTEnd:   time.Date(year, time.October, lastWeekday(year, time.October, time.Sunday), 1, 0, 0, 0, time.UTC),
		})
	}
	return mustZone("Europe/Berlin", std, transitions)
}

// usZone builds a US zone table: transitions at 02:00 local time, first
// Sunday of April through last Sunday of October up to 2006, second Sunday
// of March through first Sunday of November from 2007 on.
func usZone(name string, std time.Duration) *Rules {
	dst := std + time.Hour
	transitions := make([]Transition, 0, lastYear-usFirstYear+1)
	for year := usFirstYear; year <= lastYear; year++ {
		var startMonth, endMonth time.Month
		var startDay, endDay int
		if year < 2007 {
			startMonth, startDay = time.April, nthWeekday(year, time.April, time.Sunday, 1)
			endMonth, endDay = time.October, lastWeekday(year, time.October, time.Sunday)
		} else {
			startMonth, startDay = time.March, nthWeekday(year, time.March, time.Sunday, 2)
			endMonth, endDay = time.November, nthWeekday(year, time.November, time.Sunday, 1)
		}
		transitions = append(transitions, Transition{
			Year: year,
			// Clocks spring forward at 02:00 standard time.
			DSTStart: time.Date(year, startMonth, startDay, 2, 0, 0, 0, time.UTC).Add(-std),
			// Clocks fall back at 02:00 DST.
			DSTEnd: time.Date(year, endMonth, endDay, 2, 0, 0, 0, time.UTC).Add(-dst),
		})
	}
	return mustZone(name, std, transitions)
}

func mustZone(name string, std time.Duration, transitions []Transition) *Rules {
	opts := []Option{}
	// Platform zone data backs the offset-consistency check; a missing
	// tzdata installation only disables the check.
	if loc, err := time.LoadLocation(name); err == nil {
		opts = append(opts, WithLocation(loc))
	}
	r, err := New(name, std, std+time.Hour, transitions, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// nthWeekday returns the day of month of the n-th given weekday.
func nthWeekday(year int, month time.Month, wd time.Weekday, n int) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(wd) - int(first.Weekday()) + 7) % 7
	return 1 + offset + (n-1)*7
}

// lastWeekday returns the day of month of the last given weekday.
func lastWeekday(year int, month time.Month, wd time.Weekday) int {
	last := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	offset := (int(last.Weekday()) - int(wd) + 7) % 7
	return last.Day() - offset
}

var builtins = map[string]func() *Rules{
	"America/Los_Angeles": AmericaLosAngeles,
	"America/New_York":    AmericaNewYork,
	"Europe/Berlin":       EuropeBerlin,
	"UTC":                 func() *Rules { return Fixed("UTC", 0) },
}

// Builtin returns a built-in rule table by zone name.
func Builtin(name string) (*Rules, bool) {
	f, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// BuiltinNames lists the built-in zone names in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
