package tzrules

import (
	"fmt"
	"sort"
	"time"

	"civseq/internal/civil"
)

// Classification sorts a civil date-time into one of three resolution
// buckets for a given zone.
type Classification int

const (
	// Ordinary means exactly one absolute instant matches the reading.
	Ordinary Classification = iota

	// Ambiguous means the reading falls inside the repeated fall-back
	// hour and matches two absolute instants.
	Ambiguous

	// Nonexistent means the reading falls inside the spring-forward gap
	// and matches no absolute instant.
	Nonexistent
)

func (c Classification) String() string {
	switch c {
	case Ordinary:
		return "ordinary"
	case Ambiguous:
		return "ambiguous"
	case Nonexistent:
		return "nonexistent"
	default:
		return fmt.Sprintf("Classification(%d)", int(c))
	}
}

// Transition records one year's pair of DST boundary instants, both UTC.
type Transition struct {
	// Year the pair belongs to.
	Year int

	// DSTStart is the instant the clocks spring forward.
	DSTStart time.Time

	// DSTEnd is the instant the clocks fall back.
	DSTEnd time.Time
}

// Window is a half-open range of civil date-times [Start, End).
type Window struct {
	Start civil.DateTime
	End   civil.DateTime
}

// Contains reports whether dt falls inside the window.
func (w Window) Contains(dt civil.DateTime) bool {
	return !dt.Before(w.Start) && dt.Before(w.End)
}

// Rules is an immutable DST transition table for one zone.
type Rules struct {
	name        string
	std         time.Duration // standard offset from UTC
	dst         time.Duration // DST offset from UTC; std + 1h when observed
	observes    bool
	transitions []Transition // sorted by year, one entry per year
	loc         *time.Location
}

// Option configures optional Rules fields.
type Option func(*Rules)

// WithLocation attaches platform zone data used for the defensive
// offset-consistency check during resolution. Tables without a location
// skip the check.
func WithLocation(loc *time.Location) Option {
	return func(r *Rules) { r.loc = loc }
}

// New builds a rule table for a zone that observes DST. transitions must be
// sorted by year with no duplicates; dst must exceed std by exactly one
// hour, matching the one-hour windows the resolver detects.
func New(name string, std, dst time.Duration, transitions []Transition, opts ...Option) (*Rules, error) {
	if dst-std != time.Hour {
		return nil, fmt.Errorf("zone %s: DST offset must exceed standard offset by one hour", name)
	}
	for i, tr := range transitions {
		if i > 0 && tr.Year <= transitions[i-1].Year {
			return nil, fmt.Errorf("zone %s: transition years must be strictly increasing at %d", name, tr.Year)
		}
		if !tr.DSTStart.Before(tr.DSTEnd) {
			return nil, fmt.Errorf("zone %s: year %d: DST start must precede DST end", name, tr.Year)
		}
	}
	r := &Rules{
		name:        name,
		std:         std,
		dst:         dst,
		observes:    true,
		transitions: append([]Transition(nil), transitions...),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Fixed builds a rule table for a zone with a constant offset and no DST.
// Classification always returns Ordinary.
func Fixed(name string, offset time.Duration) *Rules {
	return &Rules{name: name, std: offset, dst: offset}
}

// Name returns the zone identifier.
func (r *Rules) Name() string { return r.name }

// ObservesDST reports whether the zone has any transitions at all.
func (r *Rules) ObservesDST() bool { return r.observes }

// StdOffset returns the standard (non-DST) offset from UTC.
func (r *Rules) StdOffset() time.Duration { return r.std }

// DSTOffset returns the offset from UTC while DST is in effect.
func (r *Rules) DSTOffset() time.Duration { return r.dst }

// Location returns the attached platform zone data, or nil.
func (r *Rules) Location() *time.Location { return r.loc }

// transitionFor returns the transition pair covering year.
func (r *Rules) transitionFor(year int) (Transition, bool) {
	i := sort.Search(len(r.transitions), func(i int) bool {
		return r.transitions[i].Year >= year
	})
	if i < len(r.transitions) && r.transitions[i].Year == year {
		return r.transitions[i], true
	}
	return Transition{}, false
}

// GapWindow returns the spring-forward gap window whose year covers dt,
// and whether dt falls inside it.
func (r *Rules) GapWindow(dt civil.DateTime) (Window, bool) {
	if !r.observes {
		return Window{}, false
	}
	tr, ok := r.transitionFor(dt.Date.Year)
	if !ok {
		return Window{}, false
	}
	w := Window{
		Start: civil.DateTimeOf(tr.DSTStart.Add(r.std)),
		End:   civil.DateTimeOf(tr.DSTStart.Add(r.dst)),
	}
	return w, w.Contains(dt)
}

// AmbiguousWindow returns the fall-back repeated-hour window whose year
// covers dt, and whether dt falls inside it. The window spans the hour of
// wall-clock readings that occur twice: from one hour before the DST end
// instant's post-transition reading, inclusive, up to the reading at which
// the transition completes, exclusive.
func (r *Rules) AmbiguousWindow(dt civil.DateTime) (Window, bool) {
	if !r.observes {
		return Window{}, false
	}
	tr, ok := r.transitionFor(dt.Date.Year)
	if !ok {
		return Window{}, false
	}
	w := Window{
		Start: civil.DateTimeOf(tr.DSTEnd.Add(r.std)),
		End:   civil.DateTimeOf(tr.DSTEnd.Add(r.dst)),
	}
	return w, w.Contains(dt)
}

// Classify sorts a civil date-time into Ordinary, Ambiguous, or
// Nonexistent for this zone.
func (r *Rules) Classify(dt civil.DateTime) Classification {
	if _, in := r.GapWindow(dt); in {
		return Nonexistent
	}
	if _, in := r.AmbiguousWindow(dt); in {
		return Ambiguous
	}
	return Ordinary
}

// InDSTCivil reports whether DST is in effect for an Ordinary civil
// reading. Readings inside the ambiguous window are not Ordinary; their
// side of the transition is the streamer's occurrence flag, not the
// table's, so the answer here is unspecified for them.
func (r *Rules) InDSTCivil(dt civil.DateTime) bool {
	if !r.observes {
		return false
	}
	tr, ok := r.transitionFor(dt.Date.Year)
	if !ok {
		return false
	}
	dstFirst := civil.DateTimeOf(tr.DSTStart.Add(r.dst))
	dstLast := civil.DateTimeOf(tr.DSTEnd.Add(r.std))
	return !dt.Before(dstFirst) && dt.Before(dstLast)
}

// InDSTAt reports whether DST is in effect at an absolute instant,
// according to the table alone.
func (r *Rules) InDSTAt(instant time.Time) bool {
	if !r.observes {
		return false
	}
	tr, ok := r.transitionFor(instant.UTC().Year())
	if !ok {
		return false
	}
	return !instant.Before(tr.DSTStart) && instant.Before(tr.DSTEnd)
}
