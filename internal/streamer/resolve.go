package streamer

import (
	"fmt"
	"time"

	"civseq/internal/civil"
	"civseq/internal/tzrules"
)

// resolveCivil maps a civil reading through the transition table to a UTC
// instant. It is total: gap readings, reachable only through relative
// advances, resolve with the pre-transition standard offset, as if the
// clocks had not jumped yet.
func resolveCivil(r *tzrules.Rules, dt civil.DateTime, second bool) time.Time {
	if !r.ObservesDST() {
		return dt.UTC().Add(-r.StdOffset())
	}
	switch r.Classify(dt) {
	case tzrules.Ambiguous:
		if second {
			return dt.UTC().Add(-r.StdOffset())
		}
		return dt.UTC().Add(-r.DSTOffset())
	case tzrules.Nonexistent:
		return dt.UTC().Add(-r.StdOffset())
	}
	inDST := r.InDSTCivil(dt)
	if loc := r.Location(); loc != nil {
		return reconcile(platformConvert(dt, loc), inDST)
	}
	offset := r.StdOffset()
	if inDST {
		offset = r.DSTOffset()
	}
	return dt.UTC().Add(-offset)
}

// platformConvert maps a civil reading to an instant using the platform
// zone data alone. Only called for readings the table classifies as
// ordinary; ambiguous readings must never take this path, since the
// platform picks an arbitrary side of the transition.
func platformConvert(dt civil.DateTime, loc *time.Location) time.Time {
	return time.Date(dt.Date.Year, dt.Date.Month, dt.Date.Day,
		dt.Time.Hour, dt.Time.Minute, dt.Time.Second, 0, loc)
}

// reconcile applies the offset-consistency correction. DST-in-effect is
// computed two ways, from the platform conversion and from the explicit
// transition table; a disagreement means the platform data is wrong for
// that era and the platform-derived instant sits exactly one hour off, so
// it shifts to the table's side. Historical tzdata on some platforms
// predates the statutory rule tables; the explicit table is authoritative.
func reconcile(platform time.Time, tableDST bool) time.Time {
	platformDST := platform.IsDST()
	if platformDST == tableDST {
		return platform.UTC()
	}
	if platformDST {
		// The platform applied one hour too much offset.
		return platform.UTC().Add(time.Hour)
	}
	return platform.UTC().Add(-time.Hour)
}

// Resolve maps a civil reading to its UTC instant without any streamer
// state. Ambiguous readings resolve to the first (pre-transition)
// occurrence; gap readings fail with a ResolveError.
func Resolve(r *tzrules.Rules, dt civil.DateTime) (time.Time, error) {
	if r.Classify(dt) == tzrules.Nonexistent {
		return time.Time{}, nonexistentLocalTimeError(r.Name(), dt)
	}
	return resolveCivil(r, dt, false), nil
}

// Occurrences returns both instants matching an ambiguous civil reading,
// earlier first. The reading must have been validated with Classify;
// calling Occurrences on a non-ambiguous reading is a contract violation
// and panics.
func Occurrences(r *tzrules.Rules, dt civil.DateTime) (first, second time.Time) {
	if r.Classify(dt) != tzrules.Ambiguous {
		panic(fmt.Sprintf("streamer: Occurrences on non-ambiguous local time %s in zone %s", dt, r.Name()))
	}
	return dt.UTC().Add(-r.DSTOffset()), dt.UTC().Add(-r.StdOffset())
}
