package streamer

import (
	"errors"
	"fmt"

	"civseq/internal/civil"
)

// ResolveError reports a civil time that cannot be mapped onto the UTC
// timeline for the active zone. The only recoverable case is a reading
// inside the spring-forward gap; contract violations (asserting ambiguity
// where there is none) panic instead.
type ResolveError struct {
	// Code identifies the error category.
	Code ResolveErrorCode

	// Zone names the rule table the resolution ran against.
	Zone string

	// Local is the civil reading that failed to resolve.
	Local civil.DateTime

	// Message is a human-readable description.
	Message string
}

// ResolveErrorCode categorizes resolution errors.
type ResolveErrorCode string

const (
	// ErrCodeNonexistentLocalTime indicates a reading inside the hour
	// skipped by a spring-forward transition.
	ErrCodeNonexistentLocalTime ResolveErrorCode = "NONEXISTENT_LOCAL_TIME"
)

// Error implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s: %s (zone=%s, local=%s)", e.Code, e.Message, e.Zone, e.Local)
}

// IsNonexistentLocalTime reports whether err is a nonexistent-local-time
// resolution error. Uses errors.As to handle wrapped errors.
func IsNonexistentLocalTime(err error) bool {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Code == ErrCodeNonexistentLocalTime
	}
	return false
}

func nonexistentLocalTimeError(zone string, local civil.DateTime) *ResolveError {
	return &ResolveError{
		Code:    ErrCodeNonexistentLocalTime,
		Zone:    zone,
		Local:   local,
		Message: "local time falls inside the spring-forward gap",
	}
}
