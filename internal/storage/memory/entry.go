package memory

import "time"

// Entry is a stored value with its optional absolute deadline.
//
// Entries are immutable once installed in the store; SET replaces the whole
// entry, so a reader always sees a value and deadline that were written
// together.
type Entry struct {
	Value []byte
	// ExpiresAt is the instant from which the entry is logically absent.
	// The zero time means the entry never expires.
	ExpiresAt time.Time
}

// HasExpiry reports whether the entry carries a deadline.
func (e *Entry) HasExpiry() bool {
	return !e.ExpiresAt.IsZero()
}

// ExpiredAt reports whether the entry is expired at now.
// The deadline itself counts as expired.
func (e *Entry) ExpiredAt(now time.Time) bool {
	return e.HasExpiry() && !now.Before(e.ExpiresAt)
}
