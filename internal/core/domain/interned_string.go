package domain

import "unique"

// InternedString wraps a unique.Handle[string] so package names repeated
// across dependency, provider and reverse edges share one allocation.
// Two InternedStrings of the same text compare equal, which makes the
// type usable directly as a map key in the index.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s and returns its handle.
func NewInternedString(s string) InternedString {
	return InternedString{
		h: unique.Make(s),
	}
}

// String returns the underlying string value.
func (is InternedString) String() string {
	return is.h.Value()
}
