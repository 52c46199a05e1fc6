package id

import (
	"github.com/google/uuid"
)

// New returns a random (v4) identifier for accounts, cost centers and
// transactions.
func New() string {
	return uuid.NewString()
}

// Unique returns a fresh identifier that does not satisfy taken. Collisions
// of v4 ids are practically impossible; the check makes uniqueness explicit
// instead of assumed.
func Unique(taken func(string) bool) string {
	for {
		v := New()
		if taken == nil || !taken(v) {
			return v
		}
	}
}
