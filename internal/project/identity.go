package project

import (
	"time"

	"github.com/google/uuid"
)

// Identity supplies fresh ids and timestamps. Injected so tests can run
// with a deterministic implementation.
type Identity interface {
	// NewID returns a unique id carrying a human-readable prefix.
	NewID(prefix string) string
	// Now returns the current time as an ISO-8601 string.
	Now() string
}

// realIdentity is the production Identity: random UUIDs and the wall
// clock in UTC.
type realIdentity struct{}

// NewIdentity returns the production Identity implementation.
func NewIdentity() Identity { return realIdentity{} }

func (realIdentity) NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func (realIdentity) Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
