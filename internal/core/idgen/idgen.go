// Package idgen provides identifier generators for stored records.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator interface {
	NewID() string
}

// UUIDv4 generates random RFC 4122 version 4 identifiers.
type UUIDv4 struct{}

var _ Generator = UUIDv4{}

// NewID returns a new random UUID in canonical form.
func (UUIDv4) NewID() string {
	return uuid.NewString()
}

// IsUUID reports whether s parses as a UUID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// Sequence yields prefix-1, prefix-2, ... and is meant for tests.
type Sequence struct {
	Prefix string
	n      atomic.Uint64
}

// NewID returns the next identifier in the sequence.
func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s-%d", s.Prefix, s.n.Add(1))
}
