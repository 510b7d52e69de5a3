// Package domain defines the catalog's public contracts: member records,
// live handles, the resolver and mirror collaborator interfaces, and the
// typed errors surfaced by catalog operations.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Maximum encoded lengths for member record fields. These only matter when a
// record crosses into a durable mirror; exceeding a limit is a validation
// error, never a silent truncation.
const (
	IDMaxLength       = 36
	KindMaxLength     = 64
	LocationMaxLength = 512
)

// MemberRecord is one row of a member table: a stable identifier, an
// immutable type tag, and the last-known filesystem location of the entity.
type MemberRecord struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Location string `json:"location"`
}

// Validate checks the record against the encoding limits.
func (r MemberRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("member record: empty id")
	}
	if len(r.ID) > IDMaxLength {
		return fmt.Errorf("member record %s: id exceeds %d bytes", r.ID, IDMaxLength)
	}
	if len(r.Kind) > KindMaxLength {
		return fmt.Errorf("member record %s: kind exceeds %d bytes", r.ID, KindMaxLength)
	}
	if len(r.Location) > LocationMaxLength {
		return fmt.Errorf("member record %s: location exceeds %d bytes", r.ID, LocationMaxLength)
	}
	return nil
}

// Handle is a live, in-memory reference to a resolved member. Handles are
// read-only from the catalog's point of view: the catalog never mutates a
// handle it has returned, it only replaces its cache entry on re-resolution.
type Handle interface {
	ID() string
	Kind() string
	Location() string
	Name() string
}

// NewID returns a fresh member identifier.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id parses as a member identifier.
func ValidID(id string) bool { return uuid.Validate(id) == nil }
