package cell

import (
	"fmt"

	"github.com/google/uuid"
)

// ID uniquely identifies a cell within a notebook. It is assigned once at
// creation and stays stable across edits, reruns, and reorderings, so every
// other component (dependency edges, undo records, frontends) can reference
// cells by ID without holding the cell itself.
type ID string

// NewID generates a fresh cell identity.
func NewID() ID {
	return ID(uuid.New().String())
}

// ParseID validates s as a cell identity and canonicalizes it.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: malformed cell id %q", ErrInvalidArgument, s)
	}
	return ID(u.String()), nil
}

// String returns the identity in canonical form.
func (id ID) String() string {
	return string(id)
}

// IsValid reports whether the identity is well-formed.
func (id ID) IsValid() bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(string(id))
	return err == nil
}
