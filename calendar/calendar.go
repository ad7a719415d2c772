// Package calendar holds the Calendar domain type shared by the CalDAV and
// vdir backends.
package calendar

import (
	"regexp"

	"github.com/google/uuid"
)

// Calendar is a calendar collection: a CalDAV collection resource, or a
// vdir directory.
type Calendar struct {
	// ID is the final non-empty path segment of the collection's href (for
	// CalDAV) or the directory name (for vdir); it is the identity key.
	ID string

	// DisplayName is the collection's human-readable label, if the server
	// or sidecar file set one.
	DisplayName string

	// Description is the collection's description, if set.
	Description string

	// Color is the collection's UI color, "#RRGGBB" form only, if set.
	Color string
}

// New returns a Calendar with a fresh random ID and no metadata.
func New() Calendar {
	return Calendar{ID: uuid.NewString()}
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidColor reports whether s is a well-formed "#RRGGBB" color. No CSS
// names, no short forms; the leading '#' is mandatory.
func ValidColor(s string) bool {
	return colorPattern.MatchString(s)
}

// Equal reports whether c and other carry the same id and metadata. Unlike
// a map key, equality covers all four fields (spec.md §3).
func (c Calendar) Equal(other Calendar) bool {
	return c.ID == other.ID &&
		c.DisplayName == other.DisplayName &&
		c.Description == other.Description &&
		c.Color == other.Color
}

// Key returns the identity used by HashSet-style containers: just the id.
func (c Calendar) Key() string {
	return c.ID
}
