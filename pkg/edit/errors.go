package edit

import (
	"errors"
	"fmt"
)

// ErrSessionClosed is returned by mutations attempted after a session has
// been saved or while a save is in flight.
var ErrSessionClosed = errors.New("edit session is no longer editable")

// NotFoundError reports that an edit was requested for a document id absent
// from the store's cache.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("sop %q not found", e.ID)
}

// PathError reports a positional path that does not resolve in the current
// working copy. Paths are positions, not stable identifiers: an index that
// was valid before a structural mutation may not be valid after it.
type PathError struct {
	Path Path
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %s is out of range", e.Path)
}
