package autofix

import (
	"fmt"
	"strings"
)

// PartialApplicationError is returned when a fix failed to commit and one or
// more already-written files could not be restored.
type PartialApplicationError struct {
	// Files are left with their new content.
	Files []string
	Cause error
}

func (e *PartialApplicationError) Error() string {
	return fmt.Sprintf("partial application: %s left modified: %v", strings.Join(e.Files, ", "), e.Cause)
}

func (e *PartialApplicationError) Unwrap() error {
	return e.Cause
}
