package buffdef

import "fmt"

// ValidationError represents a schema-level validation error: the file as
// a whole violates a structural requirement (bad version, no buffs).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// BuffError represents an error in an individual buff definition.
type BuffError struct {
	Index   int   // 0-based index in the file
	ID      int32 // buff id (0 if the id field is missing)
	Field   string
	Message string
}

func (e *BuffError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("buff %d: %s: %s", e.ID, e.Field, e.Message)
	}
	return fmt.Sprintf("buff[%d]: %s: %s", e.Index, e.Field, e.Message)
}
