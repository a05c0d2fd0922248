package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no listing carries the requested id
var ErrNotFound = errors.New("listing not found")

// ValidationError reports the candidate fields that were missing or invalid.
// Fields are listed in form order.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid listing: missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

// Has reports whether field is among the offending fields
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}
