package model

import "fmt"

// ValidationError reports a rejected vehicle field. The vehicle state is left
// untouched when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
