package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports the draft fields that block a submission.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", strings.Join(e.Fields, ", "), e.Message)
}
