package orchestrator

import "fmt"

// ColumnError reports the column whose backend failed during generation.
type ColumnError struct {
	Column  string
	Backend string
	Err     error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("orchestrator: column %q (%s): %v", e.Column, e.Backend, e.Err)
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}
