package matching

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched by every InvalidArgumentError via errors.Is
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError reports a caller-contract violation such as a nil
// profile or job context
type InvalidArgumentError struct {
	Field   string
	Message string
}

func (e *InvalidArgumentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid argument: %s", e.Message)
}

// Is makes errors.Is(err, ErrInvalidArgument) succeed
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// BatchError wraps a failure for one profile of a batch
type BatchError struct {
	Index int
	Cause error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch item %d: %v", e.Index, e.Cause)
}

func (e *BatchError) Unwrap() error {
	return e.Cause
}
