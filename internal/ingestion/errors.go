package ingestion

import "fmt"

// LoadError represents a failure to read or decode an input file
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	prefix := e.Message
	if e.Path != "" {
		prefix = fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.Cause)
	}
	return prefix
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
