package models

import "fmt"

// ExtractionError means the input was not structurally recognizable as
// its declared kind. It is fatal to the run; missing or malformed
// optional fields never produce it.
type ExtractionError struct {
	Kind SourceKind
	Path string
	Err  error
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("cannot extract %s facts from %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("cannot extract %s facts: %v", e.Kind, e.Err)
}

// Unwrap returns the wrapped error
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// AdapterUnavailableError means the external linter is missing, timed
// out, or produced unparseable output. It is non-fatal: the run
// continues and the condition degrades to a single info finding.
type AdapterUnavailableError struct {
	Reason string
}

// Error implements the error interface
func (e *AdapterUnavailableError) Error() string {
	return fmt.Sprintf("external linter unavailable: %s", e.Reason)
}
