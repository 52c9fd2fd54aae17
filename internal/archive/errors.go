package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrSpecNotFound is returned when a package carries no metadata spec file.
	ErrSpecNotFound = errors.New("metadata spec file not found")
	// ErrMultipleSpecs is returned when a package carries more than one
	// metadata spec file. The contract allows exactly one; ambiguity fails fast.
	ErrMultipleSpecs = errors.New("multiple metadata spec files found")

	// errUnsafeEntryName is returned for entry names that would resolve
	// outside the extraction destination.
	errUnsafeEntryName = errors.New("entry name escapes the destination")
	// errEmptyEntryName is returned for entry names with no usable components.
	errEmptyEntryName = errors.New("entry name is empty")
)

// ExtractError wraps an IO failure for a specific archive entry after the
// bounded retries are exhausted.
type ExtractError struct {
	// Entry is the stored key of the failing archive entry.
	Entry string
	// Err is the underlying cause.
	Err error
}

// Error names the failing entry along with the cause.
func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract entry %q: %v", e.Entry, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// PackError wraps an IO failure during final archive creation.
type PackError struct {
	// Err is the underlying cause.
	Err error
}

// Error renders the wrapped cause.
func (e *PackError) Error() string {
	return fmt.Sprintf("pack release archive: %v", e.Err)
}

// Unwrap exposes the underlying cause.
func (e *PackError) Unwrap() error {
	return e.Err
}
