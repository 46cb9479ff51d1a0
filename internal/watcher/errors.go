package watcher

import (
	"errors"
	"fmt"
)

// ErrDirectoryNotFound is returned when the watched directory does not exist
// at listing time. The poller treats it as transient.
var ErrDirectoryNotFound = errors.New("directory not found")

// ListingError wraps any other failure to list the watched directory,
// e.g. a permission error.
type ListingError struct {
	Dir string
	Err error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("failed to list %s: %v", e.Dir, e.Err)
}

func (e *ListingError) Unwrap() error { return e.Err }

// ReadError is returned by ScanFile when a tracked file cannot be opened or
// read, typically because it vanished between listing and scanning.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// UnhandledError carries a panic recovered from inside a poll cycle.
type UnhandledError struct {
	Value interface{}
}

func (e *UnhandledError) Error() string {
	return fmt.Sprintf("UNHANDLED exception %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *UnhandledError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
