// Package errors holds sentinel errors shared across packages and a small
// accumulator for reporting several failures at once.
package errors

import "errors"

var (
	ErrPanicRecovery = errors.New("recovered from panic")
	ErrWrongType     = errors.New("wrong type")
)

// Collection is a thread-unsafe utility for accumulating multiple errors.
// Use this when several independent steps may fail and all failures should be
// reported together instead of only the first.
type Collection struct {
	errors []error
}

// Add appends an error to the collection. Nil errors are automatically ignored.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// HasError returns true if the collection contains at least one error.
func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// Len returns the number of collected errors.
func (c *Collection) Len() int {
	return len(c.errors)
}

// GetError returns the collected errors as a single error.
// Returns nil if the collection is empty, the single error if there's only one,
// or a joined error (using errors.Join) if there are multiple errors.
func (c *Collection) GetError() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}
