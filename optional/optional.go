// Package optional provides a type-safe Optional type for representing values that may or may not be present.
// An Optional is conceptually a set of size zero or one. Absent values can be ordered
// relative to present ones with Compare, which is how nullable sort keys are handled.
package optional

import (
	"fmt"
)

// Value represents a value that may or may not be present.
// Use Some(value) to create a Value with a value, or None() for an empty Value.
type Value[T any] struct {
	value T
	isSet bool
}

// Some creates a Value containing the given value.
func Some[T any](value T) Value[T] {
	return Value[T]{value: value, isSet: true}
}

// None creates an empty Value with no value.
func None[T any]() Value[T] {
	return Value[T]{isSet: false}
}

// FromPointer returns None for a nil pointer and Some of the pointed-to value otherwise.
func FromPointer[T any](ptr *T) Value[T] {
	if ptr == nil {
		return None[T]()
	}

	return Some(*ptr)
}

// NonEmpty returns true if the Value contains a value.
func (o Value[T]) NonEmpty() bool {
	return o.isSet
}

// Empty returns true if the Value does not contain a value.
func (o Value[T]) Empty() bool {
	return !o.isSet
}

// Get returns the value and a boolean indicating whether the value is present.
func (o Value[T]) Get() (T, bool) {
	return o.value, o.isSet
}

// GetOrElse returns the value if present, or the provided default value if empty.
func (o Value[T]) GetOrElse(defaultValue T) T {
	if o.isSet {
		return o.value
	}

	return defaultValue
}

// String returns "Some(value)" if present, or "None" if empty.
func (o Value[T]) String() string {
	if o.isSet {
		return fmt.Sprintf("Some(%v)", o.value)
	}

	return "None"
}

// Map transforms the value inside the Value using the provided function.
// Returns Some(f(value)) if the Value contains a value, or None if empty.
func Map[T any, U any](o Value[T], f func(T) U) Value[U] {
	if o.isSet {
		return Some(f(o.value))
	}

	return None[U]()
}

// Compare orders two Values. Present values are compared with cmp. Two empty
// Values are equal; an empty Value sorts before a present one when noneFirst
// is set, and after it otherwise.
func Compare[T any](a, b Value[T], cmp func(a, b T) int, noneFirst bool) int {
	switch {
	case a.isSet && b.isSet:
		return cmp(a.value, b.value)
	case !a.isSet && !b.isSet:
		return 0
	case !a.isSet == noneFirst:
		return -1
	default:
		return 1
	}
}
