// Package sortable provides sortable wrapper types for primitive types to implement comparison interfaces.
package sortable

import (
	"github.com/amp-labs/amp-sortby/compare"
)

type Sortable[T any] interface {
	compare.Comparable[T]

	LessThan(other T) bool
}

// Compare derives a three-way comparison from Equals and LessThan.
// Values that are neither equal nor less than each other sort after.
func Compare[T Sortable[T]](a, b T) int {
	switch {
	case compare.Equals[T](a, b):
		return 0
	case a.LessThan(b):
		return -1
	default:
		return 1
	}
}
