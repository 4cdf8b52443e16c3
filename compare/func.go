package compare

import "cmp"

// Func is a three-way comparison. It returns a negative number when a sorts
// before b, a positive number when a sorts after b, and zero when they are
// equal for ordering purposes.
type Func[T any] func(a, b T) int

// Ordered compares values using their natural order. Floating point NaN
// values sort before every other value, which keeps the order total.
func Ordered[T cmp.Ordered](a, b T) int {
	return cmp.Compare(a, b)
}

// Sign normalizes a comparison result to -1, 0 or +1.
func Sign(result int) int {
	switch {
	case result < 0:
		return -1
	case result > 0:
		return 1
	default:
		return 0
	}
}

// Reverse returns the logical inverse of fn. Equal values stay equal, and
// results are normalized before negation so math.MinInt cannot overflow.
func Reverse[T any](fn Func[T]) Func[T] {
	return func(a, b T) int {
		return -Sign(fn(a, b))
	}
}

// Chain combines comparisons lexicographically: the first non-zero result
// wins, later functions only break ties left by earlier ones.
func Chain[T any](fns ...Func[T]) Func[T] {
	return func(a, b T) int {
		for _, fn := range fns {
			if result := fn(a, b); result != 0 {
				return result
			}
		}

		return 0
	}
}

// FromLess derives a three-way comparison from a strict "less than" predicate.
func FromLess[T any](less func(a, b T) bool) Func[T] {
	return func(a, b T) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		default:
			return 0
		}
	}
}
