// Package sortable provides wrapper types for primitive types that implement
// the Sortable interface, enabling their use as sort keys.
//
// # Overview
//
// The sortable package defines the [Sortable] interface and provides ready-to-use
// implementations for common primitive types: [Int], [Byte], [String] and [Float64].
// The Sortable interface extends [github.com/amp-labs/amp-sortby/compare.Comparable]
// by adding a LessThan method, providing both equality comparison and ordering.
// [Compare] turns any Sortable pair into a three-way result, which is what
// [github.com/amp-labs/amp-sortby/sortby.BySortable] uses to order keys.
//
// # Creating Custom Sortable Types
//
// To create a custom sortable type, implement the Sortable interface:
//
//	type Version struct {
//	    Major, Minor int
//	}
//
//	func (v Version) Equals(other Version) bool {
//	    return v == other
//	}
//
//	func (v Version) LessThan(other Version) bool {
//	    if v.Major != other.Major {
//	        return v.Major < other.Major
//	    }
//	    return v.Minor < other.Minor
//	}
//
// Equals and LessThan must agree: if a.Equals(b) then neither a.LessThan(b)
// nor b.LessThan(a) may hold. Sorting with a type that breaks this rule
// produces an unspecified (but still permuted) order.
//
// # Thread Safety
//
// The wrapper types in this package are value types and are inherently thread-safe.
package sortable
