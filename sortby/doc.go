// Package sortby sorts sequences by derived keys, with multi-key tie-breaking
// and per-key direction, composed by chaining.
//
// # Usage
//
//	sorted := sortby.ThenSortBy(
//	    sortby.SortByDesc(people, func(p Person) int { return p.Age }),
//	    func(p Person) string { return p.Name },
//	).Slice()
//
// The package-level ThenSortBy/ThenSortByDesc functions take an extractor for
// any cmp.Ordered key. Methods cannot have type parameters in Go, so the
// chainable methods take a [Key] instead, which also covers keys without a
// natural order:
//
//	sorted := sortby.SortByKey(files, sortby.ByNatural(func(f File) string { return f.Name })).
//	    ThenByDesc(sortby.ByTime(func(f File) time.Time { return f.Modified })).
//	    Slice()
//
// # Semantics
//
// Steps are compared lexicographically in the order they were added. A
// descending step is the exact inverse of its ascending form: keys that are
// equal stay equal, so later steps still decide. The underlying sort is
// [slices.SortStableFunc]; elements equal under every step keep their input
// order. The source slice is never modified.
//
// By default keys are extracted once per element before sorting
// (decorate-sort-undecorate). [WithKeyCache](false) re-extracts on every
// comparison instead. Extractors must be pure: with an extractor that returns
// different keys for the same element, the resulting order is unspecified.
//
// # Errors
//
// Keys built with [ByErr] or [ByFuncErr] may fail. [Builder.SliceCtx] reports
// such failures wrapped in [ErrKeyExtraction]; [Builder.Slice] panics with
// them. A panicking extractor propagates its panic, except during parallel
// extraction ([WithParallelism]) where the panic is recovered and returned as
// an error.
//
// # Observability
//
// Every terminal operation emits Prometheus metrics labelled by [WithName],
// an OpenTelemetry span named "sortby.sort", and a debug log line through
// the logger package.
package sortby
