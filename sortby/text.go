package sortby

import (
	"bytes"

	"facette.io/natsort"
	"github.com/amp-labs/amp-sortby/compare"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CompareNatural orders strings so that embedded numbers compare by value:
// "file2" sorts before "file10".
func CompareNatural(a, b string) int {
	return compare.FromLess(natsort.Compare)(a, b)
}

// ByNatural orders elements by a string key in natural order.
func ByNatural[T any](extract func(T) string) Key[T] {
	return ByFunc(extract, CompareNatural)
}

// ByCollation orders elements by a string key using the collation rules of
// a language, e.g. collate.IgnoreCase or collate.Numeric via opts.
//
// Every sort gets its own collator. With key caching enabled, binary
// collation keys are computed once per element and compared bytewise.
func ByCollation[T any](tag language.Tag, extract func(T) string, opts ...collate.Option) Key[T] {
	extractErr := infallible(extract)

	return Key[T]{
		prepare: func(r *sortRun[T]) (compare.Func[int], error) {
			collator := collate.New(tag, opts...)

			if !r.cfg.cacheKeys {
				return lazyColumn(r, extractErr, collator.CompareString), nil
			}

			values, err := extractColumn(r, extractErr)
			if err != nil {
				return nil, err
			}

			// Keys point into buf and stay valid as long as it is never reset.
			var buf collate.Buffer

			keys := make([][]byte, len(values))
			for i, value := range values {
				keys[i] = collator.KeyFromString(&buf, value)
			}

			return func(i, j int) int {
				return bytes.Compare(keys[i], keys[j])
			}, nil
		},
	}
}
