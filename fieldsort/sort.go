package fieldsort

import (
	"context"

	"github.com/amp-labs/amp-sortby/sortby"
)

// Sort returns the records ordered by fields, the first field being the
// primary key. Records are not modified and ties keep their input order.
func Sort(ctx context.Context, records []Record, fields []Field, opts ...sortby.Option) ([]Record, error) {
	builder, err := Builder(records, fields, opts...)
	if err != nil {
		return nil, err
	}

	return builder.SliceCtx(ctx)
}

// Builder chains one sort step per field without running the sort.
func Builder(records []Record, fields []Field, opts ...sortby.Option) (*sortby.Builder[Record], error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	var builder *sortby.Builder[Record]

	for i, field := range fields {
		switch {
		case i == 0 && field.Direction == sortby.Descending:
			builder = sortby.SortByKeyDesc(records, field.Key(), opts...)
		case i == 0:
			builder = sortby.SortByKey(records, field.Key(), opts...)
		case field.Direction == sortby.Descending:
			builder = builder.ThenByDesc(field.Key())
		default:
			builder = builder.ThenBy(field.Key())
		}
	}

	return builder, nil
}

// ParseFields parses every spec with ParseField.
func ParseFields(specs []string) ([]Field, error) {
	fields := make([]Field, 0, len(specs))

	for _, spec := range specs {
		field, err := ParseField(spec)
		if err != nil {
			return nil, err
		}

		fields = append(fields, field)
	}

	return fields, nil
}
