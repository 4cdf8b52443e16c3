package fieldsort

import (
	"cmp"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/amp-labs/amp-sortby/compare"
	errs "github.com/amp-labs/amp-sortby/errors"
	"github.com/amp-labs/amp-sortby/jsonpath"
	"github.com/amp-labs/amp-sortby/optional"
	"github.com/amp-labs/amp-sortby/sortby"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Key returns the sort key for the field. Direction is not part of the key;
// Sort applies it when chaining.
func (f Field) Key() sortby.Key[Record] {
	switch f.Kind {
	case KindString:
		return optionalKey(f, cast.ToStringE, compare.Ordered[string])
	case KindNatural:
		return optionalKey(f, cast.ToStringE, sortby.CompareNatural)
	case KindNumber:
		return optionalKey(f, toDecimal, decimal.Decimal.Cmp)
	case KindTime:
		return optionalKey(f, cast.ToTimeE, time.Time.Compare)
	case KindBool:
		return optionalKey(f, cast.ToBoolE, compareBool)
	case KindAuto:
		fallthrough
	default:
		return optionalKey(f, toAuto, compareAuto)
	}
}

// optionalKey resolves the field, treating missing paths and nulls as
// absent, and converts present values to K.
func optionalKey[K any](f Field, convert func(any) (K, error), fn compare.Func[K]) sortby.Key[Record] {
	extract := func(record Record) (optional.Value[K], error) {
		raw, err := f.Path.Lookup(record, f.CaseInsensitive)
		if err != nil {
			if jsonpath.IsMissing(err) {
				return optional.None[K](), nil
			}

			return optional.None[K](), fmt.Errorf("field %s: %w", f.Path, err)
		}

		if raw == nil {
			return optional.None[K](), nil
		}

		value, err := convert(raw)
		if err != nil {
			return optional.None[K](), fmt.Errorf("%w: field %s as %s: %w", ErrConvert, f.Path, f.Kind, err)
		}

		return optional.Some(value), nil
	}

	return sortby.ByFuncErr(extract, func(a, b optional.Value[K]) int {
		return optional.Compare(a, b, fn, f.NullsFirst)
	})
}

// toDecimal converts numbers and numeric strings without going through
// float64 where that would lose precision.
func toDecimal(raw any) (decimal.Decimal, error) {
	switch value := raw.(type) {
	case decimal.Decimal:
		return value, nil
	case float32:
		if !isFinite(float64(value)) {
			return decimal.Decimal{}, fmt.Errorf("%w: non-finite number %v", errs.ErrWrongType, value)
		}

		return decimal.NewFromFloat32(value), nil
	case float64:
		if !isFinite(value) {
			return decimal.Decimal{}, fmt.Errorf("%w: non-finite number %v", errs.ErrWrongType, value)
		}

		return decimal.NewFromFloat(value), nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(value))
	case bool:
		return decimal.Decimal{}, fmt.Errorf("%w: bool", errs.ErrWrongType)
	}

	text, err := cast.ToStringE(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return decimal.NewFromString(text)
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// Ranks of numbers in auto order. NaN goes first as with cmp.Compare.
const (
	rankNaN = iota
	rankNegInf
	rankFinite
	rankPosInf
)

// autoValue is a value that is either a number or text.
type autoValue struct {
	number decimal.Decimal
	rank   int
	text   string
	isNum  bool
}

func toAuto(raw any) (autoValue, error) {
	switch value := raw.(type) {
	case float32:
		if !isFinite(float64(value)) {
			return nonFiniteAuto(float64(value)), nil
		}
	case float64:
		if !isFinite(value) {
			return nonFiniteAuto(value), nil
		}
	}

	switch value := raw.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, decimal.Decimal:
		number, err := toDecimal(value)
		if err != nil {
			return autoValue{}, err
		}

		return autoValue{number: number, rank: rankFinite, isNum: true}, nil
	case time.Time:
		return autoValue{text: value.UTC().Format(time.RFC3339Nano)}, nil
	}

	text, err := cast.ToStringE(raw)
	if err != nil {
		return autoValue{}, err
	}

	return autoValue{text: text}, nil
}

func nonFiniteAuto(value float64) autoValue {
	switch {
	case math.IsNaN(value):
		return autoValue{rank: rankNaN, isNum: true}
	case value < 0:
		return autoValue{rank: rankNegInf, isNum: true}
	default:
		return autoValue{rank: rankPosInf, isNum: true}
	}
}

func compareAuto(a, b autoValue) int {
	switch {
	case a.isNum && b.isNum && a.rank != b.rank:
		return cmp.Compare(a.rank, b.rank)
	case a.isNum && b.isNum:
		return a.number.Cmp(b.number)
	case a.isNum:
		return -1
	case b.isNum:
		return 1
	default:
		return cmp.Compare(a.text, b.text)
	}
}
