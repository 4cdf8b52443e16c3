// Package fieldsort sorts untyped records, as decoded from JSON or YAML, by
// one or more field paths. Each field picks a direction and a kind that
// decides how raw values are converted and compared.
package fieldsort

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amp-labs/amp-sortby/jsonpath"
	"github.com/amp-labs/amp-sortby/sortby"
)

var (
	ErrUnknownKind  = errors.New("unknown field kind")
	ErrInvalidField = errors.New("invalid field specification")
	ErrNoFields     = errors.New("at least one sort field is required")
	ErrConvert      = errors.New("field value cannot be converted")
)

// Record is a decoded JSON object or YAML mapping.
type Record = map[string]any

// Kind selects how a field's values are interpreted.
type Kind int

const (
	// KindAuto compares numbers numerically and everything else as text.
	// Numbers sort before text.
	KindAuto Kind = iota
	KindString
	// KindNatural compares text with embedded numbers by value.
	KindNatural
	// KindNumber compares exact decimal values. Numeric strings are accepted.
	KindNumber
	// KindTime compares timestamps; strings are parsed in common layouts.
	KindTime
	// KindBool sorts false before true.
	KindBool
)

var kindNames = map[string]Kind{ //nolint:gochecknoglobals
	"auto":    KindAuto,
	"string":  KindString,
	"str":     KindString,
	"natural": KindNatural,
	"nat":     KindNatural,
	"number":  KindNumber,
	"num":     KindNumber,
	"numeric": KindNumber,
	"time":    KindTime,
	"date":    KindTime,
	"bool":    KindBool,
	"boolean": KindBool,
}

func (k Kind) String() string {
	switch k {
	case KindAuto:
		return "auto"
	case KindString:
		return "string"
	case KindNatural:
		return "natural"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a kind name (or a common abbreviation) to a Kind.
func ParseKind(name string) (Kind, error) {
	kind, ok := kindNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return KindAuto, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}

	return kind, nil
}

// Field is one sort criterion.
type Field struct {
	Path      jsonpath.Path
	Direction sortby.Direction
	Kind      Kind

	// NullsFirst places records where the field is missing or null before
	// the others in ascending order. By default they go last.
	NullsFirst bool

	// CaseInsensitive matches path keys regardless of case.
	CaseInsensitive bool
}

// ParseField parses "path[:option...]". Options may appear in any order:
// a direction (asc, desc), a kind (auto, string, natural, number, time,
// bool), "nullsfirst"/"nullslast", or "ci" for case-insensitive keys.
//
//	ParseField("age:desc:number")
//	ParseField("$['last:name']:ci")
func ParseField(spec string) (Field, error) {
	rawPath, rawOpts := splitSpec(spec)

	path, err := jsonpath.Parse(rawPath)
	if err != nil {
		return Field{}, fmt.Errorf("%w %q: %w", ErrInvalidField, spec, err)
	}

	field := Field{Path: path}

	for _, opt := range rawOpts {
		if err := field.apply(opt); err != nil {
			return Field{}, fmt.Errorf("%w %q: %w", ErrInvalidField, spec, err)
		}
	}

	return field, nil
}

// MustParseField is ParseField for specs known to be valid.
func MustParseField(spec string) Field {
	field, err := ParseField(spec)
	if err != nil {
		panic(err)
	}

	return field
}

// splitSpec separates the path from its options. Bracket paths may contain
// colons inside quotes, so they end at the last "']".
func splitSpec(spec string) (string, []string) {
	rest := ""

	path := spec

	if jsonpath.IsNestedPath(spec) {
		if end := strings.LastIndex(spec, "']"); end >= 0 {
			path, rest = spec[:end+2], spec[end+2:]
		}

		rest = strings.TrimPrefix(rest, ":")
	} else if idx := strings.Index(spec, ":"); idx >= 0 {
		path, rest = spec[:idx], spec[idx+1:]
	}

	if rest == "" {
		return path, nil
	}

	return path, strings.Split(rest, ":")
}

func (f *Field) apply(opt string) error {
	switch strings.ToLower(strings.TrimSpace(opt)) {
	case "nullsfirst":
		f.NullsFirst = true

		return nil
	case "nullslast":
		f.NullsFirst = false

		return nil
	case "ci":
		f.CaseInsensitive = true

		return nil
	}

	if dir, err := sortby.ParseDirection(opt); err == nil && opt != "" {
		f.Direction = dir

		return nil
	}

	kind, err := ParseKind(opt)
	if err != nil {
		return err
	}

	f.Kind = kind

	return nil
}

// String renders the field in the form accepted by ParseField.
func (f Field) String() string {
	var sb strings.Builder

	sb.WriteString(f.Path.String())
	sb.WriteString(":")
	sb.WriteString(f.Direction.String())
	sb.WriteString(":")
	sb.WriteString(f.Kind.String())

	if f.NullsFirst {
		sb.WriteString(":nullsfirst")
	}

	if f.CaseInsensitive {
		sb.WriteString(":ci")
	}

	return sb.String()
}
