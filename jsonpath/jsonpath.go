// Package jsonpath resolves field paths inside decoded JSON/YAML documents
// (nested map[string]any values). Two notations are accepted:
//   - Bracket notation: $['field']['nestedField'], which allows any key
//     except ones containing a single quote
//   - Dotted notation: field.nestedField, for keys without dots
//
// Key matching is case-sensitive or case-insensitive; exact matches always win.
package jsonpath

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sentinel errors for path parsing and traversal.
var (
	ErrPathEmpty           = errors.New("path cannot be empty")
	ErrPathEmptySegment    = errors.New("path contains empty segment")
	ErrPathInvalidSyntax   = errors.New("invalid bracket notation syntax")
	ErrPathSegmentNotFound = errors.New("path segment not found")
	ErrPathCannotTraverse  = errors.New("path segment cannot be traversed")
	ErrPathKeyNotFound     = errors.New("key not found at path segment")
)

var (
	segmentRe      = regexp.MustCompile(`\['([^']*)'\]`) //nolint:gochecknoglobals
	emptySegmentRe = regexp.MustCompile(`\[''\]`)        //nolint:gochecknoglobals
)

// Path is a parsed field path. The zero Path has no segments and resolves
// to the input document itself.
type Path struct {
	raw      string
	segments []string
}

// Parse parses bracket or dotted notation.
//
//	Parse("$['address']['zip']") // segments: address, zip
//	Parse("address.zip")         // same
func Parse(path string) (Path, error) {
	if path == "" {
		return Path{}, ErrPathEmpty
	}

	if IsNestedPath(path) {
		return parseBrackets(path)
	}

	segments := strings.Split(path, ".")
	for idx, segment := range segments {
		if segment == "" {
			return Path{}, fmt.Errorf("%w: segment %d of %q", ErrPathEmptySegment, idx, path)
		}
	}

	return Path{raw: path, segments: segments}, nil
}

func parseBrackets(path string) (Path, error) {
	if loc := emptySegmentRe.FindStringIndex(path); loc != nil {
		return Path{}, fmt.Errorf("%w: segment %d of %q",
			ErrPathEmptySegment, strings.Count(path[:loc[0]], "["), path)
	}

	matches := segmentRe.FindAllStringSubmatch(path, -1)
	if len(matches) == 0 {
		return Path{}, fmt.Errorf("%w: %s", ErrPathInvalidSyntax, path)
	}

	segments := make([]string, len(matches))
	for idx, match := range matches {
		segments[idx] = match[1]
	}

	// Anything the regex skipped over makes the path malformed.
	if ToNestedPath(segments...) != path {
		return Path{}, fmt.Errorf("%w: %s", ErrPathInvalidSyntax, path)
	}

	return Path{raw: path, segments: segments}, nil
}

// MustParse is Parse for paths known to be valid; it panics otherwise.
func MustParse(path string) Path {
	p, err := Parse(path)
	if err != nil {
		panic(err)
	}

	return p
}

// String returns the path as it was parsed.
func (p Path) String() string {
	return p.raw
}

// Segments returns a copy of the path's keys, outermost first.
func (p Path) Segments() []string {
	return append([]string(nil), p.segments...)
}

// Lookup retrieves the value at the path.
// Returns nil, nil if the value at the path exists but is null.
// Returns an error if a key is missing or an intermediate value is not an object.
func (p Path) Lookup(input map[string]any, caseInsensitive bool) (any, error) {
	current := any(input)

	for idx, key := range p.segments {
		currentMap, ok := current.(map[string]any)
		if !ok {
			if current == nil {
				return nil, fmt.Errorf("%w: segment %d ('%s'), parent is null",
					ErrPathSegmentNotFound, idx, key)
			}

			return nil, fmt.Errorf("%w: segment %d ('%s'), parent is type %T",
				ErrPathCannotTraverse, idx, key, current)
		}

		value, exists := lookupKey(currentMap, key, caseInsensitive)
		if !exists {
			return nil, fmt.Errorf("%w: key '%s' at segment %d", ErrPathKeyNotFound, key, idx)
		}

		current = value
	}

	return current, nil
}

// GetValue parses path and looks it up in input.
func GetValue(input map[string]any, path string, caseInsensitive bool) (any, error) {
	p, err := Parse(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse path: %w", err)
	}

	return p.Lookup(input, caseInsensitive)
}

// IsMissing reports whether err means the path does not exist in the document,
// as opposed to a malformed path.
func IsMissing(err error) bool {
	return errors.Is(err, ErrPathKeyNotFound) || errors.Is(err, ErrPathSegmentNotFound)
}

func lookupKey(m map[string]any, key string, caseInsensitive bool) (any, bool) {
	if value, exists := m[key]; exists {
		return value, true
	}

	if caseInsensitive {
		for k, v := range m {
			if strings.EqualFold(k, key) {
				return v, true
			}
		}
	}

	return nil, false
}

// IsNestedPath checks if a field name uses bracket notation.
func IsNestedPath(fieldName string) bool {
	return strings.HasPrefix(fieldName, "$[")
}

// ToNestedPath builds a bracket notation path from keys.
//
//	ToNestedPath("address", "zip") // $['address']['zip']
func ToNestedPath(keys ...string) string {
	var sb strings.Builder

	sb.WriteString("$")

	for _, key := range keys {
		sb.WriteString("['")
		sb.WriteString(key)
		sb.WriteString("']")
	}

	return sb.String()
}
