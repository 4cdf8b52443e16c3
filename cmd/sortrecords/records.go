package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/amp-labs/amp-sortby/fieldsort"
	"gopkg.in/yaml.v3"
)

var (
	ErrNotRecord     = errors.New("input value is not a mapping")
	ErrUnknownFormat = errors.New("unknown output format")
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// readRecords decodes every document in r. A document is either a single
// mapping or a sequence of mappings. JSON input is valid YAML.
func readRecords(r io.Reader) ([]fieldsort.Record, error) {
	decoder := yaml.NewDecoder(r)

	var records []fieldsort.Record

	for doc := 0; ; doc++ {
		var value any

		err := decoder.Decode(&value)
		if errors.Is(err, io.EOF) {
			return records, nil
		}

		if err != nil {
			return nil, fmt.Errorf("decoding document %d: %w", doc, err)
		}

		switch typed := value.(type) {
		case nil:
			continue
		case map[string]any:
			records = append(records, typed)
		case []any:
			for idx, item := range typed {
				record, ok := item.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("%w: document %d, item %d is %T", ErrNotRecord, doc, idx, item)
				}

				records = append(records, record)
			}
		default:
			return nil, fmt.Errorf("%w: document %d is %T", ErrNotRecord, doc, value)
		}
	}
}

func writeRecords(w io.Writer, format string, records []fieldsort.Record) error {
	if records == nil {
		records = []fieldsort.Record{}
	}

	switch strings.ToLower(format) {
	case formatYAML, "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2) //nolint:mnd

		if err := encoder.Encode(records); err != nil {
			return err
		}

		return encoder.Close()
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(records)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
