// Package feed holds the provider-agnostic primitives for reading the raw,
// inconsistently-shaped reservation rows the external booking systems send:
// envelope normalization, field extraction across key synonyms, monetary
// normalization to integer cents, and status vocabulary mapping.
package feed

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Row is one raw reservation (or payment) record from an external feed. No
// fixed schema: keys vary by provider and casing convention, values are
// arbitrary JSON scalars, lists, or nested objects.
type Row map[string]any

// envelopeKeys are the wrapper keys providers put their row lists under.
var envelopeKeys = []string{"data", "items", "results", "reservations"}

// Rows normalizes a raw feed payload into a flat list of rows. Providers
// send one of three top-level shapes: a bare list, an object wrapping a list
// under a well-known key, or a single object (treated as a one-element
// list).
func Rows(payload []byte) ([]Row, error) {
	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode feed payload: %w", err)
	}

	switch v := raw.(type) {
	case []any:
		return listToRows(v), nil
	case map[string]any:
		for _, key := range envelopeKeys {
			if list, ok := v[key].([]any); ok {
				return listToRows(list), nil
			}
		}
		// A single bare object is one row.
		return []Row{Row(v)}, nil
	default:
		return nil, fmt.Errorf("unsupported feed payload shape %T", raw)
	}
}

func listToRows(list []any) []Row {
	rows := make([]Row, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			rows = append(rows, Row(m))
		}
	}
	return rows
}

// scalarString coerces a raw row value to its string form. The second return
// is false for nil, blank strings, and non-scalar values, so callers can
// tell "absent" apart from "empty".
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(x)
		return s, s != ""
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}
