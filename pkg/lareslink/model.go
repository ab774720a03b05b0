package lareslink

import (
	"strconv"
)

// Record is one raw telemetry item as decoded from a controller realtime
// snapshot. The controller sends loosely-typed JSON objects: every value can
// be a string, a number, a nested object or a nested array, and any field
// may be absent or empty. Accessors below centralize the
// "missing/empty => absent" policy so callers never type-assert directly.
type Record map[string]any

// ID returns the record identifier as a string. The controller sends ids as
// strings or numbers depending on firmware version.
func (r Record) ID() string {
	s, _ := r.Text("ID")
	return s
}

// Text returns the scalar value of key rendered as a string. The second
// return is false when the key is absent or holds a non-scalar value.
func (r Record) Text(key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	return scalarToString(v)
}

// String is Text with absent collapsed to the empty string.
func (r Record) String(key string) string {
	s, _ := r.Text(key)
	return s
}

// Map returns the nested object at key, or an empty Record.
func (r Record) Map(key string) Record {
	switch v := r[key].(type) {
	case Record:
		return v
	case map[string]any:
		return Record(v)
	default:
		return Record{}
	}
}

// Slice returns the nested array of objects at key. Non-object elements are
// skipped.
func (r Record) Slice(key string) []Record {
	raw, ok := r[key].([]any)
	if !ok {
		// already-typed slices show up when records are built in code
		if rs, ok := r[key].([]Record); ok {
			return rs
		}
		return nil
	}
	out := make([]Record, 0, len(raw))
	for _, e := range raw {
		switch v := e.(type) {
		case Record:
			out = append(out, v)
		case map[string]any:
			out = append(out, Record(v))
		}
	}
	return out
}

// FirstNonEmpty returns the first key whose scalar value is non-empty.
func (r Record) FirstNonEmpty(keys ...string) string {
	for _, k := range keys {
		if s := r.String(k); s != "" {
			return s
		}
	}
	return ""
}

// Fields returns a shallow copy of every raw field.
func (r Record) Fields() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func scalarToString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}
