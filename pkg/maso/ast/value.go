package ast

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kind classifies a raw JSON value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindUnknown
)

var kindNames = map[Kind]string{
	KindNull:    "null",
	KindBool:    "boolean",
	KindNumber:  "number",
	KindString:  "string",
	KindArray:   "array",
	KindObject:  "object",
	KindUnknown: "unknown",
}

// String returns the JSON name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// KindOf returns the kind of a value produced by a json.Decoder with
// UseNumber enabled. Plain float64 and int values are also accepted so that
// trees built by hand in tests classify the same way.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case json.Number, float64, int, int64:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	default:
		return KindUnknown
	}
}

// AsObject returns v as an object if it is one.
func AsObject(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok
}

// AsArray returns v as an array if it is one.
func AsArray(v any) ([]any, bool) {
	arr, ok := v.([]any)
	return arr, ok
}

// AsString returns v as a string if it is one.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsBool returns v as a bool if it is one.
func AsBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// AsInteger returns the numeric value of v if v is a whole number.
//
// A number is whole when it is finite as a float64 and has no fractional
// part, so 5, 5.0 and 1e3 qualify while 1.5 and 1e400 do not.
func AsInteger(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := strconv.ParseFloat(string(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}

	if math.IsInf(f, 0) || math.IsNaN(f) || math.Trunc(f) != f {
		return 0, false
	}
	return f, true
}

// Render formats a raw value for inclusion in a message. Strings are
// returned verbatim; everything else is rendered as compact JSON.
func Render(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case nil:
		return "null"
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "<unprintable>"
	}
	return string(data)
}
