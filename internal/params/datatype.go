// Package params implements schema-driven validation and coercion of raw
// request parameters into the typed values forwarded to the provider.
package params

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DataType is a closed variant over the parameter types a schema row may
// declare. Each variant carries its own coercion and membership comparison,
// so adding a type means adding one variant value, not another branch in a
// string switch.
type DataType struct {
	name    string
	numeric bool
	coerce  func(name string, v any) (any, error)
	equal   func(a, b any) bool
}

// Name returns the wire name of the type ("integer", "object[]", ...).
func (d DataType) Name() string { return d.name }

// Numeric reports whether min/max bounds apply to this type.
func (d DataType) Numeric() bool { return d.numeric }

// Coerce converts a raw value into the variant's canonical representation.
func (d DataType) Coerce(name string, v any) (any, error) { return d.coerce(name, v) }

var (
	Float = DataType{
		name:    "float",
		numeric: true,
		coerce: func(name string, v any) (any, error) {
			f, ok := toNumber(v)
			if !ok || math.IsNaN(f) {
				return nil, fmt.Errorf("%w: parameter %s must be a float", ErrTypeMismatch, name)
			}
			return f, nil
		},
		equal: numbersEqual,
	}

	Integer = DataType{
		name:    "integer",
		numeric: true,
		coerce: func(name string, v any) (any, error) {
			f, ok := toNumber(v)
			if !ok || f != math.Trunc(f) {
				return nil, fmt.Errorf("%w: parameter %s must be an integer", ErrTypeMismatch, name)
			}
			return int64(f), nil
		},
		equal: numbersEqual,
	}

	String = DataType{
		name: "string",
		coerce: func(_ string, v any) (any, error) {
			return stringify(v), nil
		},
		equal: func(a, b any) bool {
			return stringify(a) == stringify(b)
		},
	}

	Boolean = DataType{
		name: "boolean",
		coerce: func(_ string, v any) (any, error) {
			return toBool(v), nil
		},
		equal: func(a, b any) bool {
			return toBool(a) == toBool(b)
		},
	}

	Object = DataType{
		name: "object",
		coerce: func(name string, v any) (any, error) {
			s, ok := v.(string)
			if !ok {
				return v, nil
			}
			var parsed any
			if err := json.Unmarshal([]byte(s), &parsed); err != nil {
				return nil, fmt.Errorf("%w: parameter %s must be a valid JSON object", ErrInvalidJSON, name)
			}
			return parsed, nil
		},
		equal: func(a, b any) bool { return false },
	}

	ObjectList = DataType{
		name: "object[]",
		coerce: func(name string, v any) (any, error) {
			// A string value gets one structured-parse attempt; failure is
			// tolerated and the raw string falls through to the sequence check.
			if s, ok := v.(string); ok {
				var parsed any
				if err := json.Unmarshal([]byte(s), &parsed); err == nil {
					v = parsed
				}
			}
			if _, ok := v.([]any); !ok {
				return nil, fmt.Errorf("%w: parameter %s must be an array", ErrTypeMismatch, name)
			}
			return v, nil
		},
		equal: func(a, b any) bool { return false },
	}
)

var dataTypes = []DataType{Float, Integer, String, Boolean, Object, ObjectList}

// ParseDataType resolves a schema row's data_type column to its variant.
func ParseDataType(name string) (DataType, error) {
	for _, d := range dataTypes {
		if d.name == name {
			return d, nil
		}
	}
	return DataType{}, fmt.Errorf("%w: %q", ErrUnknownDataType, name)
}

// toNumber converts numeric values, json.Number, and numeric strings to
// float64.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// toBool maps the strings "true"/"false" (case-insensitive) to literal
// booleans; anything else coerces via truthiness.
func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(b) {
		case "true":
			return true
		case "false":
			return false
		default:
			return b != ""
		}
	default:
		if f, ok := toNumber(v); ok {
			return f != 0
		}
		return v != nil
	}
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(s, 10)
	case json.Number:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func numbersEqual(a, b any) bool {
	af, aok := toNumber(a)
	bf, bok := toNumber(b)
	return aok && bok && af == bf
}
