package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fluxuro/uro-client-template-api/pkg/models"
)

// Param is one validated name/value pair.
type Param struct {
	Name  string
	Value any
}

// Validated is the ordered output of a validation pass: public parameters
// first in schema order, then private parameters in schema order. The
// ordering and the split point are a contract: callers trim private
// parameters by count from the tail, without a name lookup.
type Validated struct {
	pairs       []Param
	publicCount int
}

// Len returns the total number of validated parameters.
func (v *Validated) Len() int { return len(v.pairs) }

// PublicCount returns the number of leading public parameters.
func (v *Validated) PublicCount() int { return v.publicCount }

// Pairs returns the ordered name/value pairs.
func (v *Validated) Pairs() []Param { return v.pairs }

// Map returns an unordered map view for lookups.
func (v *Validated) Map() map[string]any {
	m := make(map[string]any, len(v.pairs))
	for _, p := range v.pairs {
		m[p.Name] = p.Value
	}
	return m
}

// MarshalJSON emits a JSON object with keys in validated order.
func (v *Validated) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range v.pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Validate coerces and checks raw input against the model's parameter
// schemas, in schema order. Missing values take the schema default when one
// exists; missing required values fail; missing optional values are omitted
// from the output entirely.
func Validate(raw map[string]any, schemas []*models.ParameterSchema) (*Validated, error) {
	var public, private []Param

	for _, schema := range schemas {
		value, present := raw[schema.Name]
		if !present || isEmpty(value) {
			if schema.DefaultValue != nil && *schema.DefaultValue != "" {
				value = *schema.DefaultValue
			} else if schema.Required {
				return nil, fmt.Errorf("%w: %s", ErrMissingRequired, schema.Name)
			} else {
				continue
			}
		}

		dt, err := ParseDataType(schema.DataType)
		if err != nil {
			return nil, err
		}

		value, err = dt.Coerce(schema.Name, value)
		if err != nil {
			return nil, err
		}

		if schema.AllowedValues != nil && *schema.AllowedValues != "" {
			if err := checkAllowed(dt, schema.Name, *schema.AllowedValues, value); err != nil {
				return nil, err
			}
		}

		if dt.Numeric() {
			if err := checkBounds(schema, value); err != nil {
				return nil, err
			}
		}

		p := Param{Name: schema.Name, Value: value}
		if schema.IsPrivate {
			private = append(private, p)
		} else {
			public = append(public, p)
		}
	}

	if len(public)+len(private) == 0 {
		return nil, ErrNoValidParameters
	}

	return &Validated{
		pairs:       append(public, private...),
		publicCount: len(public),
	}, nil
}

// isEmpty mirrors the absent/null/empty-string check applied to both raw
// input and defaults.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// checkAllowed parses the allowed-values column (JSON list, or comma-split
// fallback), normalizes members to the parameter's type, and verifies
// membership with the variant's comparison.
func checkAllowed(dt DataType, name, allowedRaw string, value any) error {
	var allowed []any
	if err := json.Unmarshal([]byte(allowedRaw), &allowed); err != nil {
		for _, part := range strings.Split(allowedRaw, ",") {
			allowed = append(allowed, strings.TrimSpace(part))
		}
	}

	display := make([]string, 0, len(allowed))
	for _, a := range allowed {
		display = append(display, stringify(a))
		if dt.equal(a, value) {
			return nil
		}
	}
	return fmt.Errorf("%w: invalid value for %s, allowed values: %s",
		ErrValueNotAllowed, name, strings.Join(display, ", "))
}

func checkBounds(schema *models.ParameterSchema, value any) error {
	f, ok := toNumber(value)
	if !ok {
		return nil
	}
	if schema.MinValue != nil && f < *schema.MinValue {
		return fmt.Errorf("%w: value for %s must be >= %s",
			ErrOutOfRange, schema.Name, stringify(*schema.MinValue))
	}
	if schema.MaxValue != nil && f > *schema.MaxValue {
		return fmt.Errorf("%w: value for %s must be <= %s",
			ErrOutOfRange, schema.Name, stringify(*schema.MaxValue))
	}
	return nil
}
