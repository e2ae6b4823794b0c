package palette

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// ParamType is the closed set of value kinds a param can hold.
type ParamType string

// Param types.
const (
	ParamText    ParamType = "text"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
	ParamSelect  ParamType = "select"
)

// Valid reports whether t is one of the known param types.
func (t ParamType) Valid() bool {
	switch t {
	case ParamText, ParamNumber, ParamBoolean, ParamSelect:
		return true
	default:
		return false
	}
}

// ParseParamType converts a string to a ParamType.
func ParseParamType(s string) (ParamType, error) {
	t := ParamType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidParam, s)
	}
	return t, nil
}

// Param is one configurable field of a node. The value kind is fixed by
// the param type: text and select hold a string, number holds a float64,
// boolean holds a bool. Only select params carry options.
//
// A Param is immutable; use WithValue to derive a param with a new value.
type Param struct {
	label   string
	typ     ParamType
	text    string
	number  float64
	boolean bool
	options []string
}

// TextParam returns a free-text param.
func TextParam(label, value string) Param {
	return Param{label: label, typ: ParamText, text: value}
}

// NumberParam returns a numeric param.
func NumberParam(label string, value float64) Param {
	return Param{label: label, typ: ParamNumber, number: value}
}

// BooleanParam returns a boolean param.
func BooleanParam(label string, value bool) Param {
	return Param{label: label, typ: ParamBoolean, boolean: value}
}

// SelectParam returns a param restricted to the given ordered choices.
func SelectParam(label, value string, options ...string) Param {
	return Param{label: label, typ: ParamSelect, text: value, options: slices.Clone(options)}
}

// NewParam builds a param from loosely typed input, as produced by JSON,
// YAML or Lua decoders. Any Go numeric kind is accepted for number params.
// Options are only allowed on select params.
func NewParam(label string, typ ParamType, value any, options []string) (Param, error) {
	if !typ.Valid() {
		return Param{}, fmt.Errorf("%w: param %q: unknown type %q", ErrInvalidParam, label, typ)
	}
	if typ != ParamSelect && len(options) > 0 {
		return Param{}, fmt.Errorf("%w: param %q: options are only allowed on select params", ErrInvalidParam, label)
	}
	p := Param{label: label, typ: typ}
	if typ == ParamSelect {
		p.options = slices.Clone(options)
	}
	if err := p.assign(value); err != nil {
		return Param{}, err
	}
	return p, nil
}

// Label returns the human-readable field name.
func (p Param) Label() string { return p.label }

// Type returns the param type.
func (p Param) Type() ParamType { return p.typ }

// Value returns the current value as string, float64 or bool.
func (p Param) Value() any {
	switch p.typ {
	case ParamNumber:
		return p.number
	case ParamBoolean:
		return p.boolean
	case ParamText, ParamSelect:
		return p.text
	default:
		return nil
	}
}

// Text returns the string value of a text or select param.
func (p Param) Text() (string, bool) {
	if p.typ != ParamText && p.typ != ParamSelect {
		return "", false
	}
	return p.text, true
}

// Number returns the value of a number param.
func (p Param) Number() (float64, bool) {
	return p.number, p.typ == ParamNumber
}

// Bool returns the value of a boolean param.
func (p Param) Bool() (bool, bool) {
	return p.boolean, p.typ == ParamBoolean
}

// Options returns a copy of the select choices, or nil for other types.
func (p Param) Options() []string {
	return slices.Clone(p.options)
}

// HasOption reports whether s is one of the select choices.
func (p Param) HasOption(s string) bool {
	return slices.Contains(p.options, s)
}

// WithValue returns a copy of p holding value. The value must match the
// param type; select values must be one of the options.
func (p Param) WithValue(value any) (Param, error) {
	q := p
	q.options = slices.Clone(p.options)
	if err := q.assign(value); err != nil {
		return Param{}, err
	}
	if q.typ == ParamSelect && !q.HasOption(q.text) {
		return Param{}, fmt.Errorf("%w: param %q: %q is not one of %v", ErrInvalidParam, p.label, q.text, p.options)
	}
	return q, nil
}

// Equal reports whether two params have the same label, type, value and options.
func (p Param) Equal(o Param) bool {
	return p.label == o.label &&
		p.typ == o.typ &&
		p.text == o.text &&
		p.number == o.number &&
		p.boolean == o.boolean &&
		slices.Equal(p.options, o.options)
}

func (p *Param) assign(value any) error {
	switch p.typ {
	case ParamText, ParamSelect:
		s, ok := value.(string)
		if !ok {
			return p.mismatch(value)
		}
		p.text = s
	case ParamNumber:
		n, ok := toFloat64(value)
		if !ok {
			return p.mismatch(value)
		}
		if !finite(n) {
			return fmt.Errorf("%w: param %q: number value must be finite, got %v", ErrInvalidParam, p.label, n)
		}
		p.number = n
	case ParamBoolean:
		b, ok := value.(bool)
		if !ok {
			return p.mismatch(value)
		}
		p.boolean = b
	}
	return nil
}

func (p *Param) mismatch(value any) error {
	return fmt.Errorf("%w: param %q: %s value cannot be %T", ErrInvalidParam, p.label, p.typ, value)
}

// finite reports whether n can be encoded as a JSON number.
func finite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// paramWire is the encoded form shared by JSON and YAML.
type paramWire struct {
	Label   string    `json:"label" yaml:"label"`
	Value   any       `json:"value" yaml:"value"`
	Type    ParamType `json:"type" yaml:"type"`
	Options []string  `json:"options,omitempty" yaml:"options,omitempty"`
}

func (p Param) wire() paramWire {
	return paramWire{Label: p.label, Value: p.Value(), Type: p.typ, Options: slices.Clone(p.options)}
}

// MarshalJSON encodes the param as {label, value, type, options}.
func (p Param) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.wire())
}

// UnmarshalJSON decodes and type-checks a param.
func (p *Param) UnmarshalJSON(data []byte) error {
	var w paramWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	q, err := NewParam(w.Label, w.Type, w.Value, w.Options)
	if err != nil {
		return err
	}
	*p = q
	return nil
}

// MarshalYAML encodes the param with the same shape as JSON.
func (p Param) MarshalYAML() (any, error) {
	return p.wire(), nil
}

// String implements fmt.Stringer.
func (p Param) String() string {
	if p.typ == ParamSelect {
		return fmt.Sprintf("%s(%s)=%v %v", p.label, p.typ, p.Value(), p.options)
	}
	return fmt.Sprintf("%s(%s)=%v", p.label, p.typ, p.Value())
}
