package graph

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ValueKind identifies which variant a metadata Value holds
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
	KindMap
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindMap:
		return "map"
	}
	return "unknown"
}

// Metadata is the per-node attribute bag
type Metadata map[string]Value

// Value is a metadata entry: a string, a number, a boolean or a nested mapping.
// The zero Value is the empty string.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	m    Metadata
}

// String returns a string value
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Map returns a nested mapping value
func Map(m Metadata) Value { return Value{kind: KindMap, m: m} }

// Kind reports the variant held by v
func (v Value) Kind() ValueKind { return v.kind }

// AsString returns the string variant
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsNumber returns the numeric variant
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool returns the boolean variant
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsMap returns the nested mapping variant
func (v Value) AsMap() (Metadata, bool) { return v.m, v.kind == KindMap }

// Text renders the value for display. Nested mappings render as sorted key=value pairs.
func (v Value) Text() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindMap:
		keys := v.m.Keys()
		out := "{"
		for i, k := range keys {
			if i > 0 {
				out += ", "
			}
			out += k + "=" + v.m[k].Text()
		}
		return out + "}"
	default:
		return v.str
	}
}

// Equal reports deep equality between two values
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindMap:
		return v.m.Equal(o.m)
	default:
		return v.str == o.str
	}
}

// Keys returns the metadata keys in sorted order
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports deep equality between two metadata bags
func (m Metadata) Equal(o Metadata) bool {
	if len(m) != len(o) {
		return false
	}
	for k, v := range m {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of m
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		if v.kind == KindMap {
			v = Map(v.m.Clone())
		}
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the value as its natural JSON form
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindMap:
		if v.m == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.m)
	default:
		return json.Marshal(v.str)
	}
}

// UnmarshalJSON decodes a JSON string, number, boolean or object
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := FromInterface(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// UnmarshalYAML decodes a YAML scalar or mapping
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw interface{}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	decoded, err := FromInterface(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*v = decoded
	return nil
}

// MarshalYAML encodes the value as its natural YAML form
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Interface(), nil
}

// Interface converts the value back into plain Go values
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindMap:
		out := make(map[string]interface{}, len(v.m))
		for k, e := range v.m {
			out[k] = e.Interface()
		}
		return out
	default:
		return v.str
	}
}

// FromInterface converts a decoded JSON/YAML/Neo4j value into a Value.
// Lists and nulls have no variant and are rejected.
func FromInterface(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case map[string]interface{}:
		m := make(Metadata, len(t))
		for k, e := range t {
			ev, err := FromInterface(e)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			m[k] = ev
		}
		return Map(m), nil
	case nil:
		return Value{}, fmt.Errorf("null metadata values are not supported")
	default:
		return Value{}, fmt.Errorf("unsupported metadata value of type %T", raw)
	}
}
