package parse

import (
	"sort"
	"strconv"
	"strings"
)

// FieldKind discriminates the FieldValue sum type.
type FieldKind int

const (
	FieldNull FieldKind = iota
	FieldBool
	FieldNumber
	FieldString
	FieldList
	FieldObject
)

// FieldValue is the tagged-union value stored for frontmatter and inline
// fields. Only the member matching Kind is meaningful.
type FieldValue struct {
	Kind   FieldKind
	Bool   bool
	Number float64
	Str    string
	List   []FieldValue
	Object map[string]FieldValue
}

func NullValue() FieldValue           { return FieldValue{Kind: FieldNull} }
func BoolValue(b bool) FieldValue     { return FieldValue{Kind: FieldBool, Bool: b} }
func NumberValue(n float64) FieldValue { return FieldValue{Kind: FieldNumber, Number: n} }
func StringValue(s string) FieldValue { return FieldValue{Kind: FieldString, Str: s} }
func ListValue(items []FieldValue) FieldValue {
	return FieldValue{Kind: FieldList, List: items}
}
func ObjectValue(m map[string]FieldValue) FieldValue {
	return FieldValue{Kind: FieldObject, Object: m}
}

// FieldMap is an ordered key->FieldValue mapping; order is tracked
// separately via Keys since Go maps have no iteration order.
type FieldMap struct {
	values map[string]FieldValue
	order  []string
}

func NewFieldMap() *FieldMap {
	return &FieldMap{values: make(map[string]FieldValue)}
}

// NormalizeFieldKey trims and lowercases a key; returns ok=false for an
// empty result.
func NormalizeFieldKey(key string) (string, bool) {
	k := strings.ToLower(strings.TrimSpace(key))
	return k, k != ""
}

// Get returns the value for key and whether it is present.
func (m *FieldMap) Get(key string) (FieldValue, bool) {
	k, ok := NormalizeFieldKey(key)
	if !ok {
		return FieldValue{}, false
	}
	v, present := m.values[k]
	return v, present
}

// Keys returns field keys in insertion order.
func (m *FieldMap) Keys() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len reports the number of distinct keys.
func (m *FieldMap) Len() int { return len(m.order) }

// Merge inserts value under key, applying the merge-on-duplicate rule: a
// second insertion under the same key wraps the existing value and the new
// one into a List (or appends to an existing List).
func (m *FieldMap) Merge(key string, value FieldValue) {
	k, ok := NormalizeFieldKey(key)
	if !ok {
		return
	}
	existing, present := m.values[k]
	if !present {
		m.values[k] = value
		m.order = append(m.order, k)
		return
	}
	if existing.Kind == FieldList {
		existing.List = append(existing.List, value)
		m.values[k] = existing
		return
	}
	m.values[k] = ListValue([]FieldValue{existing, value})
}

// InlineValueToFieldValue converts a raw inline `key:: value` right-hand
// side into a FieldValue: empty -> Null, true/false -> Bool (case
// insensitive), null/none -> Null (case insensitive), else numeric -> Number,
// else String.
func InlineValueToFieldValue(raw string) FieldValue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return NullValue()
	}
	lower := strings.ToLower(trimmed)
	switch lower {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	case "null", "none":
		return NullValue()
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return NumberValue(n)
	}
	return StringValue(trimmed)
}

// YAMLToFieldValue recursively converts a decoded YAML value (as produced by
// gopkg.in/yaml.v3 unmarshalling into interface{}) into a FieldValue.
func YAMLToFieldValue(v interface{}) FieldValue {
	switch t := v.(type) {
	case nil:
		return NullValue()
	case bool:
		return BoolValue(t)
	case int:
		return NumberValue(float64(t))
	case int64:
		return NumberValue(float64(t))
	case uint64:
		return NumberValue(float64(t))
	case float64:
		return NumberValue(t)
	case string:
		return StringValue(t)
	case []interface{}:
		items := make([]FieldValue, 0, len(t))
		for _, item := range t {
			items = append(items, YAMLToFieldValue(item))
		}
		return ListValue(items)
	case map[string]interface{}:
		obj := make(map[string]FieldValue, len(t))
		for k, val := range t {
			nk, ok := NormalizeFieldKey(k)
			if !ok {
				continue
			}
			obj[nk] = YAMLToFieldValue(val)
		}
		return ObjectValue(obj)
	case map[interface{}]interface{}:
		obj := make(map[string]FieldValue, len(t))
		for k, val := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			nk, ok := NormalizeFieldKey(ks)
			if !ok {
				continue
			}
			obj[nk] = YAMLToFieldValue(val)
		}
		return ObjectValue(obj)
	default:
		return NullValue()
	}
}

// ExtractTopLevelFrontmatterFields converts a decoded frontmatter map into a
// FieldMap with normalized keys, in the YAML map's natural iteration order
// (sorted for determinism since Go map iteration order is randomized).
func ExtractTopLevelFrontmatterFields(fm map[string]interface{}) *FieldMap {
	out := NewFieldMap()
	keys := make([]string, 0, len(fm))
	for k := range fm {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out.Merge(k, YAMLToFieldValue(fm[k]))
	}
	return out
}
