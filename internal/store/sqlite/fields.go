package sqlite

import "github.com/atomicobject/vaultdex/internal/parse"

// fieldValueToAny converts a FieldValue into a plain Go value suitable for
// encoding/json, since FieldValue's tagged-union shape has no marshaler of
// its own: the persisted fields_json column is a read-side cache, not the
// source of truth, so round-tripping back into FieldValue is never required.
func fieldValueToAny(v parse.FieldValue) interface{} {
	switch v.Kind {
	case parse.FieldBool:
		return v.Bool
	case parse.FieldNumber:
		return v.Number
	case parse.FieldString:
		return v.Str
	case parse.FieldList:
		out := make([]interface{}, 0, len(v.List))
		for _, item := range v.List {
			out = append(out, fieldValueToAny(item))
		}
		return out
	case parse.FieldObject:
		out := make(map[string]interface{}, len(v.Object))
		for k, item := range v.Object {
			out[k] = fieldValueToAny(item)
		}
		return out
	default:
		return nil
	}
}

// fieldMapToAny flattens a FieldMap into an ordinary map, keyed the same way
// FieldMap.Get normalizes keys.
func fieldMapToAny(fm *parse.FieldMap) map[string]interface{} {
	if fm == nil {
		return map[string]interface{}{}
	}
	out := make(map[string]interface{}, fm.Len())
	for _, k := range fm.Keys() {
		v, ok := fm.Get(k)
		if !ok {
			continue
		}
		out[k] = fieldValueToAny(v)
	}
	return out
}
