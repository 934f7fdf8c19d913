package validate

import (
	"net/url"
	"sort"
)

// FieldKind is the semantic type a filter value is parsed into.
type FieldKind int

const (
	String FieldKind = iota
	Int
	Float
)

// Field describes one filterable column.
type Field struct {
	Name string
	Kind FieldKind
}

// Schema describes one entity table: its name and the non-id columns in
// declaration order. The id/ids keys are implicit for every schema.
type Schema struct {
	Table  string
	Fields []Field
}

const (
	KeyID  = "id"
	KeyIDs = "ids"
)

// AllowedKeys returns id, ids and every field name.
func (s Schema) AllowedKeys() []string {
	keys := make([]string, 0, len(s.Fields)+2)
	keys = append(keys, KeyID, KeyIDs)
	for _, f := range s.Fields {
		keys = append(keys, f.Name)
	}
	return keys
}

// Columns returns id followed by every field name, for SELECT/RETURNING lists.
func (s Schema) Columns() []string {
	cols := make([]string, 0, len(s.Fields)+1)
	cols = append(cols, KeyID)
	for _, f := range s.Fields {
		cols = append(cols, f.Name)
	}
	return cols
}

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s Schema) allowed(key string) bool {
	if key == KeyID || key == KeyIDs {
		return true
	}
	_, ok := s.field(key)
	return ok
}

// FromQuery flattens url.Values: the first value of a repeated key wins.
func FromQuery(q url.Values) map[string]string {
	out := make(map[string]string, len(q))
	for k, v := range q {
		if len(v) > 0 {
			out[k] = v[0]
		} else {
			out[k] = ""
		}
	}
	return out
}

// Params checks a filter request before any query is built. It reports the
// first failure found: unknown keys, then id/ids conflict, then per-value
// parsing (id, ids, then fields in schema order).
func Params(s Schema, params map[string]string) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !s.allowed(k) {
			return &ParamError{Kind: UnknownParameter, Value: k}
		}
	}

	_, hasID := params[KeyID]
	_, hasIDs := params[KeyIDs]
	if hasID && hasIDs {
		return &ParamError{Kind: ConflictingFilters, Value: KeyID, Other: KeyIDs}
	}

	if hasID {
		if _, err := ParseInt(params[KeyID]); err != nil {
			return err
		}
	}
	if hasIDs {
		if _, err := ParseIDs(params[KeyIDs]); err != nil {
			return err
		}
	}

	for _, f := range s.Fields {
		raw, ok := params[f.Name]
		if !ok {
			continue
		}
		switch f.Kind {
		case Int:
			if _, err := ParseInt(raw); err != nil {
				return err
			}
		case Float:
			if _, err := ParseFloat(raw); err != nil {
				return err
			}
		}
	}
	return nil
}
