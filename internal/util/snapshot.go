package util

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"strings"
	"time"

	"eatery/internal/domain/entity"

	"github.com/google/uuid"
)

// CircularMarker replaces a value that refers back to one of its ancestors.
const CircularMarker = "[Circular]"

// sensitiveKeys are matched after lowercasing and stripping '_' and '-'.
var sensitiveKeys = map[string]struct{}{
	"password":     {},
	"passwordhash": {},
	"token":        {},
	"accesstoken":  {},
	"refreshtoken": {},
	"secret":       {},
}

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

// IsSensitiveKey reports whether a field or map key must never be persisted.
func IsSensitiveKey(key string) bool {
	normalized := strings.ToLower(key)
	normalized = strings.NewReplacer("_", "", "-", "").Replace(normalized)
	_, ok := sensitiveKeys[normalized]

	return ok
}

// Sanitize converts v into a JSON-shaped snapshot suitable for the audit log.
// Credentials are dropped at every depth, UUIDs and times become strings and
// self-references are replaced with CircularMarker. The input is never mutated.
// Non-object values are wrapped under the "value" key.
func Sanitize(v any) map[string]any {
	if v == nil {
		return nil
	}

	s := &sanitizer{visiting: make(map[visitKey]struct{})}
	out := s.value(reflect.ValueOf(v))
	if out == nil {
		return nil
	}
	if m, ok := out.(map[string]any); ok {
		return m
	}

	return map[string]any{"value": out}
}

type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

type sanitizer struct {
	visiting map[visitKey]struct{}
}

// enter marks a reference as being on the current path. It returns false when
// the reference is already an ancestor.
func (s *sanitizer) enter(rv reflect.Value) (visitKey, bool) {
	key := visitKey{ptr: rv.Pointer(), typ: rv.Type()}
	if _, seen := s.visiting[key]; seen {
		return key, false
	}
	s.visiting[key] = struct{}{}

	return key, true
}

func (s *sanitizer) leave(key visitKey) {
	delete(s.visiting, key)
}

func (s *sanitizer) value(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}

	switch rv.Type() {
	case timeType:
		if !rv.CanInterface() {
			return nil
		}
		t, _ := rv.Interface().(time.Time)

		return t.UTC().Format(time.RFC3339Nano)
	case uuidType:
		if !rv.CanInterface() {
			return nil
		}
		id, _ := rv.Interface().(uuid.UUID)

		return id.String()
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}

		return s.value(rv.Elem())
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		key, ok := s.enter(rv)
		if !ok {
			return CircularMarker
		}
		defer s.leave(key)

		return s.value(rv.Elem())
	case reflect.Struct:
		out := make(map[string]any, rv.NumField())
		s.structFields(rv, out)

		return out
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		key, ok := s.enter(rv)
		if !ok {
			return CircularMarker
		}
		defer s.leave(key)

		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			name := fmt.Sprint(iter.Key().Interface())
			if IsSensitiveKey(name) {
				continue
			}
			out[name] = s.value(iter.Value())
		}

		return out
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return base64.StdEncoding.EncodeToString(rv.Bytes())
		}
		key, ok := s.enter(rv)
		if !ok {
			return CircularMarker
		}
		defer s.leave(key)

		return s.list(rv)
	case reflect.Array:
		return s.list(rv)
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	default:
		// chan, func, complex and unsafe pointers have no JSON form
		return nil
	}
}

func (s *sanitizer) list(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := range rv.Len() {
		out[i] = s.value(rv.Index(i))
	}

	return out
}

// structFields mirrors encoding/json naming: json tags win, "-" is skipped and
// untagged embedded structs are flattened into the parent.
func (s *sanitizer) structFields(rv reflect.Value, out map[string]any) {
	rt := rv.Type()
	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() && !field.Anonymous {
			continue
		}

		name, skip := jsonFieldName(field)
		if skip {
			continue
		}

		fv := rv.Field(i)
		if field.Anonymous && name == "" {
			embedded := fv
			if embedded.Kind() == reflect.Pointer {
				if embedded.IsNil() {
					continue
				}
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct && embedded.Type() != timeType && embedded.Type() != uuidType {
				s.structFields(embedded, out)

				continue
			}
		}
		if !field.IsExported() {
			continue
		}
		if name == "" {
			name = field.Name
		}
		if IsSensitiveKey(name) || IsSensitiveKey(field.Name) {
			continue
		}

		out[name] = s.value(fv)
	}
}

func jsonFieldName(field reflect.StructField) (string, bool) {
	tag, ok := field.Tag.Lookup("json")
	if !ok {
		return "", false
	}
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")

	return name, false
}

// Diff returns the top-level keys whose values differ between two snapshots.
// A key present on one side only is reported with a nil counterpart.
func Diff(before, after map[string]any) map[string]entity.FieldChange {
	changes := make(map[string]entity.FieldChange)

	for key, oldValue := range before {
		newValue, ok := after[key]
		if !ok {
			changes[key] = entity.FieldChange{Old: oldValue}

			continue
		}
		if !reflect.DeepEqual(oldValue, newValue) {
			changes[key] = entity.FieldChange{Old: oldValue, New: newValue}
		}
	}
	for key, newValue := range after {
		if _, ok := before[key]; !ok {
			changes[key] = entity.FieldChange{New: newValue}
		}
	}

	if len(changes) == 0 {
		return nil
	}

	return changes
}
