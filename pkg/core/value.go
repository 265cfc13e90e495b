package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
)

// JSONKind is the tag of a decoded JSON value.
type JSONKind int

// JSON kinds, one per JSON value shape.
const (
	JSONNull JSONKind = iota
	JSONBoolean
	JSONNumber
	JSONString
	JSONArray
	JSONObject
)

// String returns the string representation of the JSON kind.
func (k JSONKind) String() string {
	names := [...]string{"null", "boolean", "number", "string", "array", "object"}
	if k < 0 || int(k) >= len(names) {
		return fmt.Sprintf("JSONKind(%d)", int(k))
	}
	return names[k]
}

// Value is a syntactically valid JSON value tagged with its kind.
// The payload is kept raw and decoded on demand.
type Value struct {
	kind JSONKind
	raw  []byte
}

// Converter turns a JSON object into a typed value.
type Converter[T any] func(Object) (T, error)

// ParseValue validates data as JSON and tags it with its kind.
func ParseValue(data []byte) (Value, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Value{}, errors.New("empty JSON document")
	}
	if !sonic.Valid(trimmed) {
		return Value{}, errors.New("invalid JSON document")
	}
	return newValue(trimmed), nil
}

func newValue(raw []byte) Value {
	raw = bytes.TrimSpace(raw)
	return Value{kind: kindOf(raw), raw: raw}
}

func kindOf(raw []byte) JSONKind {
	if len(raw) == 0 {
		return JSONNull
	}
	switch raw[0] {
	case '{':
		return JSONObject
	case '[':
		return JSONArray
	case '"':
		return JSONString
	case 't', 'f':
		return JSONBoolean
	case 'n':
		return JSONNull
	default:
		return JSONNumber
	}
}

// Kind returns the shape of the value.
func (v Value) Kind() JSONKind {
	return v.kind
}

// Raw returns the JSON text of the value.
func (v Value) Raw() []byte {
	return v.raw
}

// Decode unmarshals the value into dst.
func (v Value) Decode(dst any) error {
	return sonic.Unmarshal(v.raw, dst)
}

// Object returns the value as an object, or a type-mismatch error naming the value.
func (v Value) Object(name string) (Object, error) {
	if v.kind != JSONObject {
		return Object{}, NewTypeMismatchError(name, JSONObject, v.kind)
	}
	var fields map[string]json.RawMessage
	if err := sonic.Unmarshal(v.raw, &fields); err != nil {
		return Object{}, NewMalformedResponseError(fmt.Sprintf("decode `%s`", name), err)
	}
	return Object{raw: v.raw, fields: fields}, nil
}

// Array returns the elements of the value, or a type-mismatch error naming the value.
func (v Value) Array(name string) ([]Value, error) {
	if v.kind != JSONArray {
		return nil, NewTypeMismatchError(name, JSONArray, v.kind)
	}
	var elems []json.RawMessage
	if err := sonic.Unmarshal(v.raw, &elems); err != nil {
		return nil, NewMalformedResponseError(fmt.Sprintf("decode `%s`", name), err)
	}
	values := make([]Value, len(elems))
	for i, elem := range elems {
		values[i] = newValue(elem)
	}
	return values, nil
}

// Object is a decoded JSON object with lazily decoded members.
type Object struct {
	raw    []byte
	fields map[string]json.RawMessage
}

// Get returns the member stored under key.
func (o Object) Get(key string) (Value, bool) {
	raw, ok := o.fields[key]
	if !ok {
		return Value{}, false
	}
	return newValue(raw), true
}

// Has reports whether the object has a member named key.
func (o Object) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// Len returns the number of members.
func (o Object) Len() int {
	return len(o.fields)
}

// Raw returns the JSON text of the object.
func (o Object) Raw() []byte {
	return o.raw
}

// Decode unmarshals the object into dst.
func (o Object) Decode(dst any) error {
	return sonic.Unmarshal(o.raw, dst)
}

// DecodeObject decodes o into a wire struct W. The struct's json tags name the
// keys to read, pointer fields mark optional members, and validate tags mark
// the members that must be present.
func DecodeObject[W any](o Object) (W, error) {
	var w W
	if err := o.Decode(&w); err != nil {
		return w, fmt.Errorf("decode object: %w", err)
	}
	if err := validate.Struct(&w); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return w, nil
		}
		return w, fmt.Errorf("validate object: %w", err)
	}
	return w, nil
}

// IdentityConverter returns objects unchanged.
func IdentityConverter(o Object) (Object, error) {
	return o, nil
}
