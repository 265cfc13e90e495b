package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue_Kind(t *testing.T) {
	tests := []struct {
		input string
		want  JSONKind
	}{
		{`null`, JSONNull},
		{`true`, JSONBoolean},
		{`false`, JSONBoolean},
		{`42`, JSONNumber},
		{`-1.5e3`, JSONNumber},
		{`"hello"`, JSONString},
		{` [1, 2] `, JSONArray},
		{"\n{\"a\": 1}", JSONObject},
	}

	for _, tt := range tests {
		t.Run(tt.want.String()+"_"+tt.input, func(t *testing.T) {
			v, err := ParseValue([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Kind())
		})
	}
}

func TestJSONKind_String(t *testing.T) {
	assert.Equal(t, "object", JSONObject.String())
	assert.Equal(t, "null", JSONNull.String())
	assert.Equal(t, "JSONKind(9)", JSONKind(9).String())
	assert.Equal(t, "JSONKind(-1)", JSONKind(-1).String())
}

func TestParseValue_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "<html>", `{"a":`, `[1,]`} {
		_, err := ParseValue([]byte(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestValue_Object(t *testing.T) {
	v, err := ParseValue([]byte(`{"id": 1, "name": "docs", "tags": [], "parent": null}`))
	require.NoError(t, err)

	obj, err := v.Object("data")
	require.NoError(t, err)
	assert.Equal(t, 4, obj.Len())
	assert.True(t, obj.Has("parent"))
	assert.False(t, obj.Has("missing"))

	name, ok := obj.Get("name")
	require.True(t, ok)
	assert.Equal(t, JSONString, name.Kind())

	var s string
	require.NoError(t, name.Decode(&s))
	assert.Equal(t, "docs", s)

	parent, ok := obj.Get("parent")
	require.True(t, ok)
	assert.Equal(t, JSONNull, parent.Kind())

	_, ok = obj.Get("missing")
	assert.False(t, ok)
}

func TestValue_ObjectMismatch(t *testing.T) {
	v, err := ParseValue([]byte(`[1]`))
	require.NoError(t, err)

	_, err = v.Object("data")
	require.Error(t, err)
	assert.True(t, IsTypeMismatch(err))
	assert.Contains(t, err.Error(), "`data` was expected to be of type object, but was of type array")
}

func TestValue_Array(t *testing.T) {
	v, err := ParseValue([]byte(`[{"id": 1}, {"id": 2}, "x"]`))
	require.NoError(t, err)

	elems, err := v.Array("data")
	require.NoError(t, err)
	require.Len(t, elems, 3)
	assert.Equal(t, JSONObject, elems[0].Kind())
	assert.Equal(t, JSONObject, elems[1].Kind())
	assert.Equal(t, JSONString, elems[2].Kind())

	_, err = elems[2].Object("data[2]")
	assert.True(t, IsTypeMismatch(err))

	obj, err := ParseValue([]byte(`{}`))
	require.NoError(t, err)
	_, err = obj.Array("data")
	assert.True(t, IsTypeMismatch(err))
}

type wireGroup struct {
	ID   *int64  `json:"id" validate:"required"`
	Name *string `json:"name" validate:"required"`
	Note *string `json:"note"`
}

func TestDecodeObject(t *testing.T) {
	decode := func(input string) (wireGroup, error) {
		v, err := ParseValue([]byte(input))
		require.NoError(t, err)
		obj, err := v.Object("data")
		require.NoError(t, err)
		return DecodeObject[wireGroup](obj)
	}

	t.Run("required_and_optional", func(t *testing.T) {
		w, err := decode(`{"id": 5, "name": "web", "note": "hi", "extra": true}`)
		require.NoError(t, err)
		assert.Equal(t, int64(5), *w.ID)
		assert.Equal(t, "web", *w.Name)
		assert.Equal(t, "hi", *w.Note)
	})

	t.Run("optional_absent", func(t *testing.T) {
		w, err := decode(`{"id": 5, "name": "web"}`)
		require.NoError(t, err)
		assert.Nil(t, w.Note)
	})

	t.Run("required_absent", func(t *testing.T) {
		_, err := decode(`{"id": 5}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Name")
	})

	t.Run("wrong_type", func(t *testing.T) {
		_, err := decode(`{"id": "five", "name": "web"}`)
		assert.Error(t, err)
	})
}

func TestDecodeObject_NonStruct(t *testing.T) {
	v, err := ParseValue([]byte(`{"a": "1", "b": "2"}`))
	require.NoError(t, err)
	obj, err := v.Object("data")
	require.NoError(t, err)

	m, err := DecodeObject[map[string]string](obj)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, m)
}
