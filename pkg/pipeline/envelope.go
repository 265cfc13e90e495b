package pipeline

import (
	"fmt"

	"onesky/pkg/core"
)

// envelope is a decoded {meta, data} response body whose meta.status has
// already been checked.
type envelope struct {
	meta core.Object
	data core.Value
}

func decodeEnvelope(body []byte, expected int) (envelope, error) {
	root, err := core.ParseValue(body)
	if err != nil {
		return envelope{}, core.NewMalformedResponseError("response body is not JSON", err)
	}
	if root.Kind() != core.JSONObject {
		return envelope{}, core.NewMalformedResponseError(
			fmt.Sprintf("response body must be an object, got %s", root.Kind()), nil)
	}
	obj, err := root.Object("response")
	if err != nil {
		return envelope{}, err
	}

	metaValue, ok := obj.Get("meta")
	if !ok {
		return envelope{}, core.NewMalformedResponseError("`meta` is missing", nil)
	}
	if metaValue.Kind() != core.JSONObject {
		return envelope{}, core.NewMalformedResponseError(
			fmt.Sprintf("`meta` must be an object, got %s", metaValue.Kind()), nil)
	}
	meta, err := metaValue.Object("meta")
	if err != nil {
		return envelope{}, err
	}

	status, err := requiredInt(meta, "meta.status", "status")
	if err != nil {
		return envelope{}, err
	}

	// Failure bodies often omit data; their status and message still count.
	if int(status) != expected {
		return envelope{}, core.NewAPIError("", expected, int(status), optionalString(meta, "message"))
	}

	data, ok := obj.Get("data")
	if !ok {
		return envelope{}, core.NewMalformedResponseError("`data` is missing", nil)
	}

	return envelope{meta: meta, data: data}, nil
}

func requiredInt(o core.Object, name, key string) (int64, error) {
	v, ok := o.Get(key)
	if !ok {
		return 0, core.NewMalformedResponseError(fmt.Sprintf("`%s` is missing", name), nil)
	}
	if v.Kind() != core.JSONNumber {
		return 0, core.NewMalformedResponseError(
			fmt.Sprintf("`%s` must be a number, got %s", name, v.Kind()), nil)
	}
	var n int64
	if err := v.Decode(&n); err != nil {
		return 0, core.NewMalformedResponseError(fmt.Sprintf("`%s` is not an integer", name), err)
	}
	return n, nil
}

func optionalString(o core.Object, key string) string {
	v, ok := o.Get(key)
	if !ok || v.Kind() != core.JSONString {
		return ""
	}
	var s string
	if err := v.Decode(&s); err != nil {
		return ""
	}
	return s
}
