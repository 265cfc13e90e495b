package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onesky/pkg/core"
)

func TestDecodeEnvelope(t *testing.T) {
	env, err := decodeEnvelope([]byte(`{"meta":{"status":201,"message":"created"},"data":{"id":3}}`), 201)
	require.NoError(t, err)
	assert.Equal(t, core.JSONObject, env.data.Kind())
	assert.True(t, env.meta.Has("message"))
}

func TestDecodeEnvelope_PrimitiveData(t *testing.T) {
	env, err := decodeEnvelope([]byte(`{"meta":{"status":200},"data":"done"}`), 200)
	require.NoError(t, err)
	assert.Equal(t, core.JSONString, env.data.Kind())
}

func TestDecodeEnvelope_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not_json", `not json`},
		{"empty", ``},
		{"top_level_array", `[{"meta":{"status":200},"data":{}}]`},
		{"missing_meta", `{"data":{}}`},
		{"meta_not_object", `{"meta":"ok","data":{}}`},
		{"missing_status", `{"meta":{},"data":{}}`},
		{"status_not_number", `{"meta":{"status":"200"},"data":{}}`},
		{"status_fractional", `{"meta":{"status":200.5},"data":{}}`},
		{"missing_data", `{"meta":{"status":200}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeEnvelope([]byte(tt.body), 200)
			require.Error(t, err)
			assert.True(t, core.IsMalformedResponse(err), "got %v", err)
		})
	}
}

func TestDecodeEnvelope_StatusMismatch(t *testing.T) {
	_, err := decodeEnvelope([]byte(`{"meta":{"status":400,"message":"Invalid project id"},"data":{}}`), 200)
	require.Error(t, err)

	var ce *core.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, core.KindAPI, ce.Kind)
	assert.Equal(t, 200, ce.Expected)
	assert.Equal(t, 400, ce.Actual)
	assert.Equal(t, "Invalid project id", ce.Message)
}

func TestDecodeEnvelope_StatusMismatchWithoutMessage(t *testing.T) {
	_, err := decodeEnvelope([]byte(`{"meta":{"status":200},"data":{}}`), 201)
	require.Error(t, err)

	var ce *core.Error
	require.ErrorAs(t, err, &ce)
	assert.Empty(t, ce.Message)
	assert.Equal(t, 200, ce.Actual)
}

func TestDecodeEnvelope_StatusMismatchWithoutData(t *testing.T) {
	_, err := decodeEnvelope([]byte(`{"meta":{"status":400,"message":"Invalid file format"}}`), 200)
	require.Error(t, err)

	var ce *core.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, core.KindAPI, ce.Kind)
	assert.Equal(t, 400, ce.Actual)
	assert.Equal(t, "Invalid file format", ce.Message)
}
