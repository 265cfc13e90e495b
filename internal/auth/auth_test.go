package auth

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevHash(t *testing.T) {
	assert.Equal(t, "4639dc588670101013c09d854e44d8c6", DevHash("1700000000", "secret"))
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", DevHash("", ""))
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", DevHash("a", "bc"))
	assert.Len(t, DevHash("1700000000", "secret"), 32)
	assert.NotEqual(t, DevHash("1700000000", "secret"), DevHash("1700000001", "secret"))
}

func TestSigner_Params(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	signer := NewSigner("public-key", "bc").WithClock(func() time.Time { return fixed })

	params := signer.Params()

	require.Len(t, params, 3)
	assert.Equal(t, "public-key", params[ParamAPIKey])
	assert.Equal(t, "1700000000", params[ParamTimestamp])
	assert.Equal(t, DevHash("1700000000", "bc"), params[ParamDevHash])
	assert.NotContains(t, params, "api_secret")
}

func TestSigner_ParamsNotMemoized(t *testing.T) {
	var mu sync.Mutex
	current := time.Unix(1700000000, 0)
	signer := NewSigner("k", "s").WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	})

	first := signer.Params()
	second := signer.Params()

	assert.Equal(t, "1700000001", first[ParamTimestamp])
	assert.Equal(t, "1700000002", second[ParamTimestamp])
	assert.NotEqual(t, first[ParamDevHash], second[ParamDevHash])
}

func TestSigner_ParamsWallClock(t *testing.T) {
	before := time.Now().Unix()
	params := NewSigner("k", "s").Params()
	after := time.Now().Unix()

	ts, err := strconv.ParseInt(params[ParamTimestamp], 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ts, before)
	assert.LessOrEqual(t, ts, after)
	assert.Equal(t, "k", NewSigner("k", "s").APIKey())
}
