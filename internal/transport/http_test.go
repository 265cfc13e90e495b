package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onesky/internal/auth"
	ihttp "onesky/internal/http"
	"onesky/internal/obs"
	"onesky/internal/ratelimit"
	"onesky/pkg/core"
)

var fixedNow = time.Unix(1700000000, 0)

func newExecutor(t *testing.T, handler http.HandlerFunc, opts ...ExecutorOption) (*Executor, *ihttp.Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ihttp.NewClient(&ihttp.Config{BaseURL: server.URL + "/1", Timeout: 2 * time.Second}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	signer := auth.NewSigner("public", "secret").WithClock(func() time.Time { return fixedNow })
	return NewExecutor(client, signer, zerolog.Nop(), opts...), client
}

func TestExecutor_AppendsAuthParams(t *testing.T) {
	exec, _ := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/1/project-groups", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "public", q.Get("api_key"))
		assert.Equal(t, "1700000000", q.Get("timestamp"))
		assert.Equal(t, auth.DevHash("1700000000", "secret"), q.Get("dev_hash"))
		assert.Equal(t, core.ContentTypeJSON, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"meta":{"status":200},"data":[]}`))
	})

	resp, err := exec.Execute(context.Background(), core.NewRequest(core.OpRead, "/project-groups").SetQuery("page", "2"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"meta":{"status":200},"data":[]}`, string(resp.Body))
}

func TestExecutor_AuthParamsWinOnCollision(t *testing.T) {
	exec, _ := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, []string{"public"}, q["api_key"])
		assert.Equal(t, []string{"1700000000"}, q["timestamp"])
		assert.Equal(t, []string{auth.DevHash("1700000000", "secret")}, q["dev_hash"])
		w.Write([]byte(`{"meta":{"status":200},"data":{}}`))
	})

	req := core.NewRequest(core.OpRead, "/locales").SetQueryParams(core.Params{
		"api_key":   "spoofed",
		"timestamp": "1",
		"dev_hash":  "x",
	})
	_, err := exec.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecutor_PostBody(t *testing.T) {
	exec, _ := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"docs"}`, string(body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"meta":{"status":201},"data":{"id":1}}`))
	})

	req := core.NewRequest(core.OpCreate, "/project-groups").SetBody(map[string]string{"name": "docs"})
	resp, err := exec.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestExecutor_Multipart(t *testing.T) {
	exec, _ := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "GNU_PO", r.FormValue("file_format"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "messages.po", header.Filename)
		content, _ := io.ReadAll(file)
		assert.Equal(t, `msgid "hello"`, string(content))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"meta":{"status":201},"data":{}}`))
	})

	req := core.NewRequest(core.OpCreate, "/projects/1/files").
		SetFormField("file_format", "GNU_PO").
		AddFile("file", "messages.po", strings.NewReader(`msgid "hello"`))
	_, err := exec.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecutor_StatusMismatch(t *testing.T) {
	exec, _ := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"meta":{"status":401,"message":"Invalid API key"},"data":{}}`))
	})

	_, err := exec.Execute(context.Background(), core.NewRequest(core.OpRead, "/locales"))
	require.Error(t, err)
	assert.True(t, core.IsAPIError(err))

	var apiErr *core.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.Expected)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Actual)
	assert.Equal(t, "Invalid API key", apiErr.Message)
}

func TestExecutor_StatusMismatchPlainBody(t *testing.T) {
	exec, _ := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`<html>ok</html>`))
	})

	_, err := exec.Execute(context.Background(), core.NewRequest(core.OpCreate, "/project-groups"))
	require.Error(t, err)

	status, ok := core.StatusOf(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, err.Error(), "expected status=201, got status=200: OK")
}

func TestExecutor_TransportError(t *testing.T) {
	client, err := ihttp.NewClient(&ihttp.Config{BaseURL: "http://127.0.0.1:1/1", Timeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	var logs bytes.Buffer
	exec := NewExecutor(client, auth.NewSigner("PUBKEY", "s"), zerolog.New(&logs))
	_, err = exec.Execute(context.Background(), core.NewRequest(core.OpRead, "/locales").SetQuery("page", "1"))
	require.Error(t, err)
	assert.True(t, core.IsTransportError(err))

	assert.Contains(t, err.Error(), "127.0.0.1:1/1/locales")
	for _, secret := range []string{"dev_hash=", "api_key=", "PUBKEY", "timestamp=", "page="} {
		assert.NotContains(t, err.Error(), secret)
		assert.NotContains(t, logs.String(), secret)
	}
	assert.Contains(t, logs.String(), "http request failed")

	var uerr *url.Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "http://127.0.0.1:1/1/locales", uerr.URL)
}

func TestStripQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://platform.api.onesky.io/1/locales?api_key=k&dev_hash=h", "https://platform.api.onesky.io/1/locales"},
		{"https://platform.api.onesky.io/1/locales", "https://platform.api.onesky.io/1/locales"},
		{"https://platform.api.onesky.io/1/locales?", "https://platform.api.onesky.io/1/locales"},
		{"::bad?dev_hash=h", "::bad"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, stripQuery(tt.in))
		})
	}
}

func TestRedactQuery_LeavesOtherErrors(t *testing.T) {
	cause := errors.New("boom")
	assert.Same(t, cause, redactQuery(cause))
}

func TestExecutor_Closed(t *testing.T) {
	var calls atomic.Int32
	exec, client := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	require.NoError(t, client.Close())

	_, err := exec.Execute(context.Background(), core.NewRequest(core.OpRead, "/locales"))
	assert.ErrorIs(t, err, core.ErrClientClosed)
	assert.Zero(t, calls.Load())
}

func TestExecutor_OneCallPerInvocation(t *testing.T) {
	var calls atomic.Int32
	exec, _ := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := exec.Execute(context.Background(), core.NewRequest(core.OpRead, "/locales"))
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestExecutor_LimiterAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := obs.NewMetrics(reg)
	require.NoError(t, err)
	limiter := ratelimit.New(10, time.Second)

	exec, _ := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta":{"status":200},"data":[]}`))
	}, WithLimiter(limiter), WithMetrics(metrics))

	req := core.NewRequest(core.OpRead, "/projects/7/languages").SetRoute("/projects/{id}/languages")
	_, err = exec.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(1), limiter.Stats().Waited)
	count, err := testutil.GatherAndCount(reg, "onesky_client_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestExecutor_LimiterHonoursContext(t *testing.T) {
	limiter := ratelimit.New(1, time.Hour)
	var calls atomic.Int32
	exec, _ := newExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"meta":{"status":200},"data":[]}`))
	}, WithLimiter(limiter))

	_, err := exec.Execute(context.Background(), core.NewRequest(core.OpRead, "/locales"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = exec.Execute(ctx, core.NewRequest(core.OpRead, "/locales"))
	require.Error(t, err)
	assert.True(t, core.IsTransportError(err))
	assert.Equal(t, int32(1), calls.Load())
}
