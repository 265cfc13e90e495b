package onesky

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onesky/internal/auth"
	"onesky/pkg/core"
)

var testNow = time.Unix(1700000000, 0)

// newTestClient starts a server that checks the auth parameters of every
// request before handing it to handler.
func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "1700000000", q.Get("timestamp"))
		assert.Equal(t, auth.DevHash("1700000000", "test-secret"), q.Get("dev_hash"))
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	config := core.DefaultConfig().
		WithCredentials("test-key", "test-secret").
		WithBaseURL(server.URL + "/1").
		WithTimeout(2 * time.Second)

	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	client, err := New(config, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func respond(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(core.DefaultConfig())
	assert.ErrorIs(t, err, core.ErrNoCredentials)

	_, err = New(core.DefaultConfig().WithCredentials("k", "s").WithTimeout(0))
	assert.Error(t, err)
}

func TestNew_DuplicateRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()
	config := core.DefaultConfig().WithCredentials("k", "s")

	first, err := New(config, WithRegisterer(reg))
	require.NoError(t, err)
	defer first.Close()

	_, err = New(config, WithRegisterer(reg))
	assert.Error(t, err)
}

func TestClient_Close(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		respond(w, http.StatusOK, `{"meta":{"status":200},"data":[]}`)
	})

	require.NoError(t, client.Close())

	_, err := client.Locales().List(context.Background())
	assert.ErrorIs(t, err, core.ErrClientClosed)
	assert.Zero(t, calls.Load())
}

func TestClient_RateLimitAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `{"meta":{"status":200},"data":[{"code":"en","name":"English"}]}`)
	}, WithRateLimit(10, time.Second), WithRegisterer(reg))

	_, err := client.ProjectTypes().List(context.Background())
	require.NoError(t, err)

	stats, ok := client.RateLimitStats()
	require.True(t, ok)
	assert.Equal(t, int64(1), stats.Waited)

	count, err := testutil.GatherAndCount(reg, "onesky_client_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestClient_RateLimitOffByDefault(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, ok := client.RateLimitStats()
	assert.False(t, ok)
}

func TestClient_ConcurrentCallsAreIndependent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/1/locales":
			respond(w, http.StatusOK, `{"meta":{"status":200},"data":[{"code":"en"}]}`)
		default:
			respond(w, http.StatusNotFound, `{"meta":{"status":404,"message":"Not found"},"data":{}}`)
		}
	})

	errs := make(chan error, 2)
	go func() {
		_, err := client.Locales().List(context.Background())
		errs <- err
	}()
	go func() {
		_, err := client.ProjectGroups().Retrieve(context.Background(), 99)
		errs <- err
	}()

	var failures int
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			failures++
			assert.True(t, core.IsAPIError(err))
		}
	}
	assert.Equal(t, 1, failures)
}
