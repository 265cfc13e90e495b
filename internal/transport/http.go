// Package transport executes authenticated requests against the OneSky API.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"

	"onesky/internal/auth"
	ihttp "onesky/internal/http"
	"onesky/internal/obs"
	"onesky/internal/ratelimit"
	"onesky/pkg/core"
)

// Response is the raw outcome of one HTTP exchange.
type Response struct {
	// StatusCode is the HTTP status code returned by the server.
	StatusCode int

	// Body contains the raw response body bytes.
	Body []byte

	// Headers contains the response headers as key-value pairs.
	Headers map[string]string
}

// Executor sends one request per call, signed with fresh auth parameters,
// and checks the HTTP status against the request's operation.
type Executor struct {
	client  *ihttp.Client
	signer  *auth.Signer
	logger  zerolog.Logger
	limiter *ratelimit.Limiter
	metrics *obs.Metrics
}

type ExecutorOption func(*Executor)

// WithLimiter throttles requests through l before they are sent.
func WithLimiter(l *ratelimit.Limiter) ExecutorOption {
	return func(e *Executor) {
		e.limiter = l
	}
}

// WithMetrics records every request in m.
func WithMetrics(m *obs.Metrics) ExecutorOption {
	return func(e *Executor) {
		e.metrics = m
	}
}

func NewExecutor(client *ihttp.Client, signer *auth.Signer, logger zerolog.Logger, opts ...ExecutorOption) *Executor {
	e := &Executor{
		client: client,
		signer: signer,
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute sends req and returns the response when its HTTP status is the one
// req's operation expects. The caller's query parameters are sent first and
// the auth parameters are applied last, overriding any caller key of the same name.
func (e *Executor) Execute(ctx context.Context, req *core.Request) (*Response, error) {
	r, release, err := e.client.Request(ctx)
	if err != nil {
		if errors.Is(err, ihttp.ErrClosed) {
			return nil, core.ErrClientClosed
		}
		return nil, core.NewTransportError(req.Path, err)
	}
	defer release()

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, core.NewTransportError(req.Path, fmt.Errorf("rate limit wait: %w", err))
		}
	}

	r.SetQueryParams(req.Query)
	r.SetQueryParams(e.signer.Params())

	switch {
	case req.Multipart():
		if len(req.Form) > 0 {
			r.SetMultipartFormData(req.Form)
		}
		for _, f := range req.Files {
			r.SetFileReader(f.Field, f.FileName, f.Reader)
		}
	default:
		r.SetHeader("Content-Type", req.ContentType)
		if req.Body != nil {
			r.SetBody(req.Body)
		}
	}

	method := req.Method()
	done := e.metrics.Start(method, req.Route)

	resp, err := r.Execute(method, req.Path)
	if err != nil {
		err = redactQuery(err)
		done(0)
		e.logger.Error().Err(err).
			Str("method", method).
			Str("path", req.Path).
			Msg("http request failed")
		return nil, core.NewTransportError(req.Path, err)
	}

	status := resp.StatusCode()
	body := resp.Bytes()
	done(status)

	e.logger.Debug().
		Str("method", method).
		Str("path", req.Path).
		Int("status", status).
		Int("size", len(body)).
		Msg("http response")

	if expected := req.ExpectedStatus(); status != expected {
		return nil, core.NewAPIError(req.Path, expected, status, errorMessage(status, body))
	}

	headers := make(map[string]string)
	for k, v := range resp.Header() {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	return &Response{
		StatusCode: status,
		Body:       body,
		Headers:    headers,
	}, nil
}

// redactQuery drops the query string from the URL carried by err. The query
// holds api_key and dev_hash and must not reach logs or callers.
func redactQuery(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	return &url.Error{Op: uerr.Op, URL: stripQuery(uerr.URL), Err: uerr.Err}
}

func stripQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		if i := strings.IndexByte(raw, '?'); i >= 0 {
			return raw[:i]
		}
		return raw
	}
	u.RawQuery = ""
	u.ForceQuery = false
	return u.String()
}

// errorMessage prefers the envelope's meta.message, which OneSky fills on
// failed calls, over the generic status text.
func errorMessage(status int, body []byte) string {
	if node, err := sonic.Get(body, "meta", "message"); err == nil {
		if msg, err := node.String(); err == nil && msg != "" {
			return msg
		}
	}
	return http.StatusText(status)
}
