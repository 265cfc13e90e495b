package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"resty.dev/v3"
)

// ErrClosed is returned by Request after Close.
var ErrClosed = errors.New("http client is closed")

// Client owns the pooled resty client shared by every call of one OneSky client.
type Client struct {
	client   *resty.Client
	logger   zerolog.Logger
	mu       sync.RWMutex
	closed   bool
	inFlight sync.WaitGroup
}

type Config struct {
	BaseURL   string            `validate:"required,url"`
	Timeout   time.Duration     `validate:"min=1ms"`
	UserAgent string            `validate:"omitempty"`
	Headers   map[string]string `validate:"omitempty"`
}

func NewClient(config *Config, logger zerolog.Logger) (*Client, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := resty.New()
	client.SetBaseURL(config.BaseURL)
	client.SetTimeout(config.Timeout)
	client.SetRetryCount(0)
	if config.UserAgent != "" {
		client.SetHeader("User-Agent", config.UserAgent)
	}
	client.AddContentTypeEncoder("application/json", func(w io.Writer, v any) error {
		data, err := sonic.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})
	client.AddContentTypeDecoder("application/json", func(r io.Reader, v any) error {
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		return sonic.Unmarshal(data, v)
	})

	for k, v := range config.Headers {
		client.SetHeader(k, v)
	}

	// The query string carries dev_hash, so only the path is logged.
	client.AddResponseMiddleware(func(_ *resty.Client, resp *resty.Response) error {
		path := ""
		if raw := resp.Request.RawRequest; raw != nil && raw.URL != nil {
			path = raw.URL.Path
		}
		logger.Trace().
			Str("method", resp.Request.Method).
			Str("path", path).
			Int("status", resp.StatusCode()).
			Msg("http response")
		return nil
	})

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// Close rejects new requests, waits for the ones already handed out to be
// released and then closes the connection pool.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.inFlight.Wait()
	return c.client.Close()
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Request returns a new request bound to ctx, or ErrClosed. The caller must
// call release once the request has completed; Close waits for it.
func (c *Client) Request(ctx context.Context) (req *resty.Request, release func(), err error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, nil, ErrClosed
	}
	c.inFlight.Add(1)
	return c.client.R().SetContext(ctx), c.inFlight.Done, nil
}
