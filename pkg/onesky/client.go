package onesky

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"onesky/internal/auth"
	httpClient "onesky/internal/http"
	"onesky/internal/obs"
	"onesky/internal/ratelimit"
	"onesky/internal/transport"
	"onesky/pkg/core"
	"onesky/pkg/pipeline"
)

// UserAgent is sent with every request.
const UserAgent = "onesky-go/1"

// Client is a OneSky Platform API client. It is safe for concurrent use;
// concurrent calls are independent round trips sharing one connection pool.
type Client struct {
	config     *core.Config
	httpClient *httpClient.Client
	pipeline   *pipeline.Pipeline
	limiter    *ratelimit.Limiter
	logger     zerolog.Logger

	projectGroups *ProjectGroups
	projects      *Projects
	projectTypes  *ProjectTypes
	locales       *Locales
	files         *Files
	importTasks   *ImportTasks
	translations  *Translations
}

// Option is a functional option for configuring the Client.
type Option func(*Options)

// Options holds configuration options for the Client.
type Options struct {
	Logger     zerolog.Logger
	Registerer prometheus.Registerer
	Clock      func() time.Time

	rateLimitRequests int
	rateLimitPeriod   time.Duration
}

// WithLogger returns an option that sets the logger for the client.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithRegisterer returns an option that registers request metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *Options) {
		o.Registerer = reg
	}
}

// WithRateLimit returns an option that throttles the client to requests per
// period, overriding the config.
func WithRateLimit(requests int, period time.Duration) Option {
	return func(o *Options) {
		o.rateLimitRequests = requests
		o.rateLimitPeriod = period
	}
}

// WithClock returns an option that replaces the clock used for request timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Clock = now
	}
}

// New creates a Client from config. The config is validated and must carry credentials.
func New(config *core.Config, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	options := &Options{
		Logger:            zerolog.Nop(),
		rateLimitRequests: config.RateLimitRequests,
		rateLimitPeriod:   config.RateLimitPeriod,
	}
	for _, opt := range opts {
		opt(options)
	}

	hc, err := httpClient.NewClient(&httpClient.Config{
		BaseURL:   config.BaseURL,
		Timeout:   config.Timeout,
		UserAgent: UserAgent,
	}, options.Logger)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	signer := auth.NewSigner(config.Credentials.APIKey, config.Credentials.APISecret)
	if options.Clock != nil {
		signer.WithClock(options.Clock)
	}

	var execOpts []transport.ExecutorOption

	var rl *ratelimit.Limiter
	if options.rateLimitRequests > 0 && options.rateLimitPeriod > 0 {
		rl = ratelimit.New(options.rateLimitRequests, options.rateLimitPeriod)
		execOpts = append(execOpts, transport.WithLimiter(rl))
	}

	if options.Registerer != nil {
		metrics, err := obs.NewMetrics(options.Registerer)
		if err != nil {
			hc.Close()
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		execOpts = append(execOpts, transport.WithMetrics(metrics))
	}

	p := pipeline.New(transport.NewExecutor(hc, signer, options.Logger, execOpts...))

	return &Client{
		config:        config,
		httpClient:    hc,
		pipeline:      p,
		limiter:       rl,
		logger:        options.Logger,
		projectGroups: &ProjectGroups{pipeline: p},
		projects:      &Projects{pipeline: p},
		projectTypes:  &ProjectTypes{pipeline: p},
		locales:       &Locales{pipeline: p},
		files:         &Files{pipeline: p},
		importTasks:   &ImportTasks{pipeline: p},
		translations:  &Translations{pipeline: p},
	}, nil
}

// Close releases the connection pool. Calls made after Close fail with
// core.ErrClientClosed.
func (c *Client) Close() error {
	return c.httpClient.Close()
}

func (c *Client) ProjectGroups() *ProjectGroups { return c.projectGroups }
func (c *Client) Projects() *Projects           { return c.projects }
func (c *Client) ProjectTypes() *ProjectTypes   { return c.projectTypes }
func (c *Client) Locales() *Locales             { return c.locales }
func (c *Client) Files() *Files                 { return c.files }
func (c *Client) ImportTasks() *ImportTasks     { return c.importTasks }
func (c *Client) Translations() *Translations   { return c.translations }

// RateLimitStats returns the throttle counters and false when throttling is off.
func (c *Client) RateLimitStats() (ratelimit.Stats, bool) {
	if c.limiter == nil {
		return ratelimit.Stats{}, false
	}
	return c.limiter.Stats(), true
}
