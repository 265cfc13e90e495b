package core

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultBaseURL is the root of the OneSky Platform API, version 1.
const DefaultBaseURL = "https://platform.api.onesky.io/1"

// Credentials holds the key pair issued by OneSky.
type Credentials struct {
	// APIKey is the public key sent as the api_key parameter.
	APIKey string `json:"api_key" mapstructure:"api_key" validate:"required"`
	// APISecret is the private key mixed into dev_hash. It is never sent.
	APISecret string `json:"api_secret" mapstructure:"api_secret" validate:"required"`
}

// Config contains all configuration options for a OneSky client.
type Config struct {
	Credentials *Credentials `json:"credentials,omitempty" mapstructure:"credentials" validate:"required"`

	BaseURL string `json:"base_url" mapstructure:"base_url" validate:"required,url"`

	// Timeout is the maximum duration for a single HTTP exchange.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout" validate:"min=1ms"`

	// RateLimitRequests and RateLimitPeriod enable client-side throttling.
	// Zero requests disables it.
	RateLimitRequests int           `json:"rate_limit_requests" mapstructure:"rate_limit_requests" validate:"min=0"`
	RateLimitPeriod   time.Duration `json:"rate_limit_period" mapstructure:"rate_limit_period" validate:"min=0"`

	LogLevel string `json:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
}

// DefaultConfig returns a Config with the production base URL, a 30s timeout
// and throttling disabled. Credentials must still be supplied.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:  DefaultBaseURL,
		Timeout:  30 * time.Second,
		LogLevel: "info",
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	if c.Credentials == nil || c.Credentials.APIKey == "" || c.Credentials.APISecret == "" {
		return ErrNoCredentials
	}
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.RateLimited() && c.RateLimitPeriod <= 0 {
		return errors.New("RateLimitPeriod must be positive when rate limiting is enabled")
	}
	return nil
}

// RateLimited reports whether client-side throttling is enabled.
func (c *Config) RateLimited() bool {
	return c.RateLimitRequests > 0
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *Config) WithCredentials(apiKey, apiSecret string) *Config {
	c.Credentials = &Credentials{APIKey: apiKey, APISecret: apiSecret}
	return c
}

// WithBaseURL overrides the API root and returns the config for chaining.
func (c *Config) WithBaseURL(baseURL string) *Config {
	c.BaseURL = baseURL
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRateLimit sets the rate limiting parameters and returns the config for chaining.
func (c *Config) WithRateLimit(requests int, period time.Duration) *Config {
	c.RateLimitRequests = requests
	c.RateLimitPeriod = period
	return c
}

// WithLogLevel sets the log level and returns the config for chaining.
func (c *Config) WithLogLevel(level string) *Config {
	c.LogLevel = level
	return c
}
