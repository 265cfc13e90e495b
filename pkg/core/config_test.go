package core

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Nil(t, config.Credentials)
	assert.Equal(t, DefaultBaseURL, config.BaseURL)
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Zero(t, config.RateLimitRequests)
	assert.False(t, config.RateLimited())
	assert.Equal(t, "info", config.LogLevel)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid_config",
			config:  DefaultConfig().WithCredentials("key", "secret"),
			wantErr: false,
		},
		{
			name:    "missing_credentials",
			config:  DefaultConfig(),
			wantErr: true,
			errMsg:  "no credentials",
		},
		{
			name:    "empty_secret",
			config:  DefaultConfig().WithCredentials("key", ""),
			wantErr: true,
			errMsg:  "no credentials",
		},
		{
			name:    "invalid_base_url",
			config:  DefaultConfig().WithCredentials("key", "secret").WithBaseURL("not a url"),
			wantErr: true,
			errMsg:  "BaseURL",
		},
		{
			name:    "invalid_timeout",
			config:  DefaultConfig().WithCredentials("key", "secret").WithTimeout(-1 * time.Second),
			wantErr: true,
			errMsg:  "Timeout",
		},
		{
			name:    "negative_rate_limit_requests",
			config:  DefaultConfig().WithCredentials("key", "secret").WithRateLimit(-1, time.Second),
			wantErr: true,
			errMsg:  "RateLimitRequests",
		},
		{
			name:    "rate_limit_without_period",
			config:  DefaultConfig().WithCredentials("key", "secret").WithRateLimit(10, 0),
			wantErr: true,
			errMsg:  "RateLimitPeriod",
		},
		{
			name:    "rate_limit_enabled",
			config:  DefaultConfig().WithCredentials("key", "secret").WithRateLimit(10, time.Second),
			wantErr: false,
		},
		{
			name:    "invalid_log_level",
			config:  DefaultConfig().WithCredentials("key", "secret").WithLogLevel("loud"),
			wantErr: true,
			errMsg:  "LogLevel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), tt.errMsg), "expected error to contain %q, got %q", tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_WithCredentials(t *testing.T) {
	config := DefaultConfig()
	result := config.WithCredentials("test-key", "test-secret")

	assert.Equal(t, config, result)
	assert.Equal(t, &Credentials{APIKey: "test-key", APISecret: "test-secret"}, config.Credentials)
}

func TestConfig_WithBaseURL(t *testing.T) {
	config := DefaultConfig()
	result := config.WithBaseURL("http://127.0.0.1:8080/1")

	assert.Equal(t, config, result)
	assert.Equal(t, "http://127.0.0.1:8080/1", config.BaseURL)
}

func TestConfig_WithTimeout(t *testing.T) {
	config := DefaultConfig()
	result := config.WithTimeout(5 * time.Second)

	assert.Equal(t, config, result)
	assert.Equal(t, 5*time.Second, config.Timeout)
}

func TestConfig_WithRateLimit(t *testing.T) {
	config := DefaultConfig()
	result := config.WithRateLimit(100, 10*time.Second)

	assert.Equal(t, config, result)
	assert.Equal(t, 100, config.RateLimitRequests)
	assert.Equal(t, 10*time.Second, config.RateLimitPeriod)
	assert.True(t, config.RateLimited())
}
