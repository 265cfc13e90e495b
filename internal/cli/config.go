package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"onesky/pkg/core"
)

// FileConfig is the layout of the CLI config file. Every key can also be set
// through an ONESKY_ environment variable, e.g. ONESKY_API_KEY or
// ONESKY_RATE_LIMIT_REQUESTS.
type FileConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	APISecret string        `mapstructure:"api_secret"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit struct {
		Requests int           `mapstructure:"requests"`
		Period   time.Duration `mapstructure:"period"`
	} `mapstructure:"rate_limit"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// LoadConfig reads configPath, or config.yaml from the usual locations when
// configPath is empty. A missing default file is not an error; the
// environment alone can configure the client.
func LoadConfig(configPath string) (*FileConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("onesky")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".onesky"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg FileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateLogging(cfg.Logging); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := core.DefaultConfig()

	// Unset keys are invisible to Unmarshal unless they have a default.
	v.SetDefault("api_key", "")
	v.SetDefault("api_secret", "")
	v.SetDefault("base_url", defaults.BaseURL)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("rate_limit.requests", 0)
	v.SetDefault("rate_limit.period", time.Duration(0))

	v.SetDefault("logging.level", defaults.LogLevel)
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

func validateLogging(cfg LoggingConfig) error {
	switch cfg.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging format: %s", cfg.Format)
	}
	return nil
}

// ClientConfig converts the file layout into a validated client config.
func (c *FileConfig) ClientConfig() (*core.Config, error) {
	config := core.DefaultConfig().
		WithBaseURL(c.BaseURL).
		WithTimeout(c.Timeout).
		WithRateLimit(c.RateLimit.Requests, c.RateLimit.Period).
		WithLogLevel(c.Logging.Level)
	if c.APIKey != "" || c.APISecret != "" {
		config = config.WithCredentials(c.APIKey, c.APISecret)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
