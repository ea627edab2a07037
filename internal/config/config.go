package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/Gani-23/KrushiGowrava/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Redis session state
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Session state TTL in hours (default: 30 days, mirroring how long a
	// browser keeps local storage around in practice)
	SessionTTL int `env:"SESSION_TTL_HOURS" envDefault:"720"`

	// Remote collaborators
	CatalogBaseURL string `env:"CATALOG_BASE_URL" envDefault:"https://oauth4-0.on.shiper.app/api"`
	ChatbotURL     string `env:"CHATBOT_URL" envDefault:"http://localhost:5000/api/chat"`

	// Search settle window in milliseconds
	SearchDebounceMS int `env:"SEARCH_DEBOUNCE_MS" envDefault:"500"`

	// Outbound fetch timeout in seconds for debounced background fetches
	FetchTimeoutSec int `env:"FETCH_TIMEOUT_SEC" envDefault:"15"`

	// Checkout handoff
	WhatsAppNumber string `env:"WHATSAPP_NUMBER" envDefault:"9182345999"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SessionTTLDuration returns the session TTL as a duration.
func (c *Config) SessionTTLDuration() time.Duration {
	return time.Duration(c.SessionTTL) * time.Hour
}

// SearchDebounce returns the search settle window as a duration.
func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMS) * time.Millisecond
}

// FetchTimeout returns the background fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CatalogBaseURL == "" {
		return fmt.Errorf("catalog base URL is required")
	}
	if c.SearchDebounceMS < 0 {
		return fmt.Errorf("invalid search debounce: %d", c.SearchDebounceMS)
	}
	return nil
}
