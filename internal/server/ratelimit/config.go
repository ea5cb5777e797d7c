package ratelimit

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Settings are the RATE_LIMIT_* environment variables.
type Settings struct {
	Enabled         bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	DefaultLimit    int           `envconfig:"RATE_LIMIT_DEFAULT_LIMIT" default:"1000"`
	DefaultWindow   time.Duration `envconfig:"RATE_LIMIT_DEFAULT_WINDOW" default:"1m"`
	ModelLimit      int           `envconfig:"RATE_LIMIT_MODEL_LIMIT" default:"60"`
	ModelWindow     time.Duration `envconfig:"RATE_LIMIT_MODEL_WINDOW" default:"1m"`
	CleanupInterval time.Duration `envconfig:"RATE_LIMIT_CLEANUP_INTERVAL" default:"5m"`
	Whitelist       []string      `envconfig:"RATE_LIMIT_WHITELIST"`
	Blacklist       []string      `envconfig:"RATE_LIMIT_BLACKLIST"`
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() (*Config, error) {
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, fmt.Errorf("failed to read rate limit settings: %w", err)
	}
	return s.Config(), nil
}

// Config converts the settings into a limiter configuration.
func (s Settings) Config() *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		Whitelist:       ipSet(s.Whitelist),
		Blacklist:       ipSet(s.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(s.ModelLimit, s.ModelWindow),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific configurations. Endpoints that
// may call the model share modelLimit per window; exports get twice that.
func DefaultEndpointConfigs(modelLimit int, modelWindow time.Duration) []EndpointConfig {
	burst := max(modelLimit/6, 1)
	var configs []EndpointConfig
	for _, path := range []string{
		"/generate", "/api/generate",
		"/variants", "/variants/stream",
		"/polish", "/api/polish-variants",
	} {
		configs = append(configs, EndpointConfig{Path: path, Method: "POST", Limit: modelLimit, Window: modelWindow, Burst: burst})
	}
	return append(configs, EndpointConfig{
		Path: "/api/export", Method: "POST", Limit: 2 * modelLimit, Window: modelWindow, Burst: 2 * burst,
	})
}

// ipSet turns a list of IP addresses into a lookup set.
func ipSet(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, ip := range list {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
