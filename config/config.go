package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config files for
// the available variables:
//   - backend.go: charging backend (CSMS) connection
//   - http.go: HTTP server configuration
//   - auth.go: sessions and login throttling
//   - redis.go: Redis connection
//   - polling.go: splash gate and dashboard refresh timing
type AppConfig struct {
	// IsDev controls development mode behavior (template reload from
	// disk, in-memory stores when Redis is absent). Set DEV=true or
	// NODE_ENV=development.
	IsDev bool `env:"DEV" envDefault:"false"`

	Backend BackendConfig
	HTTP    HTTPConfig
	Auth    AuthConfig
	Redis   RedisConfig `envPrefix:"REDIS_"`
	Polling PollingConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// Call after loading from environment variables.
func (c *AppConfig) Sanitize() {
	c.Backend.Sanitize()
	c.HTTP.Sanitize()
	c.Auth.Sanitize()
	c.Polling.Sanitize()
	c.detectDevMode()
}

// detectDevMode checks NODE_ENV as a fallback for the DEV flag.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
