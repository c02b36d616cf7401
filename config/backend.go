package config

import (
	"strings"
	"time"
)

// BackendConfig contains the charging backend (CSMS) connection settings.
type BackendConfig struct {
	// URL is the backend origin without the /api suffix.
	URL string `env:"CSMS_URL" envDefault:"http://localhost:8000"`

	// Timeout bounds each backend round-trip.
	Timeout time.Duration `env:"CSMS_TIMEOUT" envDefault:"15s"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.URL = strings.TrimRight(strings.TrimSpace(b.URL), "/")
	if b.Timeout <= 0 {
		b.Timeout = 15 * time.Second
	}
}
