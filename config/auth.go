package config

import "time"

// AuthConfig contains session and login throttling configuration.
type AuthConfig struct {
	// SessionCookieName is the cookie carrying the session ID.
	SessionCookieName string `env:"AUTH_SESSION_COOKIE" envDefault:"session_id"`

	// SessionTTL is the session lifetime when the backend token carries
	// no usable expiry.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"12h"`

	// LoginRatePerMinute caps login/signup/reset attempts per client IP.
	LoginRatePerMinute int `env:"AUTH_LOGIN_RATE_PER_MINUTE" envDefault:"10"`

	// LoginRateBurst is the burst allowance on top of the rate.
	LoginRateBurst int `env:"AUTH_LOGIN_RATE_BURST" envDefault:"5"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionCookieName == "" {
		a.SessionCookieName = "session_id"
	}
	if a.SessionTTL <= 0 {
		a.SessionTTL = 12 * time.Hour
	}
	if a.LoginRatePerMinute <= 0 {
		a.LoginRatePerMinute = 10
	}
	if a.LoginRateBurst <= 0 {
		a.LoginRateBurst = 5
	}
}
