package config

import "time"

// PollingConfig contains splash gate and refresh loop timing.
type PollingConfig struct {
	// SplashDuration is the minimum time the splash screen stays up.
	SplashDuration time.Duration `env:"SPLASH_DURATION" envDefault:"2500ms"`

	// DashboardInterval is the dashboard snapshot refresh period.
	DashboardInterval time.Duration `env:"DASHBOARD_POLL_INTERVAL" envDefault:"5s"`

	// CommandHistoryCap bounds the per-operator command log.
	CommandHistoryCap int `env:"COMMAND_HISTORY_CAP" envDefault:"50"`
}

// Sanitize applies guardrails to polling configuration values.
func (p *PollingConfig) Sanitize() {
	if p.SplashDuration <= 0 {
		p.SplashDuration = 2500 * time.Millisecond
	}
	if p.DashboardInterval < time.Second {
		p.DashboardInterval = 5 * time.Second
	}
	if p.CommandHistoryCap <= 0 {
		p.CommandHistoryCap = 50
	}
}
