package config

// RedisConfig contains Redis connection configuration.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`

	// Disabled switches session and history storage to in-memory stores.
	// Only sensible in development.
	Disabled bool `env:"DISABLED" envDefault:"false"`
}
