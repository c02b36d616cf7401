package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/voltfleet/cpconsole/config"
	"github.com/voltfleet/cpconsole/internal/adapters/memory"
	redisadapter "github.com/voltfleet/cpconsole/internal/adapters/redis"
	"github.com/voltfleet/cpconsole/internal/csms"
	"github.com/voltfleet/cpconsole/internal/gate"
	"github.com/voltfleet/cpconsole/internal/ports"
	"github.com/voltfleet/cpconsole/internal/service"
)

// ServiceContainer holds the wired application services.
type ServiceContainer struct {
	Backend  *csms.Client
	Auth     *service.AuthService
	Commands *service.CommandService
	Overview *service.OverviewService
	Gate     *gate.Gate

	redis *goredis.Client
}

// BuildServices wires storage, the backend client and the services. Redis
// backs sessions and command history unless disabled, in which case the
// in-memory adapters keep a single-instance deployment working.
func BuildServices(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (ServiceContainer, error) {
	var c ServiceContainer

	backend, err := csms.New(csms.Config{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return c, fmt.Errorf("backend client: %w", err)
	}
	c.Backend = backend

	var (
		sessions ports.SessionStore
		cmdLog   ports.CommandLog
	)
	if cfg.Redis.Disabled {
		logger.Warn("redis disabled, sessions will not survive restarts")
		sessions = memory.NewSessionStore()
		cmdLog = memory.NewCommandLog(cfg.Polling.CommandHistoryCap)
	} else {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return c, fmt.Errorf("redis ping: %w", err)
		}
		c.redis = rdb
		sessions = redisadapter.NewSessionStore(rdb)
		cmdLog = redisadapter.NewCommandLog(rdb, cfg.Polling.CommandHistoryCap)
	}

	c.Auth = service.NewAuthService(service.AuthServiceOptions{
		Backend:    backend,
		Sessions:   sessions,
		DefaultTTL: cfg.Auth.SessionTTL,
	})
	c.Commands = service.NewCommandService(service.CommandServiceOptions{
		Backend: backend,
		Log:     cmdLog,
	})
	c.Overview = service.NewOverviewService(service.OverviewServiceOptions{Backend: backend})

	c.Gate = gate.New(cfg.Polling.SplashDuration)
	return c, nil
}

// ResolveGate probes the backend and marks the startup gate's auth leg
// resolved. The gate converges once the splash timer has also elapsed,
// whichever side finishes first.
func (c ServiceContainer) ResolveGate(ctx context.Context, logger *slog.Logger) {
	if _, err := c.Backend.PublicChargePoints(ctx); err != nil {
		// The console still starts; pages surface backend errors per request.
		logger.Warn("backend probe failed during startup", "error", err)
	}
	c.Gate.ResolveAuth()
}

// Close releases resources held by the container.
func (c ServiceContainer) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
