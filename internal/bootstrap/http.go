package bootstrap

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	cpconsole "github.com/voltfleet/cpconsole"
	"github.com/voltfleet/cpconsole/config"
	httpx "github.com/voltfleet/cpconsole/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer builds the handler chain and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	templateFS, staticFS, err := assetFilesystems(appCfg.IsDev)
	if err != nil {
		return nil, err
	}

	renderer, err := httpx.NewTemplateRenderer(httpx.TemplateRendererConfig{
		TemplateFS: templateFS,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	handlers := &httpx.UIHandlers{
		T:            renderer,
		Auth:         cfg.Services.Auth,
		Commands:     cfg.Services.Commands,
		Overview:     cfg.Services.Overview,
		Backend:      cfg.Services.Backend,
		Gate:         cfg.Services.Gate,
		Logger:       logger,
		CookieName:   appCfg.Auth.SessionCookieName,
		CookieDomain: appCfg.HTTP.CookieDomain,
		CookieSecure: appCfg.HTTP.CookieSecure,
	}

	handler := httpx.NewRouter(httpx.RouterConfig{
		Handlers:           handlers,
		Auth:               cfg.Services.Auth,
		Gate:               cfg.Services.Gate,
		Logger:             logger,
		SessionCookieName:  appCfg.Auth.SessionCookieName,
		LoginRatePerMinute: appCfg.Auth.LoginRatePerMinute,
		LoginRateBurst:     appCfg.Auth.LoginRateBurst,
		StaticFS:           staticFS,
	})

	return startServer(logger, handler, appCfg.HTTP.Addr), nil
}

// assetFilesystems returns the template and static filesystems. Dev mode
// reads from disk for hot reloading; production uses the embedded copies.
func assetFilesystems(isDev bool) (fs.FS, fs.FS, error) {
	if isDev {
		return os.DirFS("frontend/templates"), os.DirFS("frontend/static"), nil
	}
	templates, err := fs.Sub(cpconsole.TemplateFS, "frontend/templates")
	if err != nil {
		return nil, nil, err
	}
	static, err := fs.Sub(cpconsole.StaticFS, "frontend/static")
	if err != nil {
		return nil, nil, err
	}
	return templates, static, nil
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(cfg.Context, timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}
	return nil
}
