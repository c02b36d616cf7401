package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/voltfleet/cpconsole/internal/gate"
)

// RouterConfig groups everything NewRouter needs.
type RouterConfig struct {
	Handlers *UIHandlers
	Auth     SessionResolver
	Gate     *gate.Gate
	Logger   *slog.Logger

	SessionCookieName  string
	LoginRatePerMinute int
	LoginRateBurst     int

	// StaticFS serves /static/ assets; nil disables the route.
	StaticFS fs.FS
}

// NewRouter builds the full handler chain: panic recovery, request
// logging, the startup gate, session loading, the route guard, then the
// page mux.
func NewRouter(cfg RouterConfig) http.Handler {
	h := cfg.Handlers
	mux := http.NewServeMux()

	// Public pages.
	mux.HandleFunc("GET /home", h.Home)
	mux.HandleFunc("GET /splash", h.SplashPage)
	mux.HandleFunc("GET /login", h.LoginPage)
	mux.HandleFunc("GET /signup", h.SignupPage)
	mux.HandleFunc("GET /forgot-password", h.ForgotPasswordPage)
	mux.HandleFunc("GET /reset-password", h.ResetPasswordPage)
	mux.HandleFunc("GET /reset-password/{uid}/{token}", h.ResetPasswordPage)
	mux.HandleFunc("GET /logout", h.Logout)

	// Credential POSTs go through the per-IP limiter.
	limited := LoginRateLimit(cfg.LoginRatePerMinute, cfg.LoginRateBurst)
	mux.Handle("POST /login", limited(http.HandlerFunc(h.LoginSubmit)))
	mux.Handle("POST /signup", limited(http.HandlerFunc(h.SignupSubmit)))
	mux.Handle("POST /forgot-password", limited(http.HandlerFunc(h.ForgotPasswordSubmit)))
	mux.Handle("POST /reset-password", limited(http.HandlerFunc(h.ResetPasswordSubmit)))

	// Admin pages.
	mux.HandleFunc("GET /{$}", h.Dashboard)
	mux.HandleFunc("GET /dashboard", h.DashboardRedirect)
	mux.HandleFunc("GET /cp/{id}", h.ChargePointDetail)
	mux.HandleFunc("POST /cp/{id}", h.UpdateChargePoint)
	mux.HandleFunc("POST /cp/{id}/prices", h.AddUserPrice)
	mux.HandleFunc("POST /cp/{id}/prices/{priceID}", h.UpdateUserPrice)
	mux.HandleFunc("POST /cp/{id}/prices/{priceID}/delete", h.DeleteUserPrice)
	mux.HandleFunc("GET /manage", h.ManagePage)
	mux.HandleFunc("GET /diagnose", h.DiagnoseList)
	mux.HandleFunc("GET /diagnose/{id}", h.DiagnoseDetail)
	mux.HandleFunc("POST /diagnose/{id}/commands", h.DispatchCommand)
	mux.HandleFunc("GET /reports", h.ReportsPage)
	mux.HandleFunc("POST /reports", h.GenerateReport)
	mux.HandleFunc("GET /history", h.SessionHistory)
	mux.HandleFunc("GET /profile", h.ProfilePage)

	// Driver pages.
	mux.HandleFunc("GET /app", h.AppHome)
	mux.HandleFunc("GET /app/nearby", h.AppNearby)
	mux.HandleFunc("GET /app/timeline", h.AppTimeline)
	mux.HandleFunc("GET /app/cp/{ref}", h.PublicChargePointDetail)
	mux.HandleFunc("POST /app/cp/{id}/checkout", h.StartCheckout)
	mux.HandleFunc("GET /app/cp/{id}/start", h.StartAfterCheckout)
	mux.HandleFunc("POST /app/cp/{id}/start", h.StartAfterCheckout)
	mux.HandleFunc("POST /app/cp/{id}/stop", h.StopCharging)

	mux.HandleFunc("GET /healthz", h.Healthz)
	if cfg.StaticFS != nil {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(cfg.StaticFS)))
	}

	// Anything unmatched renders the shared not-found page.
	mux.HandleFunc("/", h.NotFound)

	var handler http.Handler = mux
	handler = Guard()(handler)
	handler = SessionLoader(cfg.Auth, cfg.SessionCookieName)(handler)
	handler = Splash(cfg.Gate, h.RenderSplash)(handler)
	handler = Logging(cfg.Logger)(handler)
	handler = Recover(cfg.Logger)(handler)
	return handler
}
