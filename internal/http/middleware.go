package httpx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	domainauth "github.com/voltfleet/cpconsole/internal/domain/auth"
	"github.com/voltfleet/cpconsole/internal/domain/guard"
	"github.com/voltfleet/cpconsole/internal/gate"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionResolver is the subset of the auth service the middleware needs.
type SessionResolver interface {
	GetSession(ctx context.Context, sessionID string) (domainauth.Session, error)
}

// SessionLoader loads the session named by the cookie into the request
// context. Missing or expired sessions just leave the request
// unauthenticated; the guard decides what that means per route.
func SessionLoader(auth SessionResolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err == nil && cookie.Value != "" {
				if sess, err := auth.GetSession(r.Context(), cookie.Value); err == nil {
					r = r.WithContext(SetSessionInContext(r.Context(), &sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guard applies the route guard to every browser navigation. Denied
// requests are redirected to the decision's target; the guard guarantees
// the target passes for the same session, so there is never a second hop.
func Guard() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypassesGuard(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			in := guard.Input{Path: r.URL.Path}
			if sess, ok := GetUserSessionFromContext(r.Context()); ok {
				in.Authenticated = true
				in.Role = sess.Role
			}

			decision := guard.Decide(in)
			if !decision.Allow {
				http.Redirect(w, r, decision.RedirectTo, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bypassesGuard lists non-page paths the guard does not apply to.
func bypassesGuard(path string) bool {
	if path == "/healthz" || path == "/logout" {
		return true
	}
	return strings.HasPrefix(path, "/static/")
}

// Splash holds every page on the splash screen until the startup gate is
// ready. The splash page refreshes itself; no route tree is reachable
// before convergence.
func Splash(g *gate.Gate, render func(w http.ResponseWriter, r *http.Request, state gate.State)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g == nil || g.IsReady() || bypassesGuard(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			render(w, r, g.State())
		})
	}
}

// ipLimiter hands out one token-bucket limiter per client IP.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newIPLimiter(perMinute, burst int) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[ip] = lim
	}
	return lim.Allow()
}

// LoginRateLimit throttles credential-handling POSTs per client IP so the
// console cannot be used to brute-force the backend.
func LoginRateLimit(perMinute, burst int) func(http.Handler) http.Handler {
	limiter := newIPLimiter(perMinute, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && !limiter.allow(clientIP(r)) {
				http.Error(w, "Too many attempts. Try again shortly.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, found := strings.Cut(fwd, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
