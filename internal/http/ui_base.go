package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/voltfleet/cpconsole/internal/csms"
	domainauth "github.com/voltfleet/cpconsole/internal/domain/auth"
	"github.com/voltfleet/cpconsole/internal/gate"
	"github.com/voltfleet/cpconsole/internal/service"
)

// UIHandlers serves the browser-facing pages of the console.
type UIHandlers struct {
	T        *TemplateRenderer
	Auth     *service.AuthService
	Commands *service.CommandService
	Overview *service.OverviewService
	Backend  *csms.Client
	Gate     *gate.Gate
	Logger   *slog.Logger

	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// Page is the data envelope every page template receives.
type Page struct {
	Title   string
	Active  string
	Session *domainauth.Session
	Flash   string
	Error   string
	Data    any
}

// page builds the envelope with the request's session filled in.
func (h *UIHandlers) page(r *http.Request, title, active string) Page {
	return Page{
		Title:   title,
		Active:  active,
		Session: GetSessionFromContext(r.Context()),
	}
}

// renderPage writes the named template; on template failure the client
// gets a plain 500 since we may already have partial output.
func (h *UIHandlers) renderPage(w http.ResponseWriter, name string, p Page) {
	if err := h.T.RenderPage(w, name, p); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// renderError shows the shared error page with a message and status code.
func (h *UIHandlers) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	w.WriteHeader(status)
	p := h.page(r, "Error", "")
	p.Error = msg
	if err := h.T.RenderPage(w, "error.tmpl", p); err != nil {
		// Header already sent; nothing else to do.
		h.Logger.Error("error page render failed", slog.Any("error", err))
	}
}

// backendError turns a CSMS call failure into a page-level message,
// preserving the backend's own wording when it gave one.
func backendError(err error) string {
	var apiErr *csms.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "The charging backend is unreachable. Try again shortly."
}

// setSessionCookie issues the browser session cookie after login.
func (h *UIHandlers) setSessionCookie(w http.ResponseWriter, sess domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    sess.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie on logout.
func (h *UIHandlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// pathInt parses a numeric path value, e.g. the charge point pk.
func pathInt(r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// queryInt reads an integer query parameter with a default and floor.
func queryInt(r *http.Request, name string, def, min int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < min {
		return def
	}
	return v
}
