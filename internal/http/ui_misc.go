package httpx

import (
	"net/http"

	"github.com/voltfleet/cpconsole/internal/gate"
)

// Home is the public landing page. It shows the publicly visible charge
// points so drivers can find a station without an account.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "Welcome", "home")

	cps, err := h.Backend.PublicChargePoints(r.Context())
	if err != nil {
		// The landing page still renders without the map data.
		h.Logger.Warn("public charge points unavailable", "error", err)
	}
	p.Data = cps
	h.renderPage(w, "home.tmpl", p)
}

// SplashPage shows the boot screen with the current gate state. Once the
// gate is ready it forwards to the landing page so a bookmarked /splash
// never strands the browser.
func (h *UIHandlers) SplashPage(w http.ResponseWriter, r *http.Request) {
	if h.Gate != nil && h.Gate.IsReady() {
		http.Redirect(w, r, "/home", http.StatusFound)
		return
	}
	h.RenderSplash(w, r, h.gateState())
}

// RenderSplash writes the splash document. Also used by the gate
// middleware to hold early requests.
func (h *UIHandlers) RenderSplash(w http.ResponseWriter, r *http.Request, state gate.State) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Refresh", "1")
	p := h.page(r, "Starting up", "")
	p.Data = state.String()
	h.renderPage(w, "splash.tmpl", p)
}

func (h *UIHandlers) gateState() gate.State {
	if h.Gate == nil {
		return gate.StateReady
	}
	return h.Gate.State()
}

// Healthz reports process liveness and gate readiness.
func (h *UIHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"ready":  h.Gate == nil || h.Gate.IsReady(),
	})
}

// NotFound renders the shared error page for unknown routes.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "That page does not exist.")
}
