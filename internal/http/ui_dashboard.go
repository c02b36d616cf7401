package httpx

import (
	"net/http"
	"time"

	"github.com/voltfleet/cpconsole/internal/csms"
)

// Dashboard renders the admin overview: fleet status buckets, revenue and
// the latest sessions. Served from the poller's snapshot when fresh, with
// a direct fetch as fallback so a cold start still renders.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "Dashboard", "dashboard")

	data, ok := h.Overview.SnapshotFresh(30 * time.Second)
	if !ok {
		var err error
		data, err = h.Overview.Fetch(r.Context(), BearerToken(r.Context()))
		if err != nil {
			h.Logger.Warn("dashboard fetch failed", "error", err)
			p.Error = backendError(err)
			h.renderPage(w, "dashboard.tmpl", p)
			return
		}
	}

	p.Data = dashboardView(data)
	h.renderPage(w, "dashboard.tmpl", p)
}

// DashboardRedirect preserves the legacy /dashboard URL.
func (h *UIHandlers) DashboardRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusMovedPermanently)
}

type dashboardPage struct {
	ChargePoints []csms.ChargePoint
	Sessions     []csms.ChargeSession
	Totals       csms.StatusTotals
	Revenue      csms.Revenue
	Online       int
	Total        int
}

func dashboardView(d csms.DashboardData) dashboardPage {
	online := 0
	for _, cp := range d.ChargePoints {
		if cp.Connected {
			online++
		}
	}
	return dashboardPage{
		ChargePoints: d.ChargePoints,
		Sessions:     d.Sessions,
		Totals:       d.Stats.Totals,
		Revenue:      d.Revenue,
		Online:       online,
		Total:        len(d.ChargePoints),
	}
}
