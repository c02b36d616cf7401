package httpx

import (
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/voltfleet/cpconsole/internal/csms"
)

// AppHome is the driver landing page: a map of public stations.
func (h *UIHandlers) AppHome(w http.ResponseWriter, r *http.Request) {
	cps, err := h.Backend.PublicChargePoints(r.Context())
	if err != nil {
		h.renderError(w, r, http.StatusBadGateway, backendError(err))
		return
	}

	p := h.page(r, "Find a charger", "app")
	p.Data = cps
	h.renderPage(w, "app_map.tmpl", p)
}

// AppNearby lists public stations sorted by distance to the driver's
// position when lat/lng query params are present, connected-first
// otherwise.
func (h *UIHandlers) AppNearby(w http.ResponseWriter, r *http.Request) {
	cps, err := h.Backend.PublicChargePoints(r.Context())
	if err != nil {
		h.renderError(w, r, http.StatusBadGateway, backendError(err))
		return
	}

	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr == nil && lngErr == nil {
		sortByDistance(cps, lat, lng)
	} else {
		sort.SliceStable(cps, func(i, j int) bool {
			return cps[i].Connected && !cps[j].Connected
		})
	}

	p := h.page(r, "Nearby chargers", "app")
	p.Data = cps
	h.renderPage(w, "app_nearby.tmpl", p)
}

// sortByDistance orders stations by squared equirectangular distance to
// the given point. Stations without coordinates sort last.
func sortByDistance(cps []csms.ChargePoint, lat, lng float64) {
	dist := func(cp csms.ChargePoint) float64 {
		if cp.Lat == nil || cp.Lng == nil {
			return 1e18
		}
		dLat := *cp.Lat - lat
		dLng := *cp.Lng - lng
		return dLat*dLat + dLng*dLng
	}
	sort.SliceStable(cps, func(i, j int) bool { return dist(cps[i]) < dist(cps[j]) })
}

// AppTimeline shows the driver's own charging sessions.
func (h *UIHandlers) AppTimeline(w http.ResponseWriter, r *http.Request) {
	pageNum := queryInt(r, "page", 1, 1)
	page, err := h.Backend.SessionsPage(r.Context(), BearerToken(r.Context()), pageNum, historyPageSize)
	if err != nil {
		h.renderError(w, r, http.StatusBadGateway, backendError(err))
		return
	}

	hasNext := len(page.Results) == historyPageSize
	if page.Count >= 0 {
		hasNext = pageNum*historyPageSize < page.Count
	}

	p := h.page(r, "My sessions", "app")
	p.Data = map[string]any{
		"Sessions": page.Results,
		"Page":     pageNum,
		"HasPrev":  pageNum > 1,
		"HasNext":  hasNext,
	}
	h.renderPage(w, "app_timeline.tmpl", p)
}

// PublicChargePointDetail shows one public station with the checkout
// entry point. The station may be addressed by numeric id or by code.
func (h *UIHandlers) PublicChargePointDetail(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")

	var (
		cp  csms.ChargePoint
		err error
	)
	if id, convErr := strconv.Atoi(ref); convErr == nil {
		cp, err = h.Backend.PublicChargePoint(r.Context(), id)
	} else {
		cp, err = h.Backend.PublicChargePointByCode(r.Context(), ref)
	}
	if err != nil {
		if csms.IsStatus(err, http.StatusNotFound) {
			h.NotFound(w, r)
			return
		}
		h.renderError(w, r, http.StatusBadGateway, backendError(err))
		return
	}

	p := h.page(r, cp.Name, "app")
	p.Flash = r.URL.Query().Get("msg")
	p.Error = r.URL.Query().Get("err")
	p.Data = cp
	h.renderPage(w, "app_cp.tmpl", p)
}

// StartCheckout creates a payment session for a station and forwards the
// browser to the provider's checkout URL.
func (h *UIHandlers) StartCheckout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}

	cents := queryFormInt(r, "amount_cents")
	if cents <= 0 {
		h.redirectAppCP(w, r, id, "", "Choose an amount first.")
		return
	}

	resp, err := h.Backend.Checkout(r.Context(), BearerToken(r.Context()), id, csms.CheckoutRequest{
		AmountCents: cents,
		Currency:    "eur",
	})
	if err != nil {
		h.redirectAppCP(w, r, id, "", backendError(err))
		return
	}
	if resp.URL == "" {
		h.redirectAppCP(w, r, id, "", "The payment provider did not return a checkout link.")
		return
	}
	http.Redirect(w, r, resp.URL, http.StatusSeeOther)
}

// StartAfterCheckout begins charging once the payment provider bounced
// the browser back with the checkout session id.
func (h *UIHandlers) StartAfterCheckout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}
	checkoutID := r.URL.Query().Get("session_id")
	if checkoutID == "" {
		checkoutID = r.PostFormValue("session_id")
	}
	if checkoutID == "" {
		h.redirectAppCP(w, r, id, "", "Missing checkout session.")
		return
	}

	detail, err := h.Backend.StartAfterCheckout(r.Context(), BearerToken(r.Context()), id, checkoutID)
	if err != nil {
		h.redirectAppCP(w, r, id, "", backendError(err))
		return
	}
	msg := detail.Detail
	if msg == "" {
		msg = "Charging started."
	}
	h.redirectAppCP(w, r, id, msg, "")
}

// StopCharging ends the driver's active session on a station.
func (h *UIHandlers) StopCharging(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}

	detail, err := h.Backend.Stop(r.Context(), BearerToken(r.Context()), id)
	if err != nil {
		h.redirectAppCP(w, r, id, "", backendError(err))
		return
	}
	msg := detail.Detail
	if msg == "" {
		msg = "Charging stopped."
	}
	h.redirectAppCP(w, r, id, msg, "")
}

func (h *UIHandlers) redirectAppCP(w http.ResponseWriter, r *http.Request, id int, msg, errMsg string) {
	target := "/app/cp/" + strconv.Itoa(id)
	if msg != "" {
		target += "?msg=" + url.QueryEscape(msg)
	} else if errMsg != "" {
		target += "?err=" + url.QueryEscape(errMsg)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func queryFormInt(r *http.Request, name string) int {
	raw := r.PostFormValue(name)
	if raw == "" {
		raw = r.URL.Query().Get(name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}

// ProfilePage shows the signed-in account as reported by the backend.
func (h *UIHandlers) ProfilePage(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Backend.Me(r.Context(), BearerToken(r.Context()))
	if err != nil {
		h.renderError(w, r, http.StatusBadGateway, backendError(err))
		return
	}

	p := h.page(r, "Profile", "profile")
	p.Data = profile
	h.renderPage(w, "profile.tmpl", p)
}
