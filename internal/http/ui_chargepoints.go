package httpx

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/voltfleet/cpconsole/internal/csms"
)

type chargePointPage struct {
	CP         csms.ChargePoint
	UserPrices []csms.UserPrice
	Sessions   []csms.ChargeSession
}

// ChargePointDetail renders one station with its recent sessions and any
// per-user price overrides.
func (h *UIHandlers) ChargePointDetail(w http.ResponseWriter, r *http.Request) {
	pk, ok := pathInt(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}

	token := BearerToken(r.Context())
	cp, err := h.Backend.ChargePoint(r.Context(), token, pk)
	if err != nil {
		if csms.IsStatus(err, http.StatusNotFound) {
			h.NotFound(w, r)
			return
		}
		h.renderError(w, r, http.StatusBadGateway, backendError(err))
		return
	}

	view := chargePointPage{CP: cp}
	if prices, err := h.Backend.UserPrices(r.Context(), token, pk); err == nil {
		view.UserPrices = prices
	}
	if sessions, err := h.Backend.RecentSessions(r.Context(), token, 20); err == nil {
		view.Sessions = filterSessionsByCP(sessions, cp.Key())
	}

	p := h.page(r, cp.Name, "cp")
	p.Flash = r.URL.Query().Get("msg")
	p.Error = r.URL.Query().Get("err")
	p.Data = view
	h.renderPage(w, "cp_detail.tmpl", p)
}

func filterSessionsByCP(sessions []csms.ChargeSession, key int) []csms.ChargeSession {
	out := sessions[:0:0]
	for _, s := range sessions {
		if s.ChargePoint == key {
			out = append(out, s)
		}
	}
	return out
}

// ManagePage lists the fleet with inline pricing and location controls.
func (h *UIHandlers) ManagePage(w http.ResponseWriter, r *http.Request) {
	cps, err := h.Backend.ChargePoints(r.Context(), BearerToken(r.Context()))
	if err != nil {
		h.renderError(w, r, http.StatusBadGateway, backendError(err))
		return
	}

	p := h.page(r, "Manage stations", "manage")
	p.Flash = r.URL.Query().Get("msg")
	p.Error = r.URL.Query().Get("err")
	p.Data = cps
	h.renderPage(w, "manage.tmpl", p)
}

// UpdateChargePoint applies a pricing or location patch from the manage
// form. Only submitted fields are sent to the backend.
func (h *UIHandlers) UpdateChargePoint(w http.ResponseWriter, r *http.Request) {
	pk, ok := pathInt(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}

	patch, err := patchFromForm(r)
	if err != nil {
		h.redirectManage(w, r, "", err.Error())
		return
	}

	if _, err := h.Backend.PatchChargePoint(r.Context(), BearerToken(r.Context()), pk, patch); err != nil {
		h.redirectManage(w, r, "", backendError(err))
		return
	}
	h.redirectManage(w, r, "Station updated.", "")
}

func (h *UIHandlers) redirectManage(w http.ResponseWriter, r *http.Request, msg, errMsg string) {
	target := "/manage"
	if msg != "" {
		target += "?msg=" + url.QueryEscape(msg)
	} else if errMsg != "" {
		target += "?err=" + url.QueryEscape(errMsg)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// patchFromForm reads the optional pricing and location fields. Blank
// inputs stay nil so the backend keeps the current values.
func patchFromForm(r *http.Request) (csms.ChargePointPatch, error) {
	var patch csms.ChargePointPatch

	var parseErr error
	float := func(name string) *float64 {
		raw := r.PostFormValue(name)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			parseErr = errInvalidField(name)
			return nil
		}
		return &v
	}

	patch.PricePerKWh = float("price_per_kwh")
	patch.PricePerHour = float("price_per_hour")
	patch.Lat = float("lat")
	patch.Lng = float("lng")
	if loc := r.PostFormValue("location"); loc != "" {
		patch.Location = &loc
	}
	return patch, parseErr
}

type fieldError string

func (e fieldError) Error() string { return string(e) }

func errInvalidField(name string) error {
	return fieldError("Invalid value for " + name + ".")
}

// AddUserPrice creates a per-user price override on a station.
func (h *UIHandlers) AddUserPrice(w http.ResponseWriter, r *http.Request) {
	pk, ok := pathInt(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}

	payload, err := userPriceFromForm(r)
	if err != nil {
		h.redirectCP(w, r, pk, "", err.Error())
		return
	}
	if payload.Email == "" {
		h.redirectCP(w, r, pk, "", "Email is required for a user price.")
		return
	}

	if _, err := h.Backend.AddUserPrice(r.Context(), BearerToken(r.Context()), pk, payload); err != nil {
		h.redirectCP(w, r, pk, "", backendError(err))
		return
	}
	h.redirectCP(w, r, pk, "User price added.", "")
}

// UpdateUserPrice patches an existing override.
func (h *UIHandlers) UpdateUserPrice(w http.ResponseWriter, r *http.Request) {
	pk, okPK := pathInt(r, "id")
	priceID, okPrice := pathInt(r, "priceID")
	if !okPK || !okPrice {
		h.NotFound(w, r)
		return
	}

	payload, err := userPriceFromForm(r)
	if err != nil {
		h.redirectCP(w, r, pk, "", err.Error())
		return
	}

	if _, err := h.Backend.PatchUserPrice(r.Context(), BearerToken(r.Context()), pk, priceID, payload); err != nil {
		h.redirectCP(w, r, pk, "", backendError(err))
		return
	}
	h.redirectCP(w, r, pk, "User price updated.", "")
}

// DeleteUserPrice removes an override.
func (h *UIHandlers) DeleteUserPrice(w http.ResponseWriter, r *http.Request) {
	pk, okPK := pathInt(r, "id")
	priceID, okPrice := pathInt(r, "priceID")
	if !okPK || !okPrice {
		h.NotFound(w, r)
		return
	}

	if err := h.Backend.DeleteUserPrice(r.Context(), BearerToken(r.Context()), pk, priceID); err != nil {
		h.redirectCP(w, r, pk, "", backendError(err))
		return
	}
	h.redirectCP(w, r, pk, "User price removed.", "")
}

func (h *UIHandlers) redirectCP(w http.ResponseWriter, r *http.Request, pk int, msg, errMsg string) {
	target := "/cp/" + strconv.Itoa(pk)
	if msg != "" {
		target += "?msg=" + url.QueryEscape(msg)
	} else if errMsg != "" {
		target += "?err=" + url.QueryEscape(errMsg)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func userPriceFromForm(r *http.Request) (csms.UserPricePayload, error) {
	var payload csms.UserPricePayload
	payload.Email = r.PostFormValue("email")

	var parseErr error
	float := func(name string) *float64 {
		raw := r.PostFormValue(name)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			parseErr = errInvalidField(name)
			return nil
		}
		return &v
	}
	payload.PricePerKWh = float("price_per_kwh")
	payload.PricePerHour = float("price_per_hour")
	return payload, parseErr
}
