package httpx

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/voltfleet/cpconsole/internal/csms"
	"github.com/voltfleet/cpconsole/internal/domain/ocpp"
)

// DiagnoseList shows the fleet as entry points into the command console.
func (h *UIHandlers) DiagnoseList(w http.ResponseWriter, r *http.Request) {
	cps, err := h.Backend.ChargePoints(r.Context(), BearerToken(r.Context()))
	if err != nil {
		h.renderError(w, r, http.StatusBadGateway, backendError(err))
		return
	}

	p := h.page(r, "Diagnose", "diagnose")
	p.Data = cps
	h.renderPage(w, "diagnose_list.tmpl", p)
}

type diagnosePage struct {
	CP      csms.ChargePoint
	Actions []ocpp.Action
	History []ocpp.HistoryEntry
}

// DiagnoseDetail renders the command console for one station: the OCPP
// action catalog plus this operator's recent dispatch history.
func (h *UIHandlers) DiagnoseDetail(w http.ResponseWriter, r *http.Request) {
	pk, ok := pathInt(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}

	cp, err := h.Backend.ChargePoint(r.Context(), BearerToken(r.Context()), pk)
	if err != nil {
		if csms.IsStatus(err, http.StatusNotFound) {
			h.NotFound(w, r)
			return
		}
		h.renderError(w, r, http.StatusBadGateway, backendError(err))
		return
	}

	view := diagnosePage{CP: cp, Actions: ocpp.Catalog}
	if sess := GetSessionFromContext(r.Context()); sess != nil {
		if history, err := h.Commands.History(r.Context(), sess.UserID, 25); err == nil {
			view.History = history
		} else {
			h.Logger.Warn("command history unavailable", "error", err)
		}
	}

	p := h.page(r, "Diagnose "+cp.Name, "diagnose")
	p.Flash = r.URL.Query().Get("msg")
	p.Error = r.URL.Query().Get("err")
	p.Data = view
	h.renderPage(w, "diagnose_detail.tmpl", p)
}

// DispatchCommand sends an OCPP action to a station. Params arrive as a
// JSON object in the form; blank means no params.
func (h *UIHandlers) DispatchCommand(w http.ResponseWriter, r *http.Request) {
	pk, ok := pathInt(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}

	action := r.PostFormValue("action")
	params, err := parseCommandParams(r.PostFormValue("params"))
	if err != nil {
		h.redirectDiagnose(w, r, pk, "", "Params must be a JSON object.")
		return
	}

	sess := GetSessionFromContext(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	result, err := h.Commands.Dispatch(r.Context(), sess.Token, sess.UserID, pk, action, params)
	if err != nil {
		h.redirectDiagnose(w, r, pk, "", err.Error())
		return
	}
	if !result.OK {
		h.redirectDiagnose(w, r, pk, "", result.Message)
		return
	}
	h.redirectDiagnose(w, r, pk, result.Message, "")
}

func (h *UIHandlers) redirectDiagnose(w http.ResponseWriter, r *http.Request, pk int, msg, errMsg string) {
	target := "/diagnose/" + strconv.Itoa(pk)
	if msg != "" {
		target += "?msg=" + url.QueryEscape(msg)
	} else if errMsg != "" {
		target += "?err=" + url.QueryEscape(errMsg)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func parseCommandParams(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var params map[string]any
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, err
	}
	return params, nil
}
