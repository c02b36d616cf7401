package httpx

import (
	"net/http"

	"github.com/voltfleet/cpconsole/internal/csms"
)

const historyPageSize = 25

type historyPage struct {
	Sessions []csms.ChargeSession
	Count    int
	Limit    int
	Offset   int
	PrevOff  int
	NextOff  int
	HasPrev  bool
	HasNext  bool
}

// SessionHistory renders the paginated charge session log using
// limit/offset paging. When the backend returns a plain list the pager
// falls back to has-more detection by page fill.
func (h *UIHandlers) SessionHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", historyPageSize, 1)
	if limit > 100 {
		limit = 100
	}
	offset := queryInt(r, "offset", 0, 0)

	page, err := h.Backend.SessionsOffset(r.Context(), BearerToken(r.Context()), limit, offset)
	if err != nil {
		h.renderError(w, r, http.StatusBadGateway, backendError(err))
		return
	}

	view := historyPage{
		Sessions: page.Results,
		Count:    page.Count,
		Limit:    limit,
		Offset:   offset,
		PrevOff:  max(0, offset-limit),
		NextOff:  offset + limit,
		HasPrev:  offset > 0,
	}
	if page.Count >= 0 {
		view.HasNext = offset+limit < page.Count
	} else {
		view.HasNext = len(page.Results) == limit
	}

	p := h.page(r, "Session history", "history")
	p.Data = view
	h.renderPage(w, "history.tmpl", p)
}
