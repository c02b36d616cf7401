package httpx

import (
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/voltfleet/cpconsole/internal/csms"
)

type reportForm struct {
	CPIDs   []int
	Start   string
	End     string
	TaxRate float64
	Format  string
}

func (f reportForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Start, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&f.End, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&f.Format, validation.Required, validation.In("csv", "pdf", "xlsx")),
	)
}

// ReportsPage renders the report builder with the fleet to pick from.
func (h *UIHandlers) ReportsPage(w http.ResponseWriter, r *http.Request) {
	cps, err := h.Backend.ChargePoints(r.Context(), BearerToken(r.Context()))
	if err != nil {
		h.renderError(w, r, http.StatusBadGateway, backendError(err))
		return
	}

	p := h.page(r, "Reports", "reports")
	p.Data = cps
	h.renderPage(w, "reports.tmpl", p)
}

// GenerateReport asks the backend to build a revenue report and streams
// the file back with the backend's content type and filename.
func (h *UIHandlers) GenerateReport(w http.ResponseWriter, r *http.Request) {
	form := reportForm{
		Start:  r.PostFormValue("start"),
		End:    r.PostFormValue("end"),
		Format: strings.ToLower(r.PostFormValue("format")),
	}
	for _, raw := range r.PostForm["cp_ids"] {
		if id, err := strconv.Atoi(raw); err == nil && id >= 0 {
			form.CPIDs = append(form.CPIDs, id)
		}
	}
	if rate, err := strconv.ParseFloat(r.PostFormValue("tax_rate"), 64); err == nil && rate >= 0 {
		form.TaxRate = rate
	}

	if err := form.Validate(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Check the report form: "+err.Error())
		return
	}

	blob, err := h.Backend.Report(r.Context(), BearerToken(r.Context()), csms.ReportRequest{
		CPIDs:   form.CPIDs,
		Start:   form.Start,
		End:     form.End,
		TaxRate: form.TaxRate,
		Format:  form.Format,
	})
	if err != nil {
		h.renderError(w, r, http.StatusBadGateway, backendError(err))
		return
	}

	filename := blob.Filename
	if filename == "" {
		filename = "report-" + form.Start + "-" + form.End + "." + form.Format
	}
	contentType := blob.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	if _, err := w.Write(blob.Data); err != nil {
		h.Logger.Warn("report download interrupted", "error", err)
	}
}
