package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing templates (required)
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer constructs a renderer by parsing templates from the
// provided filesystem.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}

	t, err := template.New("root").Funcs(templateFuncs()).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
	)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Error("template parsing failed", slog.Any("error", err))
		}
		return nil, err
	}
	return &TemplateRenderer{t: t, logger: cfg.Logger}, nil
}

// RenderPage renders a named page template. Each page template is a full
// document composed from the shared head/nav/footer partials.
func (r *TemplateRenderer) RenderPage(w http.ResponseWriter, name string, data any) error {
	return r.render(w, name, data)
}

func (r *TemplateRenderer) render(w http.ResponseWriter, templateName string, data any) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, templateName, data); err != nil {
		if r.logger != nil {
			r.logger.Error("template execution failed",
				slog.String("template", templateName),
				slog.Any("error", err),
			)
		}
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		if r.logger != nil {
			r.logger.Error("failed to write rendered template",
				slog.String("template", templateName),
				slog.Any("error", err),
			)
		}
		return err
	}
	return nil
}

// templateFuncs returns the helper functions available to all templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money":      formatMoney,
		"datetime":   formatDateTime,
		"statusTone": statusTone,
		"deref":      derefFloat,
		"add":        func(a, b int) int { return a + b },
		"sub":        func(a, b int) int { return a - b },
	}
}

// formatMoney renders an amount as euros with two decimals and thousands
// separators, matching the dashboard's display convention.
func formatMoney(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return sign + "€" + b.String() + frac
}

// formatDateTime renders a backend timestamp for display; empty or
// unparseable values come back as a dash.
func formatDateTime(value string) string {
	if value == "" {
		return "—"
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.Local().Format("Jan 2, 2006 15:04")
		}
	}
	return value
}

// statusTone maps an OCPP status to a display tone class suffix.
func statusTone(status string) string {
	switch strings.ToLower(status) {
	case "available":
		return "ok"
	case "charging":
		return "active"
	case "preparing", "occupied", "finishing":
		return "busy"
	case "unavailable", "faulted":
		return "down"
	default:
		return "neutral"
	}
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
