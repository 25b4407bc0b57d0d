package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/middleware"
	"github.com/spendlog/spendlog/internal/model"
)

// Page names, one per templates/<name>.html.
const (
	pageIndex      = "index"
	pageRegister   = "register"
	pageLogin      = "login"
	pageDashboard  = "dashboard"
	pageAddExpense = "add_expense"
	pageSetBudget  = "set_budget"
	pageReports    = "reports"
	pageError      = "error"
)

var pages = []string{
	pageIndex, pageRegister, pageLogin, pageDashboard,
	pageAddExpense, pageSetBudget, pageReports, pageError,
}

// FormValues echoes submitted fields back into a re-rendered form.
// Passwords are never echoed.
type FormValues struct {
	Name     string
	Email    string
	Amount   string
	Category string
	Note     string
	Date     string
	Month    string
}

// PageData is the value every template executes against.
type PageData struct {
	Title     string
	Principal *model.Principal
	Flash     string
	Error     string
	Form      FormValues
	Data      any
}

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
	"maxValue": func(values []float64) float64 {
		m := 0.0
		for _, v := range values {
			if v > m {
				m = v
			}
		}
		return m
	},
	"barWidth": func(v, max float64) string {
		if max <= 0 || v <= 0 {
			return "0"
		}
		return fmt.Sprintf("%.1f", v/max*100)
	},
}

// Views renders the embedded HTML pages.
type Views struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewViews parses templates/base.html together with each page template.
func NewViews(fsys fs.FS, logger *slog.Logger) (*Views, error) {
	base, err := template.New("base").Funcs(templateFuncs).ParseFS(fsys, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base template: %w", err)
	}

	v := &Views{pages: make(map[string]*template.Template, len(pages)), logger: logger}
	for _, name := range pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone base template: %w", err)
		}
		tmpl, err := clone.ParseFS(fsys, path.Join("templates", name+".html"))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		v.pages[name] = tmpl
	}

	return v, nil
}

// Render executes page into a buffer and writes it with status.
// Principal and flash are filled from the request.
func (v *Views) Render(w http.ResponseWriter, r *http.Request, status int, page string, data PageData) {
	tmpl, ok := v.pages[page]
	if !ok {
		v.ServerError(w, r, fmt.Errorf("unknown page %q", page))
		return
	}

	if data.Principal == nil {
		data.Principal = auth.PrincipalFromContext(r.Context())
	}
	if data.Flash == "" {
		data.Flash = popFlash(w, r)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		v.ServerError(w, r, fmt.Errorf("failed to render %s: %w", page, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// ServerError logs err with the request id and writes a bare 500.
func (v *Views) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	v.logger.Error("internal_error",
		slog.String("error", err.Error()),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// ErrorPage renders the generic error page for status.
func (v *Views) ErrorPage(w http.ResponseWriter, r *http.Request, status int) {
	v.Render(w, r, status, pageError, PageData{Title: http.StatusText(status)})
}

// formValue returns a trimmed form field.
func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}
