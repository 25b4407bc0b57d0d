package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/model"
	"github.com/spendlog/spendlog/internal/service"
)

// ReportHandler serves the dashboard, monthly reports and CSV export.
type ReportHandler struct {
	svc   *service.ReportService
	views *Views
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc *service.ReportService, views *Views) *ReportHandler {
	return &ReportHandler{svc: svc, views: views}
}

// Dashboard handles GET /dashboard.
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	dashboard, err := h.svc.Dashboard(r.Context(), principal.UserID)
	if err != nil {
		h.views.ServerError(w, r, err)
		return
	}

	h.views.Render(w, r, http.StatusOK, pageDashboard, PageData{Data: dashboard})
}

// Reports handles GET and POST /reports.
// The month comes from the form on POST and the query string on GET,
// defaulting to the current month.
func (h *ReportHandler) Reports(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	raw := r.URL.Query().Get("month")
	if r.Method == http.MethodPost {
		raw = formValue(r, "month")
	}

	month := h.svc.CurrentMonth()
	if raw != "" {
		parsed, err := model.ParseMonth(raw)
		if err != nil {
			h.views.Render(w, r, http.StatusBadRequest, pageReports, PageData{
				Error: err.Error(),
				Form:  FormValues{Month: raw},
			})
			return
		}
		month = parsed
	}

	report, err := h.svc.MonthlyReport(r.Context(), principal.UserID, month)
	if err != nil {
		h.views.ServerError(w, r, err)
		return
	}

	h.views.Render(w, r, http.StatusOK, pageReports, PageData{
		Form: FormValues{Month: month.String()},
		Data: report,
	})
}

// Export handles GET /export/{month}.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	month, err := model.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Buffer so a failed query still yields a clean 500 instead of a partial file.
	var buf bytes.Buffer
	if err := h.svc.ExportCSV(r.Context(), principal.UserID, month, &buf); err != nil {
		h.views.ServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report_%s.csv", month))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
