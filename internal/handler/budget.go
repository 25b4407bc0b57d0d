package handler

import (
	"errors"
	"net/http"

	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/service"
)

const msgBudgetSaved = "Budget saved."

// BudgetHandler handles budget configuration.
type BudgetHandler struct {
	svc   *service.BudgetService
	views *Views
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(svc *service.BudgetService, views *Views) *BudgetHandler {
	return &BudgetHandler{svc: svc, views: views}
}

// SetForm handles GET /set-budget and lists the current budgets.
func (h *BudgetHandler) SetForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, PageData{})
}

// Set handles POST /set-budget.
func (h *BudgetHandler) Set(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	category := formValue(r, "category")
	amount := formValue(r, "amount")

	if _, err := h.svc.SetBudget(r.Context(), principal.UserID, category, amount); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			h.render(w, r, http.StatusUnprocessableEntity, PageData{
				Error: err.Error(),
				Form:  FormValues{Category: category, Amount: amount},
			})
			return
		}
		h.views.ServerError(w, r, err)
		return
	}

	redirectWithFlash(w, r, "/dashboard", msgBudgetSaved)
}

func (h *BudgetHandler) render(w http.ResponseWriter, r *http.Request, status int, data PageData) {
	principal := auth.MustPrincipalFromContext(r.Context())

	budgets, err := h.svc.ListBudgets(r.Context(), principal.UserID)
	if err != nil {
		h.views.ServerError(w, r, err)
		return
	}
	if len(budgets) > 0 {
		data.Data = budgets
	}

	h.views.Render(w, r, status, pageSetBudget, data)
}
