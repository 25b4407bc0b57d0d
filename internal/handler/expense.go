package handler

import (
	"errors"
	"net/http"

	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/service"
)

const msgExpenseAdded = "Expense added successfully!"

// ExpenseHandler handles expense entry.
type ExpenseHandler struct {
	svc   *service.ExpenseService
	views *Views
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(svc *service.ExpenseService, views *Views) *ExpenseHandler {
	return &ExpenseHandler{svc: svc, views: views}
}

// AddForm handles GET /add-expense.
func (h *ExpenseHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, pageAddExpense, PageData{})
}

// Add handles POST /add-expense.
func (h *ExpenseHandler) Add(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	input := service.AddExpenseInput{
		Amount:   formValue(r, "amount"),
		Category: formValue(r, "category"),
		Note:     formValue(r, "note"),
		Date:     formValue(r, "date"),
	}

	if _, err := h.svc.AddExpense(r.Context(), principal.UserID, input); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			h.views.Render(w, r, http.StatusUnprocessableEntity, pageAddExpense, PageData{
				Error: err.Error(),
				Form: FormValues{
					Amount:   input.Amount,
					Category: input.Category,
					Note:     input.Note,
					Date:     input.Date,
				},
			})
			return
		}
		h.views.ServerError(w, r, err)
		return
	}

	redirectWithFlash(w, r, "/dashboard", msgExpenseAdded)
}
