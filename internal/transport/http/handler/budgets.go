package handler

import (
	"net/http"
	"strconv"

	"github.com/campus-portal-api/internal/application/budget"
	"github.com/campus-portal-api/internal/domain"
	"github.com/campus-portal-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// BudgetHandler serves budgets and their expenses.
type BudgetHandler struct {
	svc budget.Service
}

func NewBudgetHandler(svc budget.Service) *BudgetHandler { return &BudgetHandler{svc: svc} }

func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.BudgetInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b, err := h.svc.Create(r.Context(), req, claims.AdminID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Budget created successfully!", b)
}

func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Budget updated successfully!", b)
}

func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	bs, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", bs)
}

func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", b)
}

func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Budget deleted"})
}

// AddExpense takes multipart "description", "amount" and a "proof" file.
func (h *BudgetHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	amount, err := strconv.ParseFloat(r.FormValue("amount"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount must be a number")
		return
	}
	proof, f, err := formFile(r, "proof")
	if err != nil || proof == nil {
		writeError(w, http.StatusBadRequest, "Proof file is required!")
		return
	}
	defer f.Close()

	req := domain.ExpenseInput{Description: r.FormValue("description"), Amount: amount}
	b, err := h.svc.AddExpense(r.Context(), chi.URLParam(r, "id"), req, *proof)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Expense added successfully!", b)
}

func (h *BudgetHandler) VerifyExpense(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.VerifyExpense(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "expenseID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Expense verified!", b)
}

func (h *BudgetHandler) Verify(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Verify(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Budget verified!", b)
}
