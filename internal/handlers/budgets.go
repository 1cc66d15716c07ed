package handlers

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/money"
	"fintrack/internal/services"

	"github.com/go-chi/chi/v5"
)

type createBudgetRequest struct {
	CategoryID     string `json:"category_id"`
	Amount         string `json:"amount"`
	Period         string `json:"period"`
	AlertThreshold *int   `json:"alert_threshold,omitempty"`
}

func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	amount, err := money.ParseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	budget, err := h.budgets.Create(r.Context(), services.CreateBudgetRequest{
		UserID:         userID,
		CategoryID:     req.CategoryID,
		Amount:         amount,
		Period:         req.Period,
		AlertThreshold: req.AlertThreshold,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, budget)
}

type updateBudgetRequest struct {
	Amount         *string `json:"amount,omitempty"`
	Period         *string `json:"period,omitempty"`
	AlertThreshold *int    `json:"alert_threshold,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req updateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	update := services.UpdateBudgetRequest{
		ID:             chi.URLParam(r, "id"),
		UserID:         userID,
		Period:         req.Period,
		AlertThreshold: req.AlertThreshold,
		IsActive:       req.IsActive,
	}
	if req.Amount != nil {
		amount, err := money.ParseAmount(*req.Amount)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		update.Amount = &amount
	}
	budget, err := h.budgets.Update(r.Context(), update)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	budget, err := h.budgets.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	activeOnly := r.URL.Query().Get("active") == "true"
	budgets, err := h.budgets.List(r.Context(), userID, activeOnly)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, budgets)
}

func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.budgets.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ToggleBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	budget, err := h.budgets.ToggleActive(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

// BudgetStatus evaluates one budget against the period window containing
// today.
func (h *Handler) BudgetStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	status, err := h.budgets.Evaluate(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// BudgetStatuses evaluates every active budget for the dashboard view.
func (h *Handler) BudgetStatuses(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	statuses, err := h.budgets.EvaluateAll(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, statuses)
}
