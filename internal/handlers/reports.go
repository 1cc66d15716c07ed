package handlers

import (
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/money"
)

const defaultTrendMonths = 6

func (h *Handler) BalanceReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	includeDeleted := r.URL.Query().Get("include_deleted") == "true"
	balance, err := h.entries.Balance(r.Context(), userID, includeDeleted)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"balance": money.Format(balance)})
}

// SummaryReport aggregates live entries in an inclusive date window. Without
// query parameters the window is the current month to date.
func (h *Handler) SummaryReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var start, end time.Time
	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
			return
		}
		start = parsed
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "end must be YYYY-MM-DD")
			return
		}
		end = parsed
	}
	summary, err := h.entries.SpendingSummary(r.Context(), userID, start, end)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) TrendReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	months := defaultTrendMonths
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 36 {
			respondError(w, http.StatusBadRequest, "months must be between 1 and 36")
			return
		}
		months = parsed
	}
	trend, err := h.entries.MonthlyTrend(r.Context(), userID, months)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trend)
}
