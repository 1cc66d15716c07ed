package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fintrack/internal/money"
	"fintrack/internal/services"
	"fintrack/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Amounts travel as strings on the wire so no precision is lost to binary
// floats between the client and the ledger.
type createEntryRequest struct {
	CategoryID  string  `json:"category_id"`
	ProjectID   *string `json:"project_id,omitempty"`
	Amount      string  `json:"amount"`
	Quantity    *int    `json:"quantity,omitempty"`
	UnitPrice   *string `json:"unit_price,omitempty"`
	Description *string `json:"description,omitempty"`
	Type        string  `json:"type"`
	OccurredOn  string  `json:"occurred_on"`
}

func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	amount, err := money.ParseAmount(req.Amount)
	if err != nil && req.UnitPrice == nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	parsedUnit, err := parseOptionalMoney(req.UnitPrice)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	occurredOn, err := parseDate(req.OccurredOn)
	if err != nil {
		respondError(w, http.StatusBadRequest, "occurred_on must be YYYY-MM-DD")
		return
	}
	entry, err := h.entries.CreateEntry(r.Context(), services.CreateEntryRequest{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		ProjectID:   req.ProjectID,
		Amount:      amount,
		Quantity:    req.Quantity,
		UnitPrice:   parsedUnit,
		Description: req.Description,
		Type:        req.Type,
		OccurredOn:  occurredOn,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

type updateEntryRequest struct {
	CategoryID    *string `json:"category_id,omitempty"`
	ProjectID     *string `json:"project_id,omitempty"`
	DetachProject bool    `json:"detach_project,omitempty"`
	Amount        *string `json:"amount,omitempty"`
	Quantity      *int    `json:"quantity,omitempty"`
	UnitPrice     *string `json:"unit_price,omitempty"`
	Description   *string `json:"description,omitempty"`
	Type          *string `json:"type,omitempty"`
	OccurredOn    *string `json:"occurred_on,omitempty"`
}

func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req updateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	update := services.UpdateEntryRequest{
		ID:            chi.URLParam(r, "id"),
		UserID:        userID,
		CategoryID:    req.CategoryID,
		ProjectID:     req.ProjectID,
		DetachProject: req.DetachProject,
		Quantity:      req.Quantity,
		Description:   req.Description,
		Type:          req.Type,
	}
	if req.Amount != nil {
		amount, err := money.ParseAmount(*req.Amount)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		update.Amount = &amount
	}
	parsedUnit, err := parseOptionalMoney(req.UnitPrice)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	update.UnitPrice = parsedUnit
	if req.OccurredOn != nil {
		occurredOn, err := parseDate(*req.OccurredOn)
		if err != nil {
			respondError(w, http.StatusBadRequest, "occurred_on must be YYYY-MM-DD")
			return
		}
		update.OccurredOn = &occurredOn
	}
	entry, err := h.entries.UpdateEntry(r.Context(), update)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	entry, err := h.entries.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	filter := store.EntryFilter{
		UserID:     userID,
		CategoryID: r.URL.Query().Get("category_id"),
		Type:       r.URL.Query().Get("type"),
	}
	if raw := r.URL.Query().Get("start"); raw != "" {
		start, err := parseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
			return
		}
		filter.Start = &start
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		end, err := parseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "end must be YYYY-MM-DD")
			return
		}
		filter.End = &end
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}
	entries, err := h.entries.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.entries.SoftDelete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) RestoreEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	entry, err := h.entries.Restore(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// parseOptionalMoney maps a missing or empty wire value to nil.
func parseOptionalMoney(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	return money.ParseOptionalAmount(*raw)
}
