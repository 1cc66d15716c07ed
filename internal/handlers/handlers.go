package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fintrack/internal/middleware"
	"fintrack/internal/services"

	"github.com/lib/pq"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError translates the service error taxonomy into HTTP status
// codes. Unique-violation errors from the store are the backstop for races the
// pre-write checks missed.
func respondServiceError(w http.ResponseWriter, err error) {
	var inUse *services.CategoryInUseError
	switch {
	case errors.Is(err, services.ErrEntryNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrBudgetNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidEntryType),
		errors.Is(err, services.ErrInvalidPeriod),
		errors.Is(err, services.ErrInvalidThreshold),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrDescriptionTooLong),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrNameTooLong):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDuplicateBudget),
		errors.Is(err, services.ErrDuplicateCategory),
		errors.Is(err, services.ErrDuplicateProject),
		errors.Is(err, services.ErrDefaultCategory):
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &inUse):
		respondError(w, http.StatusConflict, inUse.Error())
	case errors.Is(err, services.ErrMissingReference):
		respondError(w, http.StatusInternalServerError, err.Error())
	default:
		if pgErr, ok := err.(*pq.Error); ok {
			switch pgErr.Code {
			case "23505":
				respondError(w, http.StatusConflict, "duplicate resource")
				return
			case "23503":
				respondError(w, http.StatusConflict, "referenced resource in use")
				return
			}
		}
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
	}
	return userID, ok
}
