package services

import (
	"errors"
	"fmt"
)

// Validation errors: caller-correctable, surfaced before any write.
var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidEntryType   = errors.New("entry type must be income or expense")
	ErrInvalidPeriod      = errors.New("period must be monthly, weekly, or yearly")
	ErrInvalidThreshold   = errors.New("alert threshold must be between 0 and 100")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrDescriptionTooLong = errors.New("description must be 200 characters or less")
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = errors.New("name is too long")
)

// Not-found errors: a row that does not exist and a row owned by someone else
// are indistinguishable to the caller.
var (
	ErrEntryNotFound    = errors.New("entry not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrBudgetNotFound   = errors.New("budget goal not found")
	ErrProjectNotFound  = errors.New("project not found")
)

// Conflict errors.
var (
	ErrDuplicateBudget   = errors.New("budget goal already exists for this category")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrDuplicateProject  = errors.New("project already exists")
	ErrDefaultCategory   = errors.New("default categories cannot be modified or deleted")
)

// ErrMissingReference marks a budget whose category row has vanished. Under
// the delete-restriction invariant this cannot happen; if it does, the single
// evaluation fails instead of silently reporting zero spending.
var ErrMissingReference = errors.New("budget references a missing category")

// CategoryInUseError blocks category deletion while ledger entries, deleted
// ones included, still reference it.
type CategoryInUseError struct {
	Count int
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("cannot delete category with %d dependent entries", e.Count)
}
