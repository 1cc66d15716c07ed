package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EntryTypeIncome  = "income"
	EntryTypeExpense = "expense"
)

const (
	PeriodMonthly = "monthly"
	PeriodWeekly  = "weekly"
	PeriodYearly  = "yearly"
)

// DefaultAlertThreshold is the percentage of budget used at which an alert
// fires when the caller does not pick one.
const DefaultAlertThreshold = 80

type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Category struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	IsDefault bool      `db:"is_default" json:"is_default"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Transaction is a single ledger entry. Amount is always positive; the
// financial direction is carried by Type.
type Transaction struct {
	ID          string           `db:"id" json:"id"`
	UserID      string           `db:"user_id" json:"user_id"`
	CategoryID  string           `db:"category_id" json:"category_id"`
	ProjectID   *string          `db:"project_id" json:"project_id,omitempty"`
	Amount      decimal.Decimal  `db:"amount" json:"amount"`
	Quantity    *int             `db:"quantity" json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `db:"unit_price" json:"unit_price,omitempty"`
	Description *string          `db:"description" json:"description,omitempty"`
	Type        string           `db:"type" json:"type"`
	OccurredOn  time.Time        `db:"occurred_on" json:"occurred_on"`
	IsDeleted   bool             `db:"is_deleted" json:"is_deleted"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

type BudgetGoal struct {
	ID             string          `db:"id" json:"id"`
	UserID         string          `db:"user_id" json:"user_id"`
	CategoryID     string          `db:"category_id" json:"category_id"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	Period         string          `db:"period" json:"period"`
	AlertThreshold int             `db:"alert_threshold" json:"alert_threshold"`
	IsActive       bool            `db:"is_active" json:"is_active"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

type Project struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Color       string    `db:"color" json:"color"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultCategoryNames is the category set seeded for every new user.
func DefaultCategoryNames() []string {
	return []string{
		"Food & Dining",
		"Groceries",
		"Rent/Mortgage",
		"Utilities",
		"Transportation",
		"Healthcare",
		"Entertainment",
		"Shopping",
		"Income",
		"Other",
	}
}
