package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BudgetStore struct {
	db DB
}

func NewBudgetStore(db DB) *BudgetStore {
	return &BudgetStore{db: db}
}

type BudgetInput struct {
	ID             string
	UserID         string
	CategoryID     string
	Amount         decimal.Decimal
	Period         string
	AlertThreshold int
}

// BudgetRow is a budget joined with its category name. The LEFT JOIN keeps a
// corrupted category reference visible as a NULL name instead of dropping the
// row, so the evaluator can report it.
type BudgetRow struct {
	ID             string          `db:"id"`
	UserID         string          `db:"user_id"`
	CategoryID     string          `db:"category_id"`
	Amount         decimal.Decimal `db:"amount"`
	Period         string          `db:"period"`
	AlertThreshold int             `db:"alert_threshold"`
	IsActive       bool            `db:"is_active"`
	CategoryName   *string         `db:"category_name"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

func (s *BudgetStore) Create(ctx context.Context, tx Execer, input BudgetInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO budget_goals (id, user_id, category_id, amount, period, alert_threshold)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, input.ID, input.UserID, input.CategoryID, input.Amount, input.Period, input.AlertThreshold)
	return err
}

func (s *BudgetStore) GetByID(ctx context.Context, userID, budgetID string) (BudgetRow, error) {
	var row BudgetRow
	err := s.db.GetContext(ctx, &row, `
		SELECT b.id, b.user_id, b.category_id, b.amount, b.period, b.alert_threshold, b.is_active,
		       c.name AS category_name, b.created_at, b.updated_at
		FROM budget_goals b
		LEFT JOIN categories c ON c.id = b.category_id
		WHERE b.id = $1 AND b.user_id = $2
	`, budgetID, userID)
	if err != nil {
		return BudgetRow{}, err
	}
	return row, nil
}

func (s *BudgetStore) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]BudgetRow, error) {
	query := `
		SELECT b.id, b.user_id, b.category_id, b.amount, b.period, b.alert_threshold, b.is_active,
		       c.name AS category_name, b.created_at, b.updated_at
		FROM budget_goals b
		LEFT JOIN categories c ON c.id = b.category_id
		WHERE b.user_id = $1
	`
	if activeOnly {
		query += " AND b.is_active = TRUE"
	}
	query += " ORDER BY b.created_at DESC"
	var rows []BudgetRow
	if err := s.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *BudgetStore) ExistsForCategory(ctx context.Context, userID, categoryID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM budget_goals
			WHERE user_id = $1 AND category_id = $2
		)
	`, userID, categoryID)
	return exists, err
}

func (s *BudgetStore) HasActiveForCategory(ctx context.Context, userID, categoryID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM budget_goals
			WHERE user_id = $1 AND category_id = $2 AND is_active = TRUE
		)
	`, userID, categoryID)
	return exists, err
}

type BudgetUpdate struct {
	ID             string
	UserID         string
	Amount         decimal.Decimal
	Period         string
	AlertThreshold int
	IsActive       bool
}

func (s *BudgetStore) Update(ctx context.Context, tx Execer, input BudgetUpdate) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE budget_goals
		SET amount = $1, period = $2, alert_threshold = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
	`, input.Amount, input.Period, input.AlertThreshold, input.IsActive, input.ID, input.UserID)
	return err
}

// Delete removes the row entirely. A budget goal is a preference, not a
// financial record, so there is no soft delete here.
func (s *BudgetStore) Delete(ctx context.Context, tx Execer, userID, budgetID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM budget_goals
		WHERE id = $1 AND user_id = $2
	`, budgetID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
