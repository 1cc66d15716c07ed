package store

import (
	"context"
	"strconv"
	"time"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

// TransactionStore is the ledger store: every persisted income/expense entry
// lives here. All queries are owner-scoped; aggregations exclude soft-deleted
// rows unless asked otherwise.
type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

type TransactionInput struct {
	ID          string
	UserID      string
	CategoryID  string
	ProjectID   *string
	Amount      decimal.Decimal
	Quantity    *int
	UnitPrice   *decimal.Decimal
	Description *string
	Type        string
	OccurredOn  time.Time
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	query := `
		INSERT INTO transactions (id, user_id, category_id, project_id, amount, quantity, unit_price, description, type, occurred_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.CategoryID, input.ProjectID, input.Amount,
		input.Quantity, input.UnitPrice, input.Description, input.Type, input.OccurredOn,
	)
	return err
}

// GetByID returns the entry regardless of its soft-delete state; callers
// decide whether a deleted row is visible for their operation.
func (s *TransactionStore) GetByID(ctx context.Context, userID, entryID string) (models.Transaction, error) {
	var row models.Transaction
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, category_id, project_id, amount, quantity, unit_price, description, type, occurred_on, is_deleted, created_at, updated_at
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`, entryID, userID)
	if err != nil {
		return models.Transaction{}, err
	}
	return row, nil
}

type EntryFilter struct {
	UserID     string
	CategoryID string
	Type       string
	Start      *time.Time
	End        *time.Time
	Limit      int
}

// List returns live entries matching the filter, newest first.
func (s *TransactionStore) List(ctx context.Context, filter EntryFilter) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, category_id, project_id, amount, quantity, unit_price, description, type, occurred_on, is_deleted, created_at, updated_at
		FROM transactions
		WHERE user_id = $1 AND is_deleted = FALSE
	`
	args := []any{filter.UserID}
	param := 2
	if filter.CategoryID != "" {
		query += " AND category_id = $" + strconv.Itoa(param)
		args = append(args, filter.CategoryID)
		param++
	}
	if filter.Type != "" {
		query += " AND type = $" + strconv.Itoa(param)
		args = append(args, filter.Type)
		param++
	}
	if filter.Start != nil {
		query += " AND occurred_on >= $" + strconv.Itoa(param)
		args = append(args, *filter.Start)
		param++
	}
	if filter.End != nil {
		query += " AND occurred_on <= $" + strconv.Itoa(param)
		args = append(args, *filter.End)
		param++
	}
	query += " ORDER BY occurred_on DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT $" + strconv.Itoa(param)
		args = append(args, filter.Limit)
	}
	var rows []models.Transaction
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

type TransactionUpdate struct {
	ID          string
	UserID      string
	CategoryID  string
	ProjectID   *string
	Amount      decimal.Decimal
	Quantity    *int
	UnitPrice   *decimal.Decimal
	Description *string
	Type        string
	OccurredOn  time.Time
}

func (s *TransactionStore) Update(ctx context.Context, tx Execer, input TransactionUpdate) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET category_id = $1, project_id = $2, amount = $3, quantity = $4, unit_price = $5,
		    description = $6, type = $7, occurred_on = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10
	`, input.CategoryID, input.ProjectID, input.Amount, input.Quantity, input.UnitPrice,
		input.Description, input.Type, input.OccurredOn, input.ID, input.UserID)
	return err
}

// SetDeleted flips the soft-delete flag and bumps updated_at. The row is never
// physically removed.
func (s *TransactionStore) SetDeleted(ctx context.Context, tx Execer, userID, entryID string, deleted bool) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET is_deleted = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`, deleted, entryID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SumExpenses returns the exact-decimal sum of live expense entries for one
// category inside the inclusive date window. Zero, not NULL, when nothing
// matches.
func (s *TransactionStore) SumExpenses(ctx context.Context, userID, categoryID string, start, end time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND category_id = $2 AND type = 'expense'
		  AND is_deleted = FALSE AND occurred_on >= $3 AND occurred_on <= $4
	`, userID, categoryID, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// Balance returns income minus expense across the whole ledger for one owner.
func (s *TransactionStore) Balance(ctx context.Context, userID string, includeDeleted bool) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0)
		FROM transactions
		WHERE user_id = $1
	`
	if !includeDeleted {
		query += " AND is_deleted = FALSE"
	}
	var balance decimal.Decimal
	if err := s.db.GetContext(ctx, &balance, query, userID); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// SummaryRow is a denormalized entry row for summary aggregation: the category
// name is joined in so callers never traverse a live object graph.
type SummaryRow struct {
	Type         string          `db:"type"`
	Amount       decimal.Decimal `db:"amount"`
	CategoryName string          `db:"category_name"`
}

func (s *TransactionStore) ListForSummary(ctx context.Context, userID string, start, end time.Time) ([]SummaryRow, error) {
	var rows []SummaryRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.type, t.amount, c.name AS category_name
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.is_deleted = FALSE
		  AND t.occurred_on >= $2 AND t.occurred_on <= $3
	`, userID, start, end)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) ListByProject(ctx context.Context, userID, projectID string) ([]SummaryRow, error) {
	var rows []SummaryRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.type, t.amount, c.name AS category_name
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.project_id = $2 AND t.is_deleted = FALSE
	`, userID, projectID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByCategory counts every entry referencing the category, soft-deleted
// included: a deleted entry still blocks category removal.
func (s *TransactionStore) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM transactions
		WHERE category_id = $1
	`, categoryID)
	return count, err
}

type CategoryStats struct {
	EntryCount  int             `db:"entry_count"`
	TotalSpent  decimal.Decimal `db:"total_spent"`
	TotalEarned decimal.Decimal `db:"total_earned"`
}

func (s *TransactionStore) StatsByCategory(ctx context.Context, userID, categoryID string) (CategoryStats, error) {
	var stats CategoryStats
	err := s.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS entry_count,
		       COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS total_spent,
		       COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS total_earned
		FROM transactions
		WHERE user_id = $1 AND category_id = $2 AND is_deleted = FALSE
	`, userID, categoryID)
	if err != nil {
		return CategoryStats{}, err
	}
	return stats, nil
}

// DetachProject clears the project reference on every entry of a project.
// Entries survive project deletion.
func (s *TransactionStore) DetachProject(ctx context.Context, tx Execer, userID, projectID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET project_id = NULL, updated_at = NOW()
		WHERE user_id = $1 AND project_id = $2
	`, userID, projectID)
	return err
}
