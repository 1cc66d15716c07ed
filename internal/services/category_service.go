package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"fintrack/internal/db"
	"fintrack/internal/models"
	"fintrack/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const maxCategoryNameLength = 50

type CategoryStore interface {
	Create(ctx context.Context, tx store.Execer, id, userID, name string, isDefault bool) error
	GetByID(ctx context.Context, userID, categoryID string) (models.Category, error)
	ListByUser(ctx context.Context, userID string) ([]models.Category, error)
	ExistsByName(ctx context.Context, userID, name, excludeID string) (bool, error)
	Rename(ctx context.Context, tx store.Execer, userID, categoryID, name string) error
	Delete(ctx context.Context, tx store.Execer, userID, categoryID string) (int64, error)
}

type CategoryLedgerStore interface {
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	StatsByCategory(ctx context.Context, userID, categoryID string) (store.CategoryStats, error)
}

type CategoryBudgetStore interface {
	HasActiveForCategory(ctx context.Context, userID, categoryID string) (bool, error)
}

type CategoryService struct {
	txRunner   db.TxRunner
	categories CategoryStore
	ledger     CategoryLedgerStore
	budgets    CategoryBudgetStore
}

func NewCategoryService(txRunner db.TxRunner, categories CategoryStore, ledger CategoryLedgerStore, budgets CategoryBudgetStore) *CategoryService {
	return &CategoryService{
		txRunner:   txRunner,
		categories: categories,
		ledger:     ledger,
		budgets:    budgets,
	}
}

func (s *CategoryService) List(ctx context.Context, userID string) ([]models.Category, error) {
	return s.categories.ListByUser(ctx, userID)
}

func (s *CategoryService) Get(ctx context.Context, userID, categoryID string) (models.Category, error) {
	category, err := s.categories.GetByID(ctx, userID, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, err
	}
	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, userID, name string) (models.Category, error) {
	name, err := s.validateName(ctx, userID, name, "")
	if err != nil {
		return models.Category{}, err
	}
	categoryID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.categories.Create(ctx, tx, categoryID, userID, name, false)
	})
	if err != nil {
		return models.Category{}, err
	}
	return s.Get(ctx, userID, categoryID)
}

// SeedDefaults creates the default category set for a fresh user. Runs inside
// the caller's registration transaction.
func (s *CategoryService) SeedDefaults(ctx context.Context, tx store.Execer, userID string) error {
	for _, name := range models.DefaultCategoryNames() {
		if err := s.categories.Create(ctx, tx, uuid.NewString(), userID, name, true); err != nil {
			return err
		}
	}
	return nil
}

func (s *CategoryService) Rename(ctx context.Context, userID, categoryID, name string) (models.Category, error) {
	category, err := s.Get(ctx, userID, categoryID)
	if err != nil {
		return models.Category{}, err
	}
	if category.IsDefault {
		return models.Category{}, ErrDefaultCategory
	}
	name, err = s.validateName(ctx, userID, name, categoryID)
	if err != nil {
		return models.Category{}, err
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.categories.Rename(ctx, tx, userID, categoryID, name)
	})
	if err != nil {
		return models.Category{}, err
	}
	return s.Get(ctx, userID, categoryID)
}

// Delete removes a custom category. Default categories and categories with
// dependent ledger entries, soft-deleted ones included, are blocked.
func (s *CategoryService) Delete(ctx context.Context, userID, categoryID string) error {
	category, err := s.Get(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if category.IsDefault {
		return ErrDefaultCategory
	}
	count, err := s.ledger.CountByCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return &CategoryInUseError{Count: count}
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.categories.Delete(ctx, tx, userID, categoryID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
}

type CategoryStatistics struct {
	EntryCount    int             `json:"entry_count"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	TotalEarned   decimal.Decimal `json:"total_earned"`
	HasBudgetGoal bool            `json:"has_budget_goal"`
}

func (s *CategoryService) Statistics(ctx context.Context, userID, categoryID string) (CategoryStatistics, error) {
	if _, err := s.Get(ctx, userID, categoryID); err != nil {
		return CategoryStatistics{}, err
	}
	stats, err := s.ledger.StatsByCategory(ctx, userID, categoryID)
	if err != nil {
		return CategoryStatistics{}, err
	}
	hasBudget, err := s.budgets.HasActiveForCategory(ctx, userID, categoryID)
	if err != nil {
		return CategoryStatistics{}, err
	}
	return CategoryStatistics{
		EntryCount:    stats.EntryCount,
		TotalSpent:    stats.TotalSpent,
		TotalEarned:   stats.TotalEarned,
		HasBudgetGoal: hasBudget,
	}, nil
}

func (s *CategoryService) validateName(ctx context.Context, userID, name, excludeID string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if len(name) > maxCategoryNameLength {
		return "", ErrNameTooLong
	}
	exists, err := s.categories.ExistsByName(ctx, userID, name, excludeID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrDuplicateCategory
	}
	return name, nil
}
