package handlers

import (
	"context"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/store"

	"github.com/shopspring/decimal"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type EntryService interface {
	CreateEntry(ctx context.Context, req services.CreateEntryRequest) (models.Transaction, error)
	UpdateEntry(ctx context.Context, req services.UpdateEntryRequest) (models.Transaction, error)
	SoftDelete(ctx context.Context, userID, entryID string) error
	Restore(ctx context.Context, userID, entryID string) (models.Transaction, error)
	Get(ctx context.Context, userID, entryID string) (models.Transaction, error)
	List(ctx context.Context, filter store.EntryFilter) ([]models.Transaction, error)
	Balance(ctx context.Context, userID string, includeDeleted bool) (decimal.Decimal, error)
	SpendingSummary(ctx context.Context, userID string, start, end time.Time) (services.Summary, error)
	MonthlyTrend(ctx context.Context, userID string, monthsBack int) ([]services.MonthSummary, error)
}

type BudgetService interface {
	Create(ctx context.Context, req services.CreateBudgetRequest) (store.BudgetRow, error)
	Update(ctx context.Context, req services.UpdateBudgetRequest) (store.BudgetRow, error)
	Delete(ctx context.Context, userID, budgetID string) error
	ToggleActive(ctx context.Context, userID, budgetID string) (store.BudgetRow, error)
	Get(ctx context.Context, userID, budgetID string) (store.BudgetRow, error)
	List(ctx context.Context, userID string, activeOnly bool) ([]store.BudgetRow, error)
	Evaluate(ctx context.Context, userID, budgetID string) (services.BudgetStatus, error)
	EvaluateAll(ctx context.Context, userID string) ([]services.BudgetStatus, error)
}

type CategoryService interface {
	List(ctx context.Context, userID string) ([]models.Category, error)
	Get(ctx context.Context, userID, categoryID string) (models.Category, error)
	Create(ctx context.Context, userID, name string) (models.Category, error)
	SeedDefaults(ctx context.Context, tx store.Execer, userID string) error
	Rename(ctx context.Context, userID, categoryID, name string) (models.Category, error)
	Delete(ctx context.Context, userID, categoryID string) error
	Statistics(ctx context.Context, userID, categoryID string) (services.CategoryStatistics, error)
}

type ProjectService interface {
	Create(ctx context.Context, req services.CreateProjectRequest) (models.Project, error)
	Get(ctx context.Context, userID, projectID string) (models.Project, error)
	List(ctx context.Context, userID string, activeOnly bool) ([]models.Project, error)
	Update(ctx context.Context, req services.UpdateProjectRequest) (models.Project, error)
	Delete(ctx context.Context, userID, projectID string) error
	Summary(ctx context.Context, userID, projectID string) (services.ProjectSummary, error)
}
