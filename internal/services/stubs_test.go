package services

import (
	"context"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/store"
	"fintrack/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubLedgerStore struct {
	createFn         func(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	getByIDFn        func(ctx context.Context, userID, entryID string) (models.Transaction, error)
	listFn           func(ctx context.Context, filter store.EntryFilter) ([]models.Transaction, error)
	updateFn         func(ctx context.Context, tx store.Execer, input store.TransactionUpdate) error
	setDeletedFn     func(ctx context.Context, tx store.Execer, userID, entryID string, deleted bool) (int64, error)
	balanceFn        func(ctx context.Context, userID string, includeDeleted bool) (decimal.Decimal, error)
	listForSummaryFn func(ctx context.Context, userID string, start, end time.Time) ([]store.SummaryRow, error)
}

func (s stubLedgerStore) Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubLedgerStore) GetByID(ctx context.Context, userID, entryID string) (models.Transaction, error) {
	if s.getByIDFn == nil {
		return models.Transaction{}, nil
	}
	return s.getByIDFn(ctx, userID, entryID)
}

func (s stubLedgerStore) List(ctx context.Context, filter store.EntryFilter) ([]models.Transaction, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, filter)
}

func (s stubLedgerStore) Update(ctx context.Context, tx store.Execer, input store.TransactionUpdate) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, tx, input)
}

func (s stubLedgerStore) SetDeleted(ctx context.Context, tx store.Execer, userID, entryID string, deleted bool) (int64, error) {
	if s.setDeletedFn == nil {
		return 1, nil
	}
	return s.setDeletedFn(ctx, tx, userID, entryID, deleted)
}

func (s stubLedgerStore) Balance(ctx context.Context, userID string, includeDeleted bool) (decimal.Decimal, error) {
	if s.balanceFn == nil {
		return decimal.Zero, nil
	}
	return s.balanceFn(ctx, userID, includeDeleted)
}

func (s stubLedgerStore) ListForSummary(ctx context.Context, userID string, start, end time.Time) ([]store.SummaryRow, error) {
	if s.listForSummaryFn == nil {
		return nil, nil
	}
	return s.listForSummaryFn(ctx, userID, start, end)
}

type stubCategoryGetter struct {
	getByIDFn func(ctx context.Context, userID, categoryID string) (models.Category, error)
}

func (s stubCategoryGetter) GetByID(ctx context.Context, userID, categoryID string) (models.Category, error) {
	if s.getByIDFn == nil {
		return models.Category{}, nil
	}
	return s.getByIDFn(ctx, userID, categoryID)
}

type stubProjectGetter struct {
	getByIDFn func(ctx context.Context, userID, projectID string) (models.Project, error)
}

func (s stubProjectGetter) GetByID(ctx context.Context, userID, projectID string) (models.Project, error) {
	if s.getByIDFn == nil {
		return models.Project{}, nil
	}
	return s.getByIDFn(ctx, userID, projectID)
}

type stubBudgetStore struct {
	createFn            func(ctx context.Context, tx store.Execer, input store.BudgetInput) error
	getByIDFn           func(ctx context.Context, userID, budgetID string) (store.BudgetRow, error)
	listByUserFn        func(ctx context.Context, userID string, activeOnly bool) ([]store.BudgetRow, error)
	existsForCategoryFn func(ctx context.Context, userID, categoryID string) (bool, error)
	updateFn            func(ctx context.Context, tx store.Execer, input store.BudgetUpdate) error
	deleteFn            func(ctx context.Context, tx store.Execer, userID, budgetID string) (int64, error)
}

func (s stubBudgetStore) Create(ctx context.Context, tx store.Execer, input store.BudgetInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubBudgetStore) GetByID(ctx context.Context, userID, budgetID string) (store.BudgetRow, error) {
	if s.getByIDFn == nil {
		return store.BudgetRow{}, nil
	}
	return s.getByIDFn(ctx, userID, budgetID)
}

func (s stubBudgetStore) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]store.BudgetRow, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID, activeOnly)
}

func (s stubBudgetStore) ExistsForCategory(ctx context.Context, userID, categoryID string) (bool, error) {
	if s.existsForCategoryFn == nil {
		return false, nil
	}
	return s.existsForCategoryFn(ctx, userID, categoryID)
}

func (s stubBudgetStore) Update(ctx context.Context, tx store.Execer, input store.BudgetUpdate) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, tx, input)
}

func (s stubBudgetStore) Delete(ctx context.Context, tx store.Execer, userID, budgetID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, userID, budgetID)
}

type stubSpendingStore struct {
	sumExpensesFn func(ctx context.Context, userID, categoryID string, start, end time.Time) (decimal.Decimal, error)
}

func (s stubSpendingStore) SumExpenses(ctx context.Context, userID, categoryID string, start, end time.Time) (decimal.Decimal, error) {
	if s.sumExpensesFn == nil {
		return decimal.Zero, nil
	}
	return s.sumExpensesFn(ctx, userID, categoryID, start, end)
}

type stubEvaluator struct {
	evaluateForCategoryFn func(ctx context.Context, userID, categoryID string) (*BudgetStatus, error)
}

func (s stubEvaluator) EvaluateForCategory(ctx context.Context, userID, categoryID string) (*BudgetStatus, error) {
	if s.evaluateForCategoryFn == nil {
		return nil, nil
	}
	return s.evaluateForCategoryFn(ctx, userID, categoryID)
}

type stubAlertHub struct {
	alerts []websocket.AlertUpdate
}

func (s *stubAlertHub) BroadcastAlert(userID string, alert websocket.AlertUpdate) {
	s.alerts = append(s.alerts, alert)
}

type stubCategoryStore struct {
	createFn       func(ctx context.Context, tx store.Execer, id, userID, name string, isDefault bool) error
	getByIDFn      func(ctx context.Context, userID, categoryID string) (models.Category, error)
	listByUserFn   func(ctx context.Context, userID string) ([]models.Category, error)
	existsByNameFn func(ctx context.Context, userID, name, excludeID string) (bool, error)
	renameFn       func(ctx context.Context, tx store.Execer, userID, categoryID, name string) error
	deleteFn       func(ctx context.Context, tx store.Execer, userID, categoryID string) (int64, error)
}

func (s stubCategoryStore) Create(ctx context.Context, tx store.Execer, id, userID, name string, isDefault bool) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, userID, name, isDefault)
}

func (s stubCategoryStore) GetByID(ctx context.Context, userID, categoryID string) (models.Category, error) {
	if s.getByIDFn == nil {
		return models.Category{}, nil
	}
	return s.getByIDFn(ctx, userID, categoryID)
}

func (s stubCategoryStore) ListByUser(ctx context.Context, userID string) ([]models.Category, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

func (s stubCategoryStore) ExistsByName(ctx context.Context, userID, name, excludeID string) (bool, error) {
	if s.existsByNameFn == nil {
		return false, nil
	}
	return s.existsByNameFn(ctx, userID, name, excludeID)
}

func (s stubCategoryStore) Rename(ctx context.Context, tx store.Execer, userID, categoryID, name string) error {
	if s.renameFn == nil {
		return nil
	}
	return s.renameFn(ctx, tx, userID, categoryID, name)
}

func (s stubCategoryStore) Delete(ctx context.Context, tx store.Execer, userID, categoryID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, userID, categoryID)
}

type stubCategoryLedger struct {
	countByCategoryFn func(ctx context.Context, categoryID string) (int, error)
	statsByCategoryFn func(ctx context.Context, userID, categoryID string) (store.CategoryStats, error)
}

func (s stubCategoryLedger) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	if s.countByCategoryFn == nil {
		return 0, nil
	}
	return s.countByCategoryFn(ctx, categoryID)
}

func (s stubCategoryLedger) StatsByCategory(ctx context.Context, userID, categoryID string) (store.CategoryStats, error) {
	if s.statsByCategoryFn == nil {
		return store.CategoryStats{}, nil
	}
	return s.statsByCategoryFn(ctx, userID, categoryID)
}

type stubCategoryBudget struct {
	hasActiveFn func(ctx context.Context, userID, categoryID string) (bool, error)
}

func (s stubCategoryBudget) HasActiveForCategory(ctx context.Context, userID, categoryID string) (bool, error) {
	if s.hasActiveFn == nil {
		return false, nil
	}
	return s.hasActiveFn(ctx, userID, categoryID)
}

type stubProjectStore struct {
	createFn       func(ctx context.Context, tx store.Execer, input store.ProjectInput) error
	getByIDFn      func(ctx context.Context, userID, projectID string) (models.Project, error)
	listByUserFn   func(ctx context.Context, userID string, activeOnly bool) ([]models.Project, error)
	existsByNameFn func(ctx context.Context, userID, name, excludeID string) (bool, error)
	updateFn       func(ctx context.Context, tx store.Execer, input store.ProjectUpdate) error
	deleteFn       func(ctx context.Context, tx store.Execer, userID, projectID string) (int64, error)
}

func (s stubProjectStore) Create(ctx context.Context, tx store.Execer, input store.ProjectInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubProjectStore) GetByID(ctx context.Context, userID, projectID string) (models.Project, error) {
	if s.getByIDFn == nil {
		return models.Project{}, nil
	}
	return s.getByIDFn(ctx, userID, projectID)
}

func (s stubProjectStore) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]models.Project, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID, activeOnly)
}

func (s stubProjectStore) ExistsByName(ctx context.Context, userID, name, excludeID string) (bool, error) {
	if s.existsByNameFn == nil {
		return false, nil
	}
	return s.existsByNameFn(ctx, userID, name, excludeID)
}

func (s stubProjectStore) Update(ctx context.Context, tx store.Execer, input store.ProjectUpdate) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, tx, input)
}

func (s stubProjectStore) Delete(ctx context.Context, tx store.Execer, userID, projectID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, userID, projectID)
}

type stubProjectLedger struct {
	listByProjectFn func(ctx context.Context, userID, projectID string) ([]store.SummaryRow, error)
	detachProjectFn func(ctx context.Context, tx store.Execer, userID, projectID string) error
}

func (s stubProjectLedger) ListByProject(ctx context.Context, userID, projectID string) ([]store.SummaryRow, error) {
	if s.listByProjectFn == nil {
		return nil, nil
	}
	return s.listByProjectFn(ctx, userID, projectID)
}

func (s stubProjectLedger) DetachProject(ctx context.Context, tx store.Execer, userID, projectID string) error {
	if s.detachProjectFn == nil {
		return nil
	}
	return s.detachProjectFn(ctx, tx, userID, projectID)
}
