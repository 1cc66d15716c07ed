package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/models"
	"fintrack/internal/services"
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

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	getByEmailFn func(ctx context.Context, email string) (models.User, error)
	getByIDFn    func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, email, passwordHash)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubEntryService struct {
	createFn     func(ctx context.Context, req services.CreateEntryRequest) (models.Transaction, error)
	updateFn     func(ctx context.Context, req services.UpdateEntryRequest) (models.Transaction, error)
	softDeleteFn func(ctx context.Context, userID, entryID string) error
	restoreFn    func(ctx context.Context, userID, entryID string) (models.Transaction, error)
	getFn        func(ctx context.Context, userID, entryID string) (models.Transaction, error)
	listFn       func(ctx context.Context, filter store.EntryFilter) ([]models.Transaction, error)
	balanceFn    func(ctx context.Context, userID string, includeDeleted bool) (decimal.Decimal, error)
	summaryFn    func(ctx context.Context, userID string, start, end time.Time) (services.Summary, error)
	trendFn      func(ctx context.Context, userID string, monthsBack int) ([]services.MonthSummary, error)
}

func (s stubEntryService) CreateEntry(ctx context.Context, req services.CreateEntryRequest) (models.Transaction, error) {
	if s.createFn == nil {
		return models.Transaction{}, nil
	}
	return s.createFn(ctx, req)
}

func (s stubEntryService) UpdateEntry(ctx context.Context, req services.UpdateEntryRequest) (models.Transaction, error) {
	if s.updateFn == nil {
		return models.Transaction{}, nil
	}
	return s.updateFn(ctx, req)
}

func (s stubEntryService) SoftDelete(ctx context.Context, userID, entryID string) error {
	if s.softDeleteFn == nil {
		return nil
	}
	return s.softDeleteFn(ctx, userID, entryID)
}

func (s stubEntryService) Restore(ctx context.Context, userID, entryID string) (models.Transaction, error) {
	if s.restoreFn == nil {
		return models.Transaction{}, nil
	}
	return s.restoreFn(ctx, userID, entryID)
}

func (s stubEntryService) Get(ctx context.Context, userID, entryID string) (models.Transaction, error) {
	if s.getFn == nil {
		return models.Transaction{}, nil
	}
	return s.getFn(ctx, userID, entryID)
}

func (s stubEntryService) List(ctx context.Context, filter store.EntryFilter) ([]models.Transaction, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, filter)
}

func (s stubEntryService) Balance(ctx context.Context, userID string, includeDeleted bool) (decimal.Decimal, error) {
	if s.balanceFn == nil {
		return decimal.Zero, nil
	}
	return s.balanceFn(ctx, userID, includeDeleted)
}

func (s stubEntryService) SpendingSummary(ctx context.Context, userID string, start, end time.Time) (services.Summary, error) {
	if s.summaryFn == nil {
		return services.Summary{}, nil
	}
	return s.summaryFn(ctx, userID, start, end)
}

func (s stubEntryService) MonthlyTrend(ctx context.Context, userID string, monthsBack int) ([]services.MonthSummary, error) {
	if s.trendFn == nil {
		return nil, nil
	}
	return s.trendFn(ctx, userID, monthsBack)
}

type stubBudgetService struct {
	createFn      func(ctx context.Context, req services.CreateBudgetRequest) (store.BudgetRow, error)
	updateFn      func(ctx context.Context, req services.UpdateBudgetRequest) (store.BudgetRow, error)
	deleteFn      func(ctx context.Context, userID, budgetID string) error
	toggleFn      func(ctx context.Context, userID, budgetID string) (store.BudgetRow, error)
	getFn         func(ctx context.Context, userID, budgetID string) (store.BudgetRow, error)
	listFn        func(ctx context.Context, userID string, activeOnly bool) ([]store.BudgetRow, error)
	evaluateFn    func(ctx context.Context, userID, budgetID string) (services.BudgetStatus, error)
	evaluateAllFn func(ctx context.Context, userID string) ([]services.BudgetStatus, error)
}

func (s stubBudgetService) Create(ctx context.Context, req services.CreateBudgetRequest) (store.BudgetRow, error) {
	if s.createFn == nil {
		return store.BudgetRow{}, nil
	}
	return s.createFn(ctx, req)
}

func (s stubBudgetService) Update(ctx context.Context, req services.UpdateBudgetRequest) (store.BudgetRow, error) {
	if s.updateFn == nil {
		return store.BudgetRow{}, nil
	}
	return s.updateFn(ctx, req)
}

func (s stubBudgetService) Delete(ctx context.Context, userID, budgetID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, userID, budgetID)
}

func (s stubBudgetService) ToggleActive(ctx context.Context, userID, budgetID string) (store.BudgetRow, error) {
	if s.toggleFn == nil {
		return store.BudgetRow{}, nil
	}
	return s.toggleFn(ctx, userID, budgetID)
}

func (s stubBudgetService) Get(ctx context.Context, userID, budgetID string) (store.BudgetRow, error) {
	if s.getFn == nil {
		return store.BudgetRow{}, nil
	}
	return s.getFn(ctx, userID, budgetID)
}

func (s stubBudgetService) List(ctx context.Context, userID string, activeOnly bool) ([]store.BudgetRow, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, userID, activeOnly)
}

func (s stubBudgetService) Evaluate(ctx context.Context, userID, budgetID string) (services.BudgetStatus, error) {
	if s.evaluateFn == nil {
		return services.BudgetStatus{}, nil
	}
	return s.evaluateFn(ctx, userID, budgetID)
}

func (s stubBudgetService) EvaluateAll(ctx context.Context, userID string) ([]services.BudgetStatus, error) {
	if s.evaluateAllFn == nil {
		return nil, nil
	}
	return s.evaluateAllFn(ctx, userID)
}

type stubCategoryService struct {
	listFn         func(ctx context.Context, userID string) ([]models.Category, error)
	getFn          func(ctx context.Context, userID, categoryID string) (models.Category, error)
	createFn       func(ctx context.Context, userID, name string) (models.Category, error)
	seedDefaultsFn func(ctx context.Context, tx store.Execer, userID string) error
	renameFn       func(ctx context.Context, userID, categoryID, name string) (models.Category, error)
	deleteFn       func(ctx context.Context, userID, categoryID string) error
	statisticsFn   func(ctx context.Context, userID, categoryID string) (services.CategoryStatistics, error)
}

func (s stubCategoryService) List(ctx context.Context, userID string) ([]models.Category, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, userID)
}

func (s stubCategoryService) Get(ctx context.Context, userID, categoryID string) (models.Category, error) {
	if s.getFn == nil {
		return models.Category{}, nil
	}
	return s.getFn(ctx, userID, categoryID)
}

func (s stubCategoryService) Create(ctx context.Context, userID, name string) (models.Category, error) {
	if s.createFn == nil {
		return models.Category{}, nil
	}
	return s.createFn(ctx, userID, name)
}

func (s stubCategoryService) SeedDefaults(ctx context.Context, tx store.Execer, userID string) error {
	if s.seedDefaultsFn == nil {
		return nil
	}
	return s.seedDefaultsFn(ctx, tx, userID)
}

func (s stubCategoryService) Rename(ctx context.Context, userID, categoryID, name string) (models.Category, error) {
	if s.renameFn == nil {
		return models.Category{}, nil
	}
	return s.renameFn(ctx, userID, categoryID, name)
}

func (s stubCategoryService) Delete(ctx context.Context, userID, categoryID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, userID, categoryID)
}

func (s stubCategoryService) Statistics(ctx context.Context, userID, categoryID string) (services.CategoryStatistics, error) {
	if s.statisticsFn == nil {
		return services.CategoryStatistics{}, nil
	}
	return s.statisticsFn(ctx, userID, categoryID)
}

type stubProjectService struct {
	createFn  func(ctx context.Context, req services.CreateProjectRequest) (models.Project, error)
	getFn     func(ctx context.Context, userID, projectID string) (models.Project, error)
	listFn    func(ctx context.Context, userID string, activeOnly bool) ([]models.Project, error)
	updateFn  func(ctx context.Context, req services.UpdateProjectRequest) (models.Project, error)
	deleteFn  func(ctx context.Context, userID, projectID string) error
	summaryFn func(ctx context.Context, userID, projectID string) (services.ProjectSummary, error)
}

func (s stubProjectService) Create(ctx context.Context, req services.CreateProjectRequest) (models.Project, error) {
	if s.createFn == nil {
		return models.Project{}, nil
	}
	return s.createFn(ctx, req)
}

func (s stubProjectService) Get(ctx context.Context, userID, projectID string) (models.Project, error) {
	if s.getFn == nil {
		return models.Project{}, nil
	}
	return s.getFn(ctx, userID, projectID)
}

func (s stubProjectService) List(ctx context.Context, userID string, activeOnly bool) ([]models.Project, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, userID, activeOnly)
}

func (s stubProjectService) Update(ctx context.Context, req services.UpdateProjectRequest) (models.Project, error) {
	if s.updateFn == nil {
		return models.Project{}, nil
	}
	return s.updateFn(ctx, req)
}

func (s stubProjectService) Delete(ctx context.Context, userID, projectID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, userID, projectID)
}

func (s stubProjectService) Summary(ctx context.Context, userID, projectID string) (services.ProjectSummary, error) {
	if s.summaryFn == nil {
		return services.ProjectSummary{}, nil
	}
	return s.summaryFn(ctx, userID, projectID)
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
	}
}

func newTestHandler(users UserStore, entries EntryService, budgets BudgetService, categories CategoryService, projects ProjectService) *Handler {
	return New(fakeTxRunner{}, testConfig(), users, entries, budgets, categories, projects, websocket.NewHub())
}

func authedRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	}
	token, err := auth.GenerateToken("secret", "user-1", time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
