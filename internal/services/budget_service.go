package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"fintrack/internal/db"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/period"
	"fintrack/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type BudgetStore interface {
	Create(ctx context.Context, tx store.Execer, input store.BudgetInput) error
	GetByID(ctx context.Context, userID, budgetID string) (store.BudgetRow, error)
	ListByUser(ctx context.Context, userID string, activeOnly bool) ([]store.BudgetRow, error)
	ExistsForCategory(ctx context.Context, userID, categoryID string) (bool, error)
	Update(ctx context.Context, tx store.Execer, input store.BudgetUpdate) error
	Delete(ctx context.Context, tx store.Execer, userID, budgetID string) (int64, error)
}

// SpendingStore is the slice of the ledger store the evaluator needs.
type SpendingStore interface {
	SumExpenses(ctx context.Context, userID, categoryID string, start, end time.Time) (decimal.Decimal, error)
}

type BudgetCategoryStore interface {
	GetByID(ctx context.Context, userID, categoryID string) (models.Category, error)
}

type BudgetService struct {
	txRunner   db.TxRunner
	budgets    BudgetStore
	categories BudgetCategoryStore
	ledger     SpendingStore
	now        func() time.Time
}

func NewBudgetService(txRunner db.TxRunner, budgets BudgetStore, categories BudgetCategoryStore, ledger SpendingStore) *BudgetService {
	return &BudgetService{
		txRunner:   txRunner,
		budgets:    budgets,
		categories: categories,
		ledger:     ledger,
		now:        time.Now,
	}
}

// BudgetStatus is the evaluated state of one budget for its current period
// window. The category name arrives denormalized; evaluation itself does no
// hidden lookups.
type BudgetStatus struct {
	BudgetID        string          `json:"budget_id"`
	CategoryID      string          `json:"category_id"`
	CategoryName    string          `json:"category_name"`
	Period          string          `json:"period"`
	TargetAmount    decimal.Decimal `json:"target_amount"`
	CurrentSpending decimal.Decimal `json:"current_spending"`
	Remaining       decimal.Decimal `json:"remaining"`
	PercentageUsed  float64         `json:"percentage_used"`
	AlertThreshold  int             `json:"alert_threshold"`
	IsActive        bool            `json:"is_active"`
	IsOverBudget    bool            `json:"is_over_budget"`
	ShouldAlert     bool            `json:"should_alert"`
	AlertMessage    string          `json:"alert_message,omitempty"`
	WindowStart     time.Time       `json:"window_start"`
	WindowEnd       time.Time       `json:"window_end"`
}

type CreateBudgetRequest struct {
	UserID         string
	CategoryID     string
	Amount         decimal.Decimal
	Period         string
	AlertThreshold *int
}

func (s *BudgetService) Create(ctx context.Context, req CreateBudgetRequest) (store.BudgetRow, error) {
	if !req.Amount.IsPositive() {
		return store.BudgetRow{}, ErrInvalidAmount
	}
	if !period.IsValidKind(req.Period) {
		return store.BudgetRow{}, ErrInvalidPeriod
	}
	threshold := models.DefaultAlertThreshold
	if req.AlertThreshold != nil {
		threshold = *req.AlertThreshold
	}
	if threshold < 0 || threshold > 100 {
		return store.BudgetRow{}, ErrInvalidThreshold
	}
	if _, err := s.categories.GetByID(ctx, req.UserID, req.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.BudgetRow{}, ErrCategoryNotFound
		}
		return store.BudgetRow{}, err
	}
	exists, err := s.budgets.ExistsForCategory(ctx, req.UserID, req.CategoryID)
	if err != nil {
		return store.BudgetRow{}, err
	}
	if exists {
		return store.BudgetRow{}, ErrDuplicateBudget
	}
	budgetID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.budgets.Create(ctx, tx, store.BudgetInput{
			ID:             budgetID,
			UserID:         req.UserID,
			CategoryID:     req.CategoryID,
			Amount:         req.Amount,
			Period:         req.Period,
			AlertThreshold: threshold,
		})
	})
	if err != nil {
		return store.BudgetRow{}, err
	}
	return s.get(ctx, req.UserID, budgetID)
}

type UpdateBudgetRequest struct {
	ID             string
	UserID         string
	Amount         *decimal.Decimal
	Period         *string
	AlertThreshold *int
	IsActive       *bool
}

func (s *BudgetService) Update(ctx context.Context, req UpdateBudgetRequest) (store.BudgetRow, error) {
	row, err := s.get(ctx, req.UserID, req.ID)
	if err != nil {
		return store.BudgetRow{}, err
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return store.BudgetRow{}, ErrInvalidAmount
		}
		row.Amount = *req.Amount
	}
	if req.Period != nil {
		if !period.IsValidKind(*req.Period) {
			return store.BudgetRow{}, ErrInvalidPeriod
		}
		row.Period = *req.Period
	}
	if req.AlertThreshold != nil {
		if *req.AlertThreshold < 0 || *req.AlertThreshold > 100 {
			return store.BudgetRow{}, ErrInvalidThreshold
		}
		row.AlertThreshold = *req.AlertThreshold
	}
	if req.IsActive != nil {
		row.IsActive = *req.IsActive
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.budgets.Update(ctx, tx, store.BudgetUpdate{
			ID:             row.ID,
			UserID:         row.UserID,
			Amount:         row.Amount,
			Period:         row.Period,
			AlertThreshold: row.AlertThreshold,
			IsActive:       row.IsActive,
		})
	})
	if err != nil {
		return store.BudgetRow{}, err
	}
	return s.get(ctx, req.UserID, req.ID)
}

func (s *BudgetService) Delete(ctx context.Context, userID, budgetID string) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.budgets.Delete(ctx, tx, userID, budgetID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrBudgetNotFound
		}
		return nil
	})
}

// ToggleActive flips the active flag. An inactive budget keeps its history but
// never alerts.
func (s *BudgetService) ToggleActive(ctx context.Context, userID, budgetID string) (store.BudgetRow, error) {
	row, err := s.get(ctx, userID, budgetID)
	if err != nil {
		return store.BudgetRow{}, err
	}
	active := !row.IsActive
	return s.Update(ctx, UpdateBudgetRequest{ID: budgetID, UserID: userID, IsActive: &active})
}

func (s *BudgetService) List(ctx context.Context, userID string, activeOnly bool) ([]store.BudgetRow, error) {
	return s.budgets.ListByUser(ctx, userID, activeOnly)
}

func (s *BudgetService) Get(ctx context.Context, userID, budgetID string) (store.BudgetRow, error) {
	return s.get(ctx, userID, budgetID)
}

// Evaluate computes the budget's status for the period window containing
// today: spending so far, remaining amount, percentage used, and whether an
// alert is due.
func (s *BudgetService) Evaluate(ctx context.Context, userID, budgetID string) (BudgetStatus, error) {
	row, err := s.get(ctx, userID, budgetID)
	if err != nil {
		return BudgetStatus{}, err
	}
	return s.evaluateRow(ctx, row)
}

// EvaluateAll evaluates every active budget for the owner. A failure on one
// budget (for example a corrupted category reference) is logged and skipped so
// the rest of the batch still evaluates.
func (s *BudgetService) EvaluateAll(ctx context.Context, userID string) ([]BudgetStatus, error) {
	rows, err := s.budgets.ListByUser(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	statuses := make([]BudgetStatus, 0, len(rows))
	for _, row := range rows {
		status, err := s.evaluateRow(ctx, row)
		if err != nil {
			log.Printf("budget %s evaluation failed: %v", row.ID, err)
			continue
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// EvaluateForCategory evaluates the owner's active budget for one category.
// Returns nil when the category has no active budget.
func (s *BudgetService) EvaluateForCategory(ctx context.Context, userID, categoryID string) (*BudgetStatus, error) {
	rows, err := s.budgets.ListByUser(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.CategoryID != categoryID {
			continue
		}
		status, err := s.evaluateRow(ctx, row)
		if err != nil {
			return nil, err
		}
		return &status, nil
	}
	return nil, nil
}

func (s *BudgetService) evaluateRow(ctx context.Context, row store.BudgetRow) (BudgetStatus, error) {
	if row.CategoryName == nil {
		return BudgetStatus{}, ErrMissingReference
	}
	window, err := period.Resolve(row.Period, s.now())
	if err != nil {
		return BudgetStatus{}, err
	}
	spending, err := s.ledger.SumExpenses(ctx, row.UserID, row.CategoryID, window.Start, window.End)
	if err != nil {
		return BudgetStatus{}, err
	}
	status := BudgetStatus{
		BudgetID:        row.ID,
		CategoryID:      row.CategoryID,
		CategoryName:    *row.CategoryName,
		Period:          row.Period,
		TargetAmount:    row.Amount,
		CurrentSpending: spending,
		Remaining:       row.Amount.Sub(spending),
		PercentageUsed:  percentageUsed(spending, row.Amount),
		AlertThreshold:  row.AlertThreshold,
		IsActive:        row.IsActive,
		IsOverBudget:    spending.GreaterThan(row.Amount),
		WindowStart:     window.Start,
		WindowEnd:       window.End,
	}
	status.ShouldAlert = row.IsActive && status.PercentageUsed >= float64(row.AlertThreshold)
	if status.ShouldAlert {
		status.AlertMessage = alertMessage(status)
	}
	return status, nil
}

func (s *BudgetService) get(ctx context.Context, userID, budgetID string) (store.BudgetRow, error) {
	row, err := s.budgets.GetByID(ctx, userID, budgetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.BudgetRow{}, ErrBudgetNotFound
		}
		return store.BudgetRow{}, err
	}
	return row, nil
}

// percentageUsed is 100 x spending / target rounded to two decimal places,
// unbounded above 100. A zero target reads as zero percent used.
func percentageUsed(spending, target decimal.Decimal) float64 {
	if target.IsZero() {
		return 0.0
	}
	return spending.Div(target).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

func alertMessage(status BudgetStatus) string {
	if status.IsOverBudget {
		over := status.CurrentSpending.Sub(status.TargetAmount)
		return fmt.Sprintf(
			"Budget alert: you've exceeded your %s budget for %s by $%s ($%s / $%s)",
			status.Period, status.CategoryName, money.Format(over),
			money.Format(status.CurrentSpending), money.Format(status.TargetAmount),
		)
	}
	return fmt.Sprintf(
		"Budget alert: you've used %.0f%% of your %s budget for %s ($%s / $%s)",
		status.PercentageUsed, status.Period, status.CategoryName,
		money.Format(status.CurrentSpending), money.Format(status.TargetAmount),
	)
}
