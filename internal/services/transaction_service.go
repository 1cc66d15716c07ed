package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"fintrack/internal/db"
	"fintrack/internal/models"
	"fintrack/internal/period"
	"fintrack/internal/store"
	"fintrack/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const maxDescriptionLength = 200

// LedgerStore is the persistence boundary for ledger entries.
type LedgerStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	GetByID(ctx context.Context, userID, entryID string) (models.Transaction, error)
	List(ctx context.Context, filter store.EntryFilter) ([]models.Transaction, error)
	Update(ctx context.Context, tx store.Execer, input store.TransactionUpdate) error
	SetDeleted(ctx context.Context, tx store.Execer, userID, entryID string, deleted bool) (int64, error)
	Balance(ctx context.Context, userID string, includeDeleted bool) (decimal.Decimal, error)
	ListForSummary(ctx context.Context, userID string, start, end time.Time) ([]store.SummaryRow, error)
}

type EntryCategoryStore interface {
	GetByID(ctx context.Context, userID, categoryID string) (models.Category, error)
}

type EntryProjectStore interface {
	GetByID(ctx context.Context, userID, projectID string) (models.Project, error)
}

// BudgetEvaluator lets the ledger side ask whether an expense posting pushed a
// budget over its alert threshold.
type BudgetEvaluator interface {
	EvaluateForCategory(ctx context.Context, userID, categoryID string) (*BudgetStatus, error)
}

// AlertHub is the outbound notification boundary. Delivery is best effort:
// a failed or dropped alert never affects the ledger mutation that caused it.
type AlertHub interface {
	BroadcastAlert(userID string, alert websocket.AlertUpdate)
}

type TransactionService struct {
	txRunner   db.TxRunner
	ledger     LedgerStore
	categories EntryCategoryStore
	projects   EntryProjectStore
	evaluator  BudgetEvaluator
	hub        AlertHub
	now        func() time.Time
}

func NewTransactionService(txRunner db.TxRunner, ledger LedgerStore, categories EntryCategoryStore, projects EntryProjectStore, evaluator BudgetEvaluator, hub AlertHub) *TransactionService {
	return &TransactionService{
		txRunner:   txRunner,
		ledger:     ledger,
		categories: categories,
		projects:   projects,
		evaluator:  evaluator,
		hub:        hub,
		now:        time.Now,
	}
}

type CreateEntryRequest struct {
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

func (s *TransactionService) CreateEntry(ctx context.Context, req CreateEntryRequest) (models.Transaction, error) {
	amount := req.Amount
	// A provided unit price takes over: amount = quantity x unit price.
	if req.UnitPrice != nil {
		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
		amount = req.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	}
	if err := validateEntryFields(amount, req.Type, req.Quantity, req.Description); err != nil {
		return models.Transaction{}, err
	}
	if _, err := s.categories.GetByID(ctx, req.UserID, req.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transaction{}, ErrCategoryNotFound
		}
		return models.Transaction{}, err
	}
	if req.ProjectID != nil {
		if _, err := s.projects.GetByID(ctx, req.UserID, *req.ProjectID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.Transaction{}, ErrProjectNotFound
			}
			return models.Transaction{}, err
		}
	}
	entryID := uuid.NewString()
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.ledger.Create(ctx, tx, store.TransactionInput{
			ID:          entryID,
			UserID:      req.UserID,
			CategoryID:  req.CategoryID,
			ProjectID:   req.ProjectID,
			Amount:      amount,
			Quantity:    req.Quantity,
			UnitPrice:   req.UnitPrice,
			Description: req.Description,
			Type:        req.Type,
			OccurredOn:  period.DateOf(req.OccurredOn),
		})
	})
	if err != nil {
		return models.Transaction{}, err
	}
	if req.Type == models.EntryTypeExpense {
		s.notifyBudget(ctx, req.UserID, req.CategoryID)
	}
	return s.ledger.GetByID(ctx, req.UserID, entryID)
}

type UpdateEntryRequest struct {
	ID            string
	UserID        string
	CategoryID    *string
	ProjectID     *string
	DetachProject bool
	Amount        *decimal.Decimal
	Quantity      *int
	UnitPrice     *decimal.Decimal
	Description   *string
	Type          *string
	OccurredOn    *time.Time
}

// UpdateEntry applies a partial update, re-validating any changed field
// exactly as creation does. Unspecified fields are left untouched.
func (s *TransactionService) UpdateEntry(ctx context.Context, req UpdateEntryRequest) (models.Transaction, error) {
	entry, err := s.liveEntry(ctx, req.UserID, req.ID)
	if err != nil {
		return models.Transaction{}, err
	}
	if req.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, req.UserID, *req.CategoryID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.Transaction{}, ErrCategoryNotFound
			}
			return models.Transaction{}, err
		}
		entry.CategoryID = *req.CategoryID
	}
	if req.DetachProject {
		entry.ProjectID = nil
	} else if req.ProjectID != nil {
		if _, err := s.projects.GetByID(ctx, req.UserID, *req.ProjectID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.Transaction{}, ErrProjectNotFound
			}
			return models.Transaction{}, err
		}
		entry.ProjectID = req.ProjectID
	}
	if req.Amount != nil {
		entry.Amount = *req.Amount
	}
	if req.Quantity != nil {
		entry.Quantity = req.Quantity
	}
	if req.UnitPrice != nil {
		entry.UnitPrice = req.UnitPrice
		quantity := 1
		if entry.Quantity != nil {
			quantity = *entry.Quantity
		}
		entry.Amount = req.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	}
	if req.Description != nil {
		entry.Description = req.Description
	}
	if req.Type != nil {
		entry.Type = *req.Type
	}
	if req.OccurredOn != nil {
		entry.OccurredOn = period.DateOf(*req.OccurredOn)
	}
	if err := validateEntryFields(entry.Amount, entry.Type, entry.Quantity, entry.Description); err != nil {
		return models.Transaction{}, err
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.ledger.Update(ctx, tx, store.TransactionUpdate{
			ID:          entry.ID,
			UserID:      entry.UserID,
			CategoryID:  entry.CategoryID,
			ProjectID:   entry.ProjectID,
			Amount:      entry.Amount,
			Quantity:    entry.Quantity,
			UnitPrice:   entry.UnitPrice,
			Description: entry.Description,
			Type:        entry.Type,
			OccurredOn:  entry.OccurredOn,
		})
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return s.ledger.GetByID(ctx, req.UserID, req.ID)
}

// SoftDelete marks the entry inactive. The row stays put for the audit trail
// and drops out of every aggregation.
func (s *TransactionService) SoftDelete(ctx context.Context, userID, entryID string) error {
	if _, err := s.liveEntry(ctx, userID, entryID); err != nil {
		return err
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.ledger.SetDeleted(ctx, tx, userID, entryID, true)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrEntryNotFound
		}
		return nil
	})
}

func (s *TransactionService) Restore(ctx context.Context, userID, entryID string) (models.Transaction, error) {
	entry, err := s.ledger.GetByID(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transaction{}, ErrEntryNotFound
		}
		return models.Transaction{}, err
	}
	if !entry.IsDeleted {
		return entry, nil
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := s.ledger.SetDeleted(ctx, tx, userID, entryID, false)
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return s.ledger.GetByID(ctx, userID, entryID)
}

func (s *TransactionService) Get(ctx context.Context, userID, entryID string) (models.Transaction, error) {
	return s.liveEntry(ctx, userID, entryID)
}

func (s *TransactionService) List(ctx context.Context, filter store.EntryFilter) ([]models.Transaction, error) {
	return s.ledger.List(ctx, filter)
}

// Balance is income minus expense over the owner's whole ledger. Soft-deleted
// entries are excluded unless explicitly requested.
func (s *TransactionService) Balance(ctx context.Context, userID string, includeDeleted bool) (decimal.Decimal, error) {
	return s.ledger.Balance(ctx, userID, includeDeleted)
}

type CategoryBreakdown struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type Summary struct {
	TotalIncome  decimal.Decimal              `json:"total_income"`
	TotalExpense decimal.Decimal              `json:"total_expense"`
	NetBalance   decimal.Decimal              `json:"net_balance"`
	EntryCount   int                          `json:"entry_count"`
	ByCategory   map[string]CategoryBreakdown `json:"by_category"`
	Start        time.Time                    `json:"start"`
	End          time.Time                    `json:"end"`
}

// SpendingSummary aggregates live entries inside the inclusive window. Zero
// start/end default to the first day of the current month and today.
func (s *TransactionService) SpendingSummary(ctx context.Context, userID string, start, end time.Time) (Summary, error) {
	today := period.DateOf(s.now())
	if start.IsZero() {
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		start = period.DateOf(start)
	}
	if end.IsZero() {
		end = today
	} else {
		end = period.DateOf(end)
	}
	rows, err := s.ledger.ListForSummary(ctx, userID, start, end)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		NetBalance:   decimal.Zero,
		ByCategory:   make(map[string]CategoryBreakdown),
		Start:        start,
		End:          end,
	}
	for _, row := range rows {
		breakdown := summary.ByCategory[row.CategoryName]
		if row.Type == models.EntryTypeIncome {
			summary.TotalIncome = summary.TotalIncome.Add(row.Amount)
			breakdown.Income = breakdown.Income.Add(row.Amount)
		} else {
			summary.TotalExpense = summary.TotalExpense.Add(row.Amount)
			breakdown.Expense = breakdown.Expense.Add(row.Amount)
		}
		summary.ByCategory[row.CategoryName] = breakdown
		summary.EntryCount++
	}
	summary.NetBalance = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary, nil
}

type MonthSummary struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// MonthlyTrend returns one summary per calendar month, oldest to newest,
// ending at the current month. Month boundaries are exact, including the
// December to January rollover.
func (s *TransactionService) MonthlyTrend(ctx context.Context, userID string, monthsBack int) ([]MonthSummary, error) {
	today := period.DateOf(s.now())
	currentMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	trend := make([]MonthSummary, 0, monthsBack)
	for i := monthsBack - 1; i >= 0; i-- {
		ref := currentMonth.AddDate(0, -i, 0)
		window, err := period.Resolve(period.Monthly, ref)
		if err != nil {
			return nil, err
		}
		summary, err := s.SpendingSummary(ctx, userID, window.Start, window.End)
		if err != nil {
			return nil, err
		}
		trend = append(trend, MonthSummary{
			Month:   window.Start.Format("2006-01"),
			Income:  summary.TotalIncome,
			Expense: summary.TotalExpense,
			Net:     summary.NetBalance,
		})
	}
	return trend, nil
}

func (s *TransactionService) liveEntry(ctx context.Context, userID, entryID string) (models.Transaction, error) {
	entry, err := s.ledger.GetByID(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transaction{}, ErrEntryNotFound
		}
		return models.Transaction{}, err
	}
	if entry.IsDeleted {
		return models.Transaction{}, ErrEntryNotFound
	}
	return entry, nil
}

// notifyBudget runs after the ledger write has committed. Evaluation or
// delivery failures are logged and swallowed; they never roll the posting
// back.
func (s *TransactionService) notifyBudget(ctx context.Context, userID, categoryID string) {
	if s.evaluator == nil || s.hub == nil {
		return
	}
	status, err := s.evaluator.EvaluateForCategory(ctx, userID, categoryID)
	if err != nil {
		log.Printf("budget evaluation after expense failed: %v", err)
		return
	}
	if status == nil || !status.ShouldAlert {
		return
	}
	s.hub.BroadcastAlert(userID, websocket.AlertUpdate{
		BudgetID:       status.BudgetID,
		CategoryName:   status.CategoryName,
		Period:         status.Period,
		PercentageUsed: status.PercentageUsed,
		IsOverBudget:   status.IsOverBudget,
		Message:        status.AlertMessage,
	})
}

func validateEntryFields(amount decimal.Decimal, entryType string, quantity *int, description *string) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if entryType != models.EntryTypeIncome && entryType != models.EntryTypeExpense {
		return ErrInvalidEntryType
	}
	if quantity != nil && *quantity < 1 {
		return ErrInvalidQuantity
	}
	if description != nil && len(*description) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}
