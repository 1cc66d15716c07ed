package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"fintrack/internal/db"
	"fintrack/internal/models"
	"fintrack/internal/store"
	"fintrack/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const (
	maxProjectNameLength        = 100
	maxProjectDescriptionLength = 500
	defaultProjectColor         = "#6c757d"
)

type ProjectStore interface {
	Create(ctx context.Context, tx store.Execer, input store.ProjectInput) error
	GetByID(ctx context.Context, userID, projectID string) (models.Project, error)
	ListByUser(ctx context.Context, userID string, activeOnly bool) ([]models.Project, error)
	ExistsByName(ctx context.Context, userID, name, excludeID string) (bool, error)
	Update(ctx context.Context, tx store.Execer, input store.ProjectUpdate) error
	Delete(ctx context.Context, tx store.Execer, userID, projectID string) (int64, error)
}

type ProjectLedgerStore interface {
	ListByProject(ctx context.Context, userID, projectID string) ([]store.SummaryRow, error)
	DetachProject(ctx context.Context, tx store.Execer, userID, projectID string) error
}

type ProjectService struct {
	txRunner db.TxRunner
	projects ProjectStore
	ledger   ProjectLedgerStore
}

func NewProjectService(txRunner db.TxRunner, projects ProjectStore, ledger ProjectLedgerStore) *ProjectService {
	return &ProjectService{
		txRunner: txRunner,
		projects: projects,
		ledger:   ledger,
	}
}

type CreateProjectRequest struct {
	UserID      string
	Name        string
	Description *string
	Color       string
}

func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (models.Project, error) {
	name, err := s.validateName(ctx, req.UserID, req.Name, "")
	if err != nil {
		return models.Project{}, err
	}
	if req.Description != nil && len(*req.Description) > maxProjectDescriptionLength {
		return models.Project{}, ErrDescriptionTooLong
	}
	color, err := normalizeColor(req.Color)
	if err != nil {
		return models.Project{}, err
	}
	projectID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.projects.Create(ctx, tx, store.ProjectInput{
			ID:          projectID,
			UserID:      req.UserID,
			Name:        name,
			Description: req.Description,
			Color:       color,
		})
	})
	if err != nil {
		return models.Project{}, err
	}
	return s.Get(ctx, req.UserID, projectID)
}

func (s *ProjectService) Get(ctx context.Context, userID, projectID string) (models.Project, error) {
	project, err := s.projects.GetByID(ctx, userID, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Project{}, ErrProjectNotFound
		}
		return models.Project{}, err
	}
	return project, nil
}

func (s *ProjectService) List(ctx context.Context, userID string, activeOnly bool) ([]models.Project, error) {
	return s.projects.ListByUser(ctx, userID, activeOnly)
}

type UpdateProjectRequest struct {
	ID          string
	UserID      string
	Name        *string
	Description *string
	Color       *string
	IsActive    *bool
}

func (s *ProjectService) Update(ctx context.Context, req UpdateProjectRequest) (models.Project, error) {
	project, err := s.Get(ctx, req.UserID, req.ID)
	if err != nil {
		return models.Project{}, err
	}
	if req.Name != nil {
		name, err := s.validateName(ctx, req.UserID, *req.Name, req.ID)
		if err != nil {
			return models.Project{}, err
		}
		project.Name = name
	}
	if req.Description != nil {
		if len(*req.Description) > maxProjectDescriptionLength {
			return models.Project{}, ErrDescriptionTooLong
		}
		project.Description = req.Description
	}
	if req.Color != nil {
		color, err := normalizeColor(*req.Color)
		if err != nil {
			return models.Project{}, err
		}
		project.Color = color
	}
	if req.IsActive != nil {
		project.IsActive = *req.IsActive
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.projects.Update(ctx, tx, store.ProjectUpdate{
			ID:          project.ID,
			UserID:      project.UserID,
			Name:        project.Name,
			Description: project.Description,
			Color:       project.Color,
			IsActive:    project.IsActive,
		})
	})
	if err != nil {
		return models.Project{}, err
	}
	return s.Get(ctx, req.UserID, req.ID)
}

// Delete detaches the project's entries and removes the project row in one
// unit of work. Entries are never cascaded away.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID string) error {
	if _, err := s.Get(ctx, userID, projectID); err != nil {
		return err
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.ledger.DetachProject(ctx, tx, userID, projectID); err != nil {
			return err
		}
		rows, err := s.projects.Delete(ctx, tx, userID, projectID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrProjectNotFound
		}
		return nil
	})
}

type ProjectSummary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	NetSpending  decimal.Decimal `json:"net_spending"`
	EntryCount   int             `json:"entry_count"`
}

func (s *ProjectService) Summary(ctx context.Context, userID, projectID string) (ProjectSummary, error) {
	if _, err := s.Get(ctx, userID, projectID); err != nil {
		return ProjectSummary{}, err
	}
	rows, err := s.ledger.ListByProject(ctx, userID, projectID)
	if err != nil {
		return ProjectSummary{}, err
	}
	summary := ProjectSummary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, row := range rows {
		if row.Type == models.EntryTypeIncome {
			summary.TotalIncome = summary.TotalIncome.Add(row.Amount)
		} else {
			summary.TotalExpense = summary.TotalExpense.Add(row.Amount)
		}
		summary.EntryCount++
	}
	summary.NetSpending = summary.TotalExpense.Sub(summary.TotalIncome)
	return summary, nil
}

func (s *ProjectService) validateName(ctx context.Context, userID, name, excludeID string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if len(name) > maxProjectNameLength {
		return "", ErrNameTooLong
	}
	exists, err := s.projects.ExistsByName(ctx, userID, name, excludeID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrDuplicateProject
	}
	return name, nil
}

func normalizeColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		return defaultProjectColor, nil
	}
	if !strings.HasPrefix(color, "#") {
		color = "#" + color
	}
	if err := validator.ValidateHexColor(color); err != nil {
		return "", err
	}
	return color, nil
}
