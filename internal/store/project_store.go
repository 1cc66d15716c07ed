package store

import (
	"context"

	"fintrack/internal/models"
)

type ProjectStore struct {
	db DB
}

func NewProjectStore(db DB) *ProjectStore {
	return &ProjectStore{db: db}
}

type ProjectInput struct {
	ID          string
	UserID      string
	Name        string
	Description *string
	Color       string
}

func (s *ProjectStore) Create(ctx context.Context, tx Execer, input ProjectInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO projects (id, user_id, name, description, color)
		VALUES ($1, $2, $3, $4, $5)
	`, input.ID, input.UserID, input.Name, input.Description, input.Color)
	return err
}

func (s *ProjectStore) GetByID(ctx context.Context, userID, projectID string) (models.Project, error) {
	var row models.Project
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, name, description, color, is_active, created_at, updated_at
		FROM projects
		WHERE id = $1 AND user_id = $2
	`, projectID, userID)
	if err != nil {
		return models.Project{}, err
	}
	return row, nil
}

func (s *ProjectStore) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]models.Project, error) {
	query := `
		SELECT id, user_id, name, description, color, is_active, created_at, updated_at
		FROM projects
		WHERE user_id = $1
	`
	if activeOnly {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY name"
	var rows []models.Project
	if err := s.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ProjectStore) ExistsByName(ctx context.Context, userID, name, excludeID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM projects
			WHERE user_id = $1 AND name = $2 AND id <> $3
		)
	`, userID, name, excludeID)
	return exists, err
}

type ProjectUpdate struct {
	ID          string
	UserID      string
	Name        string
	Description *string
	Color       string
	IsActive    bool
}

func (s *ProjectStore) Update(ctx context.Context, tx Execer, input ProjectUpdate) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE projects
		SET name = $1, description = $2, color = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
	`, input.Name, input.Description, input.Color, input.IsActive, input.ID, input.UserID)
	return err
}

func (s *ProjectStore) Delete(ctx context.Context, tx Execer, userID, projectID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM projects
		WHERE id = $1 AND user_id = $2
	`, projectID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
