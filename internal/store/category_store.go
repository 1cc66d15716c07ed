package store

import (
	"context"

	"fintrack/internal/models"
)

type CategoryStore struct {
	db DB
}

func NewCategoryStore(db DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) Create(ctx context.Context, tx Execer, id, userID, name string, isDefault bool) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, is_default)
		VALUES ($1, $2, $3, $4)
	`, id, userID, name, isDefault)
	return err
}

func (s *CategoryStore) GetByID(ctx context.Context, userID, categoryID string) (models.Category, error) {
	var row models.Category
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, name, is_default, created_at
		FROM categories
		WHERE id = $1 AND user_id = $2
	`, categoryID, userID)
	if err != nil {
		return models.Category{}, err
	}
	return row, nil
}

func (s *CategoryStore) ListByUser(ctx context.Context, userID string) ([]models.Category, error) {
	var rows []models.Category
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, name, is_default, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ExistsByName reports whether the owner already has a category with this
// name, optionally ignoring one id (for renames).
func (s *CategoryStore) ExistsByName(ctx context.Context, userID, name, excludeID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM categories
			WHERE user_id = $1 AND name = $2 AND id <> $3
		)
	`, userID, name, excludeID)
	return exists, err
}

func (s *CategoryStore) Rename(ctx context.Context, tx Execer, userID, categoryID, name string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE categories
		SET name = $1
		WHERE id = $2 AND user_id = $3
	`, name, categoryID, userID)
	return err
}

func (s *CategoryStore) Delete(ctx context.Context, tx Execer, userID, categoryID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM categories
		WHERE id = $1 AND user_id = $2
	`, categoryID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
