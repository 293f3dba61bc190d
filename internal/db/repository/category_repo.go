package repository

import (
	"context"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
	"github.com/gokatarajesh/trivia-api/internal/question"
)

type categoryStore interface {
	ListCategories(ctx context.Context) ([]sqlcgen.Category, error)
}

// CategoryRepository exposes the category catalog.
type CategoryRepository struct {
	store categoryStore
}

func NewCategoryRepository(store categoryStore) *CategoryRepository {
	return &CategoryRepository{store: store}
}

// ListCategories returns every category ordered by id.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]question.Category, error) {
	rows, err := r.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]question.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, question.Category{ID: row.ID, Type: row.Type})
	}
	return out, nil
}
