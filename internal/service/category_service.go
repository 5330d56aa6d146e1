package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
	"github.com/Shivanand-hulikatti/letsgo/internal/repository"
)

// CategoryService exposes the read-only category list.
type CategoryService struct {
	categories CategoryStore
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(categories CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

// ListCategories returns every category.
func (s *CategoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetCategory returns a single category.
func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.NotFound("category %d not found", id)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}
