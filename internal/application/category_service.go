package application

import (
	"context"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/category"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/event"
)

type CategoryService struct {
	categoryRepo category.Repository
	eventRepo    event.Repository
}

func NewCategoryService(categoryRepo category.Repository, eventRepo event.Repository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, eventRepo: eventRepo}
}

func (s *CategoryService) CreateCategory(ctx context.Context, name, description string) (*category.Category, error) {
	c := category.NewCategory(name, description)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id string) (*category.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *CategoryService) ListCategories(ctx context.Context, limit, offset int) ([]*category.Category, error) {
	limit, offset = normalizePage(limit, offset)
	return s.categoryRepo.List(ctx, limit, offset)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id, name, description string) (*category.Category, error) {
	c, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := category.NewCategory(name, description)
	c.Name = updated.Name
	c.Description = updated.Description
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory はカテゴリを削除する。イベントが参照していれば ErrCategoryHasEvents
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}
	hasEvents, err := s.categoryRepo.HasEvents(ctx, id)
	if err != nil {
		return err
	}
	if hasEvents {
		return category.ErrCategoryHasEvents
	}
	return s.categoryRepo.Delete(ctx, id)
}

// ListCategoryEvents はカテゴリに属するイベントを新しい順に返す
func (s *CategoryService) ListCategoryEvents(ctx context.Context, id string, limit, offset int) ([]*event.Event, error) {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	limit, offset = normalizePage(limit, offset)
	return s.eventRepo.List(ctx, event.Filter{CategoryID: id}, event.OrderLatest, limit, offset)
}
