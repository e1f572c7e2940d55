package todo

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Service implements the category/detail operations on behalf of one
// authenticated user per call. Ownership is checked on every category
// access; details inherit the check through their category.
type Service struct {
	categories CategoryRepository
	details    DetailRepository
	logger     *slog.Logger
}

// NewService wires the to-do service.
func NewService(categories CategoryRepository, details DetailRepository, logger *slog.Logger) (*Service, error) {
	if categories == nil || details == nil {
		return nil, errors.New("todo service requires both repositories")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		categories: categories,
		details:    details,
		logger:     logger,
	}, nil
}

// Categories lists the user's categories for a due date.
func (s *Service) Categories(ctx context.Context, userID int64, dueDate time.Time) ([]*Category, error) {
	return s.categories.ListByUserAndDueDate(ctx, userID, dueDate)
}

// AddCategory creates a category owned by the user.
func (s *Service) AddCategory(ctx context.Context, userID int64, title string, dueDate time.Time) (*Category, error) {
	c := &Category{
		Title:   title,
		UserID:  userID,
		DueDate: dueDate,
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes the category and all its details.
func (s *Service) DeleteCategory(ctx context.Context, userID, categoryID int64) error {
	if _, err := s.ownedCategory(ctx, userID, categoryID); err != nil {
		return err
	}
	if err := s.details.DeleteByCategory(ctx, categoryID); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, categoryID); err != nil {
		return err
	}
	s.logger.Info("category deleted", "category_id", categoryID, "user_id", userID)
	return nil
}

// Category fetches one category, enforcing ownership.
func (s *Service) Category(ctx context.Context, userID, categoryID int64) (*Category, error) {
	return s.ownedCategory(ctx, userID, categoryID)
}

// Details lists a category's items.
func (s *Service) Details(ctx context.Context, userID, categoryID int64) (*Category, []*Detail, error) {
	c, err := s.ownedCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, nil, err
	}
	details, err := s.details.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, nil, err
	}
	return c, details, nil
}

// AddDetail appends an item to a category.
func (s *Service) AddDetail(ctx context.Context, userID, categoryID int64, description string) (*Category, *Detail, error) {
	c, err := s.ownedCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, nil, err
	}
	d := &Detail{
		Description: description,
		CategoryID:  categoryID,
	}
	if err := s.details.Create(ctx, d); err != nil {
		return nil, nil, err
	}
	return c, d, nil
}

// UpdateDetail applies a partial update: nil fields keep their value.
func (s *Service) UpdateDetail(ctx context.Context, userID, categoryID, detailID int64, description *string, completed *bool) (*Category, *Detail, error) {
	c, err := s.ownedCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, nil, err
	}

	d, err := s.details.FindByID(ctx, detailID)
	if err != nil {
		return nil, nil, err
	}
	if d == nil || d.CategoryID != categoryID {
		return nil, nil, ErrDetailNotFound
	}

	if description != nil {
		d.Description = *description
	}
	if completed != nil {
		d.Completed = *completed
	}
	if err := s.details.Update(ctx, d); err != nil {
		return nil, nil, err
	}
	return c, d, nil
}

// DeleteDetail removes a single item from a category.
func (s *Service) DeleteDetail(ctx context.Context, userID, categoryID, detailID int64) error {
	if _, err := s.ownedCategory(ctx, userID, categoryID); err != nil {
		return err
	}
	d, err := s.details.FindByID(ctx, detailID)
	if err != nil {
		return err
	}
	if d == nil || d.CategoryID != categoryID {
		return ErrDetailNotFound
	}
	return s.details.Delete(ctx, detailID)
}

func (s *Service) ownedCategory(ctx context.Context, userID, categoryID int64) (*Category, error) {
	c, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.UserID != userID {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}
