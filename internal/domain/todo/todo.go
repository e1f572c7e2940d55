package todo

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrDetailNotFound   = errors.New("detail not found")
)

// Category groups details under a title and a due date, scoped to one user.
type Category struct {
	ID      int64
	Title   string
	UserID  int64
	DueDate time.Time
}

// Detail is a single to-do item inside a category.
type Detail struct {
	ID          int64
	Description string
	Completed   bool
	CategoryID  int64
}

// CategoryRepository abstracts category persistence.
// Lookups return (nil, nil) when no row matches.
type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id int64) (*Category, error)
	ListByUserAndDueDate(ctx context.Context, userID int64, dueDate time.Time) ([]*Category, error)
	Delete(ctx context.Context, id int64) error
}

// DetailRepository abstracts detail persistence.
type DetailRepository interface {
	Create(ctx context.Context, d *Detail) error
	FindByID(ctx context.Context, id int64) (*Detail, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]*Detail, error)
	Update(ctx context.Context, d *Detail) error
	Delete(ctx context.Context, id int64) error
	DeleteByCategory(ctx context.Context, categoryID int64) error
}
