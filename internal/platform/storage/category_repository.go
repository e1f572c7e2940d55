package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"todolist-server-go/internal/domain/todo"
	"todolist-server-go/internal/platform/errors"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates the gorm-backed category repository.
func NewCategoryRepository(db *gorm.DB) todo.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *todo.Category) error {
	model := &TodoCategory{
		Title:   c.Title,
		UserID:  c.UserID,
		DueDate: dateOnly(c.DueDate),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "category.create", "failed to create category", err)
	}
	c.ID = model.ID
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*todo.Category, error) {
	var model TodoCategory
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "category.find_by_id", "failed to find category", err)
	}
	return fromCategoryModel(&model), nil
}

func (r *categoryRepository) ListByUserAndDueDate(ctx context.Context, userID int64, dueDate time.Time) ([]*todo.Category, error) {
	var models []TodoCategory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND due_date = ?", userID, dateOnly(dueDate)).
		Order("category_id").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "category.list", "failed to list categories", err)
	}

	out := make([]*todo.Category, len(models))
	for i := range models {
		out[i] = fromCategoryModel(&models[i])
	}
	return out, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&TodoCategory{}, id).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "category.delete", "failed to delete category", err)
	}
	return nil
}

func fromCategoryModel(m *TodoCategory) *todo.Category {
	return &todo.Category{
		ID:      m.ID,
		Title:   m.Title,
		UserID:  m.UserID,
		DueDate: m.DueDate,
	}
}

// dateOnly truncates to midnight UTC so equality matching on due_date works
// regardless of the caller's clock reading.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
