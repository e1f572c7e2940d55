package storage

import (
	"context"

	"gorm.io/gorm"

	"todolist-server-go/internal/domain/todo"
	"todolist-server-go/internal/platform/errors"
)

type detailRepository struct {
	db *gorm.DB
}

// NewDetailRepository creates the gorm-backed detail repository.
func NewDetailRepository(db *gorm.DB) todo.DetailRepository {
	return &detailRepository{db: db}
}

func (r *detailRepository) Create(ctx context.Context, d *todo.Detail) error {
	model := &TodoDetail{
		Description: d.Description,
		IsCompleted: d.Completed,
		CategoryID:  d.CategoryID,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "detail.create", "failed to create detail", err)
	}
	d.ID = model.ID
	return nil
}

func (r *detailRepository) FindByID(ctx context.Context, id int64) (*todo.Detail, error) {
	var model TodoDetail
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "detail.find_by_id", "failed to find detail", err)
	}
	return fromDetailModel(&model), nil
}

func (r *detailRepository) ListByCategory(ctx context.Context, categoryID int64) ([]*todo.Detail, error) {
	var models []TodoDetail
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "detail.list", "failed to list details", err)
	}

	out := make([]*todo.Detail, len(models))
	for i := range models {
		out[i] = fromDetailModel(&models[i])
	}
	return out, nil
}

func (r *detailRepository) Update(ctx context.Context, d *todo.Detail) error {
	updates := map[string]any{
		"description":  d.Description,
		"is_completed": d.Completed,
	}
	err := r.db.WithContext(ctx).
		Model(&TodoDetail{}).
		Where("id = ?", d.ID).
		Updates(updates).Error
	if err != nil {
		return errors.Wrap(errors.KindStorage, "detail.update", "failed to update detail", err)
	}
	return nil
}

func (r *detailRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&TodoDetail{}, id).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "detail.delete", "failed to delete detail", err)
	}
	return nil
}

func (r *detailRepository) DeleteByCategory(ctx context.Context, categoryID int64) error {
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Delete(&TodoDetail{}).Error
	if err != nil {
		return errors.Wrap(errors.KindStorage, "detail.delete_by_category", "failed to delete details", err)
	}
	return nil
}

func fromDetailModel(m *TodoDetail) *todo.Detail {
	return &todo.Detail{
		ID:          m.ID,
		Description: m.Description,
		Completed:   m.IsCompleted,
		CategoryID:  m.CategoryID,
	}
}
