package storage

import (
	"context"

	"gorm.io/gorm"

	"todolist-server-go/internal/domain/user"
	"todolist-server-go/internal/platform/errors"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates the gorm-backed identity repository.
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := r.toModel(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "user.create", "failed to create user", err)
	}
	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	var model User
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "user.find_by_id", "failed to find user", err)
	}
	return r.fromModel(&model), nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var model User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "user.find_by_username", "failed to find user", err)
	}
	return r.fromModel(&model), nil
}

func (r *userRepository) toModel(u *user.User) *User {
	return &User{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
		Provider: u.Provider,
	}
}

func (r *userRepository) fromModel(m *User) *user.User {
	return &user.User{
		ID:        m.ID,
		Username:  m.Username,
		Email:     m.Email,
		Role:      user.ParseRole(m.Role),
		Provider:  m.Provider,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
