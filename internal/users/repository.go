package users

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/sharath018/temple-directory-backend/internal/auth"
)

type Repository interface {
	List(ctx context.Context, role string, limit, offset int) ([]auth.User, error)
	Count(ctx context.Context, role string) (int64, error)
	FindByID(ctx context.Context, id uint) (*auth.User, error)
	FindByEmail(ctx context.Context, email string) (*auth.User, error)
	Create(ctx context.Context, u *auth.User) error
	Update(ctx context.Context, u *auth.User) error
	Delete(ctx context.Context, id uint) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, role string, limit, offset int) ([]auth.User, error) {
	var users []auth.User
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&users).Error
	return users, err
}

func (r *repository) Count(ctx context.Context, role string) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&auth.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *repository) FindByID(ctx context.Context, id uint) (*auth.User, error) {
	var u auth.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	var u auth.User
	err := r.db.WithContext(ctx).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) Create(ctx context.Context, u *auth.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) Update(ctx context.Context, u *auth.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&auth.User{}, id).Error
}
