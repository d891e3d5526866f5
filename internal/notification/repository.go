package notification

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	FindByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]Notification, error)
	CountByUser(ctx context.Context, userID uint, unreadOnly bool) (int64, error)
	MarkRead(ctx context.Context, userID, id uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) FindByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]Notification, error) {
	var list []Notification
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if unreadOnly {
		q = q.Where("is_read = false")
	}
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *repository) CountByUser(ctx context.Context, userID uint, unreadOnly bool) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = false")
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *repository) MarkRead(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) MarkAllRead(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Update("is_read", true).Error
}
