package auditlog

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, log *AuditLog) error
	GetByFilter(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, int64, error)
	GetByID(ctx context.Context, id uint) (*AuditLogResponse, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, log *AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("audit_logs al").
		Select(`
			al.id, al.user_id, al.place_id, al.action,
			al.details, al.ip_address, al.status, al.created_at,
			u.name as user_name,
			p.name as place_name
		`).
		Joins("LEFT JOIN users u ON al.user_id = u.id").
		Joins("LEFT JOIN places p ON al.place_id = p.id")
}

// GetByFilter retrieves audit logs with filtering and pagination.
func (r *repository) GetByFilter(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, int64, error) {
	var logs []AuditLogResponse
	var total int64

	query := r.baseQuery(ctx)

	if filter.UserID != nil {
		query = query.Where("al.user_id = ?", *filter.UserID)
	}
	if filter.PlaceID != nil {
		query = query.Where("al.place_id = ?", *filter.PlaceID)
	}
	if filter.Action != "" {
		query = query.Where("al.action ILIKE ?", "%"+filter.Action+"%")
	}
	if filter.Status != "" {
		query = query.Where("al.status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	offset := (filter.Page - 1) * filter.Limit
	err := query.Order("al.created_at DESC").
		Limit(filter.Limit).
		Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*AuditLogResponse, error) {
	var log AuditLogResponse
	err := r.baseQuery(ctx).Where("al.id = ?", id).First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}
