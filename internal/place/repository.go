package place

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, p *Place) error
	FindByID(ctx context.Context, id uint) (*Place, error)
	FindBySlug(ctx context.Context, slug string) (*Place, error)
	Update(ctx context.Context, p *Place) error
	SetActive(ctx context.Context, id uint, active bool) error
	Delete(ctx context.Context, id uint) error

	SlugExists(ctx context.Context, slug string) (bool, error)
	DuplicateExists(ctx context.Context, name, city, state string, excludeID uint) (bool, error)

	// Store adapter surface consumed by the search orchestrator.
	Find(ctx context.Context, f Filter, limit, offset int) ([]Place, error)
	Count(ctx context.Context, f Filter) (int64, error)
	TextSearch(ctx context.Context, f Filter, query string, limit int) ([]Place, error)
	Distinct(ctx context.Context, column string) ([]string, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Place) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*Place, error) {
	var p Place
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("ApprovedBy").
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*Place, error) {
	var p Place
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Update(ctx context.Context, p *Place) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.db.WithContext(ctx).Model(&Place{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Place{}, id).Error
}

func (r *repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Place{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// DuplicateExists checks the active-record uniqueness of (name, city, state).
// The partial unique index remains the authoritative source; this pre-check
// just produces a friendlier error before the insert races.
func (r *repository) DuplicateExists(ctx context.Context, name, city, state string, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&Place{}).
		Where("lower(name) = ? AND lower(city) = ? AND lower(state) = ? AND is_active",
			strings.ToLower(strings.TrimSpace(name)),
			strings.ToLower(strings.TrimSpace(city)),
			strings.ToLower(strings.TrimSpace(state)))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// applyFilter translates a Filter into gorm conditions.
func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.ActiveOnly {
		q = q.Where("is_active")
	}
	if f.Status != "" {
		q = q.Where("approval_status = ?", f.Status)
	}
	if f.Region != "" {
		q = q.Where("region = ?", f.Region)
	}
	if f.Deity != "" {
		q = q.Where("deity ILIKE ?", "%"+f.Deity+"%")
	}
	if f.State != "" {
		q = q.Where("state ILIKE ?", "%"+f.State+"%")
	}
	if f.City != "" {
		q = q.Where("city ILIKE ?", "%"+f.City+"%")
	}
	if f.Architecture != "" {
		q = q.Where("architecture ILIKE ?", "%"+f.Architecture+"%")
	}
	if f.PopulateUsers {
		q = q.Preload("CreatedBy").Preload("ApprovedBy")
	}
	return q
}

func (r *repository) Find(ctx context.Context, f Filter, limit, offset int) ([]Place, error) {
	var places []Place
	q := applyFilter(r.db.WithContext(ctx), f).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	err := q.Find(&places).Error
	return places, err
}

func (r *repository) Count(ctx context.Context, f Filter) (int64, error) {
	var count int64
	err := applyFilter(r.db.WithContext(ctx).Model(&Place{}), f).Count(&count).Error
	return count, err
}

const tsVector = `to_tsvector('english', coalesce(name,'') || ' ' || coalesce(city,'') || ' ' || coalesce(state,''))`

// TextSearch runs the native full-text operator, ordered by relevance then
// recency. limit 0 means unbounded.
func (r *repository) TextSearch(ctx context.Context, f Filter, query string, limit int) ([]Place, error) {
	var places []Place
	q := applyFilter(r.db.WithContext(ctx), f).
		Select("places.*, ts_rank("+tsVector+", plainto_tsquery('english', ?)) AS text_rank", query).
		Where(tsVector+" @@ plainto_tsquery('english', ?)", query).
		Order("text_rank DESC, created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&places).Error
	return places, err
}

// Distinct returns the non-empty distinct values of a tag column over
// approved active records. column is caller-controlled code, never input.
func (r *repository) Distinct(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).Model(&Place{}).
		Where("is_active AND approval_status = ?", StatusApproved).
		Where(column + " <> ''").
		Distinct().
		Order(column).
		Pluck(column, &values).Error
	return values, err
}
