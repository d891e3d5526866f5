package auth

import (
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	Create(user *User) error
	FindByEmail(email string) (*User, error)
	FindByID(userID uint) (User, error)
	Update(user *User) error
	CountAdmins() (int64, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(user *User) error {
	return r.db.Create(user).Error
}

// FindByEmail compares lowercased; emails are stored lowercased on write.
func (r *repository) FindByEmail(email string) (*User, error) {
	var u User
	err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	return &u, err
}

func (r *repository) FindByID(userID uint) (User, error) {
	var user User
	err := r.db.First(&user, userID).Error
	return user, err
}

func (r *repository) Update(user *User) error {
	return r.db.Save(user).Error
}

func (r *repository) CountAdmins() (int64, error) {
	var count int64
	err := r.db.Model(&User{}).Where("role = ?", RoleAdmin).Count(&count).Error
	return count, err
}
