package auth

import (
	"time"
)

// Roles are a fixed set; there is no role table. Admin manages users,
// Evaluator moderates submissions, Support Admin curates content.
const (
	RoleAdmin        = "Admin"
	RoleEvaluator    = "Evaluator"
	RoleSupportAdmin = "Support Admin"
)

// ValidRoles lists every assignable role.
var ValidRoles = []string{RoleAdmin, RoleEvaluator, RoleSupportAdmin}

func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents the users table. PasswordHash never serializes.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:30;not null;index" json:"role"`
	Mobile       string    `json:"mobile,omitempty"`
	Address      string    `gorm:"size:500" json:"address,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
