package notification

import "time"

// Notification is an in-app message produced from the moderation event
// stream. Recipient is the user who submitted the place.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	PlaceID   uint      `gorm:"index" json:"place_id"`
	Type      string    `gorm:"size:30;not null" json:"type"` // place_approved / place_rejected
	Title     string    `gorm:"not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
