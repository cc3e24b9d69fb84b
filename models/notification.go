// models/notification.go
package models

import "time"

// Notification is a fire-and-forget record of an engine event. Delivery to
// email/chat is handled by external collaborators; a failed insert is logged
// and swallowed, never surfaced as a transition failure.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Event     string    `json:"event" gorm:"not null;size:100"`
	Payload   string    `json:"payload" gorm:"type:text"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
