// services/notify.go - Notification Sender
package services

import (
	"encoding/json"
	"log"
	"volunhub/models"

	"gorm.io/gorm"
)

// NotificationService records fire-and-forget engine events. Failures are
// logged and swallowed; they must never roll back or block a state transition.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Notify persists a notification for a user. Errors are swallowed.
func (s *NotificationService) Notify(userID uint, event string, payload map[string]interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("notify: failed to encode %s payload: %v", event, err)
		return
	}

	n := models.Notification{
		UserID:  userID,
		Event:   event,
		Payload: string(body),
	}
	if err := s.db.Create(&n).Error; err != nil {
		log.Printf("notify: failed to record %s for user %d: %v", event, userID, err)
	}
}

// Unread returns a user's unread notifications, newest first.
func (s *NotificationService) Unread(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.Where("user_id = ? AND read_at IS NULL", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// MarkRead marks all of a user's notifications as read.
func (s *NotificationService) MarkRead(userID uint) error {
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
