// models/badge.go
package models

import "time"

// Canonical slugs for milestone badges, granted automatically when a stat
// crosses its threshold.
const (
	BadgeLevel5         = "level-5"
	BadgeLevel10        = "level-10"
	BadgeXP1000         = "xp-1000"
	BadgeXP5000         = "xp-5000"
	BadgeXP10000        = "xp-10000"
	BadgeConnections5   = "connections-5"
	BadgeConnections20  = "connections-20"
	BadgeFirstTask      = "first-task"
)

type Badge struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Slug        string `gorm:"not null;uniqueIndex;size:100" json:"slug"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"not null" json:"description"`
	Icon        string `json:"icon"`

	// TaskBound marks badges created alongside a task and granted only on
	// that task's completion.
	TaskBound bool `gorm:"default:false" json:"task_bound"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Badge) TableName() string {
	return "badges"
}

type UserBadge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_badge" json:"user_id"`
	BadgeID   uint      `gorm:"not null;index;uniqueIndex:idx_user_badge" json:"badge_id"`
	EarnedAt  time.Time `json:"earned_at"`

	User  *User  `gorm:"foreignKey:UserID" json:"-"`
	Badge *Badge `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
