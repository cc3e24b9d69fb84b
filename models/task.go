// models/task.go
package models

import "time"

type TaskMode string

const (
	TaskModeOnSite  TaskMode = "on-site"
	TaskModeOffSite TaskMode = "off-site"
)

type TaskStatus string

const (
	TaskStatusDraft  TaskStatus = "draft"
	TaskStatusOpen   TaskStatus = "open"
	TaskStatusClosed TaskStatus = "closed"
)

// Task is a volunteer task with finite capacity. AssignedCount is the size of
// the assigned set and is mutated only through the capacity ledger's
// conditional updates, so assigned_count <= volunteers_required holds at all
// times.
type Task struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null;size:200"`
	Description string     `json:"description" gorm:"type:text"`
	Mode        TaskMode   `json:"mode" gorm:"not null;size:20;index"`
	Status      TaskStatus `json:"status" gorm:"not null;default:'draft';size:20;index"`
	Location    string     `json:"location" gorm:"size:200"`

	LevelRequirement   int `json:"level_requirement" gorm:"not null;default:1"`
	VolunteersRequired int `json:"volunteers_required" gorm:"not null;default:1"`
	AssignedCount      int `json:"assigned_count" gorm:"not null;default:0"`

	XPReward int   `json:"xp_reward" gorm:"not null;default:1"`
	BadgeID  *uint `json:"badge_id" gorm:"index"`
	Badge    *Badge `json:"badge,omitempty" gorm:"foreignKey:BadgeID"`

	// Check-in code for on-site tasks, rendered as a QR payload by an
	// external collaborator. The engine only stores the string.
	CheckInCode string `json:"check_in_code,omitempty" gorm:"size:64"`

	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`

	CreatedBy uint      `json:"created_by" gorm:"not null;index"`
	Creator   *User     `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Participations []Participation `json:"participations,omitempty" gorm:"foreignKey:TaskID"`
}

func (Task) TableName() string {
	return "tasks"
}
