// models/participation.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type ParticipationStatus string

const (
	ParticipationApplied   ParticipationStatus = "applied"
	ParticipationAccepted  ParticipationStatus = "accepted"
	ParticipationCompleted ParticipationStatus = "completed"
)

// SlugList stores an ordered list of badge slugs as a JSON text column.
type SlugList []string

func (l SlugList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *SlugList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for SlugList")
	}
}

// Participation is the one record per (task, user) pair. Withdrawal and admin
// removal delete the row; every other transition advances Status monotonically
// applied -> accepted -> completed.
type Participation struct {
	ID     uint  `json:"id" gorm:"primaryKey"`
	TaskID uint  `json:"task_id" gorm:"not null;index;uniqueIndex:idx_task_user"`
	Task   *Task `json:"task,omitempty" gorm:"foreignKey:TaskID"`
	UserID uint  `json:"user_id" gorm:"not null;index;uniqueIndex:idx_task_user"`
	User   *User `json:"user,omitempty" gorm:"foreignKey:UserID"`

	Mode   TaskMode            `json:"mode" gorm:"not null;size:20"`
	Status ParticipationStatus `json:"status" gorm:"not null;default:'applied';size:20;index"`

	// Reward snapshot recorded at completion time. Removal reverses exactly
	// these values, never a recomputation from the task's current reward.
	XPEarned     int      `json:"xp_earned" gorm:"default:0"`
	BadgesEarned SlugList `json:"badges_earned" gorm:"type:text"`

	Proof       string     `json:"proof,omitempty" gorm:"type:text"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Participation) TableName() string {
	return "participations"
}
