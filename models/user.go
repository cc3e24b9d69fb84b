// models/user.go
package models

import (
	"time"
)

type Role string

const (
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// Approval states for volunteer accounts. A volunteer may not join or apply
// to tasks until an admin has approved the account.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

type User struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Username    string  `gorm:"uniqueIndex;not null" json:"username"`
	Email       *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password    string  `gorm:"not null" json:"-"`
	DisplayName string  `json:"display_name"`
	Avatar      string  `json:"avatar"`
	Bio         string  `json:"bio"`

	Role           Role   `gorm:"not null;default:'volunteer'" json:"role"`
	ApprovalStatus string `gorm:"not null;default:'pending';index" json:"approval_status"`

	// Public volunteer number, assigned from the named counter at registration.
	VolunteerNo int `gorm:"uniqueIndex" json:"volunteer_no"`

	// Progression. Level is derived from XP and recomputed on every XP
	// change; it is stored for listing/leaderboard queries only.
	Level int `gorm:"default:1" json:"level"`
	XP    int `gorm:"default:0" json:"xp"`

	// Stats
	TasksCompleted int `gorm:"default:0" json:"tasks_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`

	// Relationships
	Badges         []UserBadge     `gorm:"foreignKey:UserID" json:"badges,omitempty"`
	Participations []Participation `gorm:"foreignKey:UserID" json:"participations,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// Connection links two volunteers (network building, feeds the connection
// milestone badges).
type Connection struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_connection_pair"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	PeerID    uint      `json:"peer_id" gorm:"not null;index;uniqueIndex:idx_connection_pair"`
	Peer      *User     `json:"peer,omitempty" gorm:"foreignKey:PeerID"`
	CreatedAt time.Time `json:"created_at"`
}

func (Connection) TableName() string {
	return "connections"
}
