// models/proof.go
package models

import "time"

type ProofStatus string

const (
	ProofPending  ProofStatus = "pending"
	ProofApproved ProofStatus = "approved"
	ProofRejected ProofStatus = "rejected"
)

// ProofSubmission gates the accepted -> completed transition when a task
// requires evidence review. At most one pending submission exists per
// (task, user) pair; a rejected submission does not block resubmission.
type ProofSubmission struct {
	ID     uint  `json:"id" gorm:"primaryKey"`
	TaskID uint  `json:"task_id" gorm:"not null;index"`
	Task   *Task `json:"task,omitempty" gorm:"foreignKey:TaskID"`
	UserID uint  `json:"user_id" gorm:"not null;index"`
	User   *User `json:"user,omitempty" gorm:"foreignKey:UserID"`

	Proof  string      `json:"proof" gorm:"not null;type:text"`
	Status ProofStatus `json:"status" gorm:"not null;default:'pending';size:20;index"`

	ReviewerID      *uint      `json:"reviewer_id"`
	Reviewer        *User      `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	RejectionReason string     `json:"rejection_reason,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProofSubmission) TableName() string {
	return "proof_submissions"
}
