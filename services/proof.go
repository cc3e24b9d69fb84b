// services/proof.go - Proof Submission Workflow
package services

import (
	"strings"
	"time"
	"volunhub/models"

	"gorm.io/gorm"
)

// ProofService is the approval sub-flow gating accepted -> completed when
// completion requires evidence review.
type ProofService struct {
	db             *gorm.DB
	participations *ParticipationService
	notify         *NotificationService
}

func NewProofService(db *gorm.DB, participations *ParticipationService, notify *NotificationService) *ProofService {
	return &ProofService{db: db, participations: participations, notify: notify}
}

// Submit creates a pending proof submission for an accepted participation.
// The proof text is stored on the participation for visibility, but the
// participation status does not change until approval. At most one pending
// submission may exist per (task, user); a rejected one does not block
// resubmission.
func (s *ProofService) Submit(taskID, userID uint, proof string) (*models.ProofSubmission, error) {
	if strings.TrimSpace(proof) == "" {
		return nil, ErrEmptyProof
	}

	p, err := s.participations.participation(s.db, taskID, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if p.Status != models.ParticipationAccepted {
		return nil, ErrNotAccepted
	}

	var pending int64
	if err := s.db.Model(&models.ProofSubmission{}).
		Where("task_id = ? AND user_id = ? AND status = ?", taskID, userID, models.ProofPending).
		Count(&pending).Error; err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, ErrPendingProof
	}

	submission := models.ProofSubmission{
		TaskID: taskID,
		UserID: userID,
		Proof:  proof,
		Status: models.ProofPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}
		return tx.Model(&models.Participation{}).Where("id = ?", p.ID).
			Update("proof", proof).Error
	})
	if err != nil {
		return nil, err
	}

	return &submission, nil
}

// Approve marks a pending submission approved and drives the underlying
// participation to completed through reward settlement. Re-approving a
// reviewed submission is a conflict.
func (s *ProofService) Approve(submissionID, reviewerID uint) (*GrantResult, error) {
	submission, err := s.byID(submissionID)
	if err != nil {
		return nil, err
	}
	if submission.Status != models.ProofPending {
		return nil, ErrProofReviewed
	}

	result, err := s.participations.Complete(submission.TaskID, submission.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.db.Model(&models.ProofSubmission{}).
		Where("id = ? AND status = ?", submissionID, models.ProofPending).
		Updates(map[string]interface{}{
			"status":      models.ProofApproved,
			"reviewer_id": reviewerID,
			"reviewed_at": now,
		}).Error; err != nil {
		return nil, err
	}

	s.notify.Notify(submission.UserID, "proof.approved", map[string]interface{}{
		"task_id":       submission.TaskID,
		"submission_id": submissionID,
	})

	return result, nil
}

// Reject marks a pending submission rejected with a non-empty reason. The
// participation stays accepted and the participant may submit a new proof.
func (s *ProofService) Reject(submissionID, reviewerID uint, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrEmptyReason
	}

	submission, err := s.byID(submissionID)
	if err != nil {
		return err
	}
	if submission.Status != models.ProofPending {
		return ErrProofReviewed
	}

	now := time.Now()
	if err := s.db.Model(&models.ProofSubmission{}).
		Where("id = ? AND status = ?", submissionID, models.ProofPending).
		Updates(map[string]interface{}{
			"status":           models.ProofRejected,
			"reviewer_id":      reviewerID,
			"reviewed_at":      now,
			"rejection_reason": reason,
		}).Error; err != nil {
		return err
	}

	s.notify.Notify(submission.UserID, "proof.rejected", map[string]interface{}{
		"task_id":       submission.TaskID,
		"submission_id": submissionID,
		"reason":        reason,
	})

	return nil
}

func (s *ProofService) byID(submissionID uint) (*models.ProofSubmission, error) {
	var submission models.ProofSubmission
	if err := s.db.First(&submission, submissionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// Pending lists pending submissions for admin review, oldest first.
func (s *ProofService) Pending() ([]models.ProofSubmission, error) {
	var submissions []models.ProofSubmission
	err := s.db.Preload("Task").Preload("User").
		Where("status = ?", models.ProofPending).
		Order("created_at ASC").
		Find(&submissions).Error
	return submissions, err
}
