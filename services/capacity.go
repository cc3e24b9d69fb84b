// services/capacity.go - Capacity Ledger
package services

import (
	"volunhub/models"

	"gorm.io/gorm"
)

// CapacityService admits users into a task's assigned set without ever
// exceeding volunteers_required, safe under concurrent admission attempts.
type CapacityService struct {
	db *gorm.DB
}

func NewCapacityService(db *gorm.DB) *CapacityService {
	return &CapacityService{db: db}
}

// memberStatuses are the participation states that consume a capacity slot.
var memberStatuses = []models.ParticipationStatus{
	models.ParticipationAccepted,
	models.ParticipationCompleted,
}

// TryAdmit performs the admission as a single conditional UPDATE: the task
// must be open, have a free slot, and the user must not already hold one. The
// check and the increment happen in one statement against the store, so two
// concurrent admissions can never both pass the capacity check.
//
// On failure the task is re-fetched to classify the cause: ErrNotFound,
// ErrTaskNotOpen, ErrAlreadyMember or ErrTaskFull.
func (s *CapacityService) TryAdmit(tx *gorm.DB, taskID, userID uint) error {
	if tx == nil {
		tx = s.db
	}

	res := tx.Model(&models.Task{}).
		Where("id = ? AND status = ? AND assigned_count < volunteers_required", taskID, models.TaskStatusOpen).
		Where("NOT EXISTS (SELECT 1 FROM participations p WHERE p.task_id = ? AND p.user_id = ? AND p.status IN ?)",
			taskID, userID, memberStatuses).
		Update("assigned_count", gorm.Expr("assigned_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	return s.classifyFailure(tx, taskID, userID)
}

// classifyFailure re-fetches task state so the caller receives a distinct
// error kind for the losing side of an admission race.
func (s *CapacityService) classifyFailure(tx *gorm.DB, taskID, userID uint) error {
	var task models.Task
	if err := tx.First(&task, taskID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	if task.Status != models.TaskStatusOpen {
		return ErrTaskNotOpen
	}

	var members int64
	if err := tx.Model(&models.Participation{}).
		Where("task_id = ? AND user_id = ? AND status IN ?", taskID, userID, memberStatuses).
		Count(&members).Error; err != nil {
		return err
	}
	if members > 0 {
		return ErrAlreadyMember
	}

	return ErrTaskFull
}

// Release frees the capacity slot held by a user. Floored at zero so repeated
// releases are idempotent.
func (s *CapacityService) Release(tx *gorm.DB, taskID uint) error {
	if tx == nil {
		tx = s.db
	}

	return tx.Model(&models.Task{}).
		Where("id = ? AND assigned_count > 0", taskID).
		Update("assigned_count", gorm.Expr("assigned_count - 1")).Error
}

// Counts returns the current assigned/required numbers for a task.
func (s *CapacityService) Counts(taskID uint) (assigned, required int, err error) {
	var task models.Task
	if err := s.db.Select("assigned_count", "volunteers_required").First(&task, taskID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, 0, ErrNotFound
		}
		return 0, 0, err
	}
	return task.AssignedCount, task.VolunteersRequired, nil
}
