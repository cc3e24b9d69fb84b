// services/participation.go - Participation State Machine
package services

import (
	"time"
	"volunhub/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ParticipationService owns the lifecycle of one (user, task) pairing:
// applied -> accepted -> completed, with withdrawal from applied and
// admin removal (rewards reversed) from any state. Every transition is keyed
// by the pair and safe to retry: capacity admission is the only exclusive
// step, everything else is an upsert or conditional update.
type ParticipationService struct {
	db       *gorm.DB
	capacity *CapacityService
	rewards  *RewardService
	notify   *NotificationService
}

func NewParticipationService(db *gorm.DB, capacity *CapacityService, rewards *RewardService, notify *NotificationService) *ParticipationService {
	return &ParticipationService{db: db, capacity: capacity, rewards: rewards, notify: notify}
}

// JoinResult reports the outcome of apply/claim/accept.
type JoinResult struct {
	Status   models.ParticipationStatus `json:"status"`
	Assigned int                        `json:"assigned"`
	Required int                        `json:"required"`
}

func (s *ParticipationService) task(tx *gorm.DB, taskID uint) (*models.Task, error) {
	var task models.Task
	if err := tx.First(&task, taskID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (s *ParticipationService) user(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *ParticipationService) participation(tx *gorm.DB, taskID, userID uint) (*models.Participation, error) {
	var p models.Participation
	err := tx.Where("task_id = ? AND user_id = ?", taskID, userID).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// checkLevel recomputes the user's level from XP; the stored level column is
// never trusted as authoritative input.
func checkLevel(user *models.User, task *models.Task) error {
	if LevelForXP(user.XP) < task.LevelRequirement {
		return ErrLevelTooLow
	}
	return nil
}

// upsert writes the participation record for the pair, advancing status on
// conflict. Idempotent against duplicate delivery of the same transition.
func (s *ParticipationService) upsert(tx *gorm.DB, taskID, userID uint, mode models.TaskMode, status models.ParticipationStatus) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "task_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}),
	}).Create(&models.Participation{
		TaskID: taskID,
		UserID: userID,
		Mode:   mode,
		Status: status,
	}).Error
}

// Apply creates an applied record for an off-site task. Capacity is consumed
// at accept time, not here. Re-applying after a withdrawal recreates the
// record; applying while a record exists is a no-op success.
func (s *ParticipationService) Apply(taskID, userID uint) (*JoinResult, error) {
	task, err := s.task(s.db, taskID)
	if err != nil {
		return nil, err
	}
	if task.Mode != models.TaskModeOffSite {
		return nil, ErrWrongMode
	}
	if task.Status != models.TaskStatusOpen {
		return nil, ErrTaskNotOpen
	}

	user, err := s.user(s.db, userID)
	if err != nil {
		return nil, err
	}
	if err := checkLevel(user, task); err != nil {
		return nil, err
	}

	existing, err := s.participation(s.db, taskID, userID)
	if err != nil {
		return nil, err
	}
	status := models.ParticipationApplied
	if existing == nil {
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Participation{
			TaskID: taskID,
			UserID: userID,
			Mode:   task.Mode,
			Status: models.ParticipationApplied,
		}).Error; err != nil {
			return nil, err
		}
	} else {
		status = existing.Status
	}

	return &JoinResult{Status: status, Assigned: task.AssignedCount, Required: task.VolunteersRequired}, nil
}

// Claim admits a user into an on-site task immediately: atomic capacity admit
// followed by an accepted participation record.
func (s *ParticipationService) Claim(taskID, userID uint) (*JoinResult, error) {
	task, err := s.task(s.db, taskID)
	if err != nil {
		return nil, err
	}
	if task.Mode != models.TaskModeOnSite {
		return nil, ErrWrongMode
	}

	user, err := s.user(s.db, userID)
	if err != nil {
		return nil, err
	}
	if err := checkLevel(user, task); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.capacity.TryAdmit(tx, taskID, userID); err != nil {
			return err
		}
		return s.upsert(tx, taskID, userID, task.Mode, models.ParticipationAccepted)
	})
	if err != nil {
		return nil, err
	}

	s.notify.Notify(userID, "task.claimed", map[string]interface{}{"task_id": taskID})

	assigned, required, err := s.capacity.Counts(taskID)
	if err != nil {
		return nil, err
	}
	return &JoinResult{Status: models.ParticipationAccepted, Assigned: assigned, Required: required}, nil
}

// Accept promotes an applied off-site participation to accepted through the
// capacity ledger. Admin may also accept a user with no prior application.
// Accepting an already-accepted participation is a no-op success; accepting a
// completed one is a conflict (completed participations are never downgraded).
func (s *ParticipationService) Accept(taskID, userID uint) (*JoinResult, error) {
	task, err := s.task(s.db, taskID)
	if err != nil {
		return nil, err
	}
	if task.Mode != models.TaskModeOffSite {
		return nil, ErrWrongMode
	}

	existing, err := s.participation(s.db, taskID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.ParticipationCompleted:
			return nil, ErrAlreadyCompleted
		case models.ParticipationAccepted:
			assigned, required, err := s.capacity.Counts(taskID)
			if err != nil {
				return nil, err
			}
			return &JoinResult{Status: models.ParticipationAccepted, Assigned: assigned, Required: required}, nil
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.capacity.TryAdmit(tx, taskID, userID); err != nil {
			return err
		}
		return s.upsert(tx, taskID, userID, task.Mode, models.ParticipationAccepted)
	})
	if err != nil {
		return nil, err
	}

	s.notify.Notify(userID, "task.accepted", map[string]interface{}{"task_id": taskID})

	assigned, required, err := s.capacity.Counts(taskID)
	if err != nil {
		return nil, err
	}
	return &JoinResult{Status: models.ParticipationAccepted, Assigned: assigned, Required: required}, nil
}

// Withdraw deletes an applied off-site participation. No capacity effect,
// since applied records have not consumed a slot.
func (s *ParticipationService) Withdraw(taskID, userID uint) error {
	p, err := s.participation(s.db, taskID, userID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNotFound
	}
	if p.Mode != models.TaskModeOffSite {
		return ErrWrongMode
	}
	if p.Status != models.ParticipationApplied {
		return ErrNotApplied
	}

	return s.db.Delete(&models.Participation{}, p.ID).Error
}

// Complete settles rewards for an accepted participation and flips it to
// completed. Completing an already-completed participation is a no-op success
// returning the recorded snapshot. The status flip is a conditional update, so
// the settlement runs at most once per completion.
func (s *ParticipationService) Complete(taskID, userID uint) (*GrantResult, error) {
	var result *GrantResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		p, err := s.participation(tx, taskID, userID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrNotFound
		}

		now := time.Now()
		res := tx.Model(&models.Participation{}).
			Where("id = ? AND status = ?", p.ID, models.ParticipationAccepted).
			Updates(map[string]interface{}{
				"status":       models.ParticipationCompleted,
				"completed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if p.Status == models.ParticipationCompleted {
				user, err := s.user(tx, userID)
				if err != nil {
					return err
				}
				result = &GrantResult{
					XPEarned:     p.XPEarned,
					BadgesEarned: p.BadgesEarned,
					NewXP:        user.XP,
					NewLevel:     user.Level,
				}
				return nil
			}
			return ErrNotAccepted
		}

		task, err := s.task(tx, taskID)
		if err != nil {
			return err
		}
		user, err := s.user(tx, userID)
		if err != nil {
			return err
		}

		result, err = s.rewards.Grant(tx, user, task)
		if err != nil {
			return err
		}

		return tx.Model(&models.Participation{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"xp_earned":     result.XPEarned,
			"badges_earned": models.SlugList(result.BadgesEarned),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify.Notify(userID, "task.completed", map[string]interface{}{
		"task_id":   taskID,
		"xp_earned": result.XPEarned,
		"new_level": result.NewLevel,
	})

	return result, nil
}

// Remove deletes a participation in any state. Completed participations have
// their recorded reward snapshot reversed first; accepted or completed ones
// release their capacity slot.
func (s *ParticipationService) Remove(taskID, userID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		p, err := s.participation(tx, taskID, userID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrNotFound
		}

		if p.Status == models.ParticipationCompleted {
			user, err := s.user(tx, userID)
			if err != nil {
				return err
			}
			if err := s.rewards.Reverse(tx, user, p); err != nil {
				return err
			}
		}

		if p.Status == models.ParticipationAccepted || p.Status == models.ParticipationCompleted {
			if err := s.capacity.Release(tx, taskID); err != nil {
				return err
			}
		}

		return tx.Delete(&models.Participation{}, p.ID).Error
	})
	if err != nil {
		return err
	}

	s.notify.Notify(userID, "task.removed", map[string]interface{}{"task_id": taskID})
	return nil
}

// ForTask lists participations for a task with users preloaded.
func (s *ParticipationService) ForTask(taskID uint) ([]models.Participation, error) {
	var participations []models.Participation
	err := s.db.Preload("User").
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&participations).Error
	return participations, err
}

// ForUser lists a user's participations with tasks preloaded.
func (s *ParticipationService) ForUser(userID uint) ([]models.Participation, error) {
	var participations []models.Participation
	err := s.db.Preload("Task").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&participations).Error
	return participations, err
}
