// services/reward.go - Reward Settlement
package services

import (
	"volunhub/models"

	"gorm.io/gorm"
)

// RewardService is the one place that mutates user XP/level/badges for task
// completion, and its exact inverse for removal.
type RewardService struct {
	db     *gorm.DB
	badges *BadgeService
}

func NewRewardService(db *gorm.DB, badges *BadgeService) *RewardService {
	return &RewardService{db: db, badges: badges}
}

// GrantResult is the settlement snapshot recorded on the participation record.
// Removal later reverses exactly these values.
type GrantResult struct {
	XPEarned     int      `json:"xp_earned"`
	BadgesEarned []string `json:"badges_earned"`
	NewXP        int      `json:"new_xp"`
	NewLevel     int      `json:"new_level"`
	LeveledUp    bool     `json:"leveled_up"`
}

// Grant settles a completion: adds the task's XP reward, recomputes the level
// from the table, grants the task-bound badge and any milestone badges, and
// returns the snapshot to record on the participation. Must run inside the
// completion transaction.
func (s *RewardService) Grant(tx *gorm.DB, user *models.User, task *models.Task) (*GrantResult, error) {
	if tx == nil {
		tx = s.db
	}

	oldLevel := LevelForXP(user.XP)
	user.XP += task.XPReward
	user.Level = LevelForXP(user.XP)
	user.TasksCompleted++

	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"xp":              user.XP,
		"level":           user.Level,
		"tasks_completed": user.TasksCompleted,
	}).Error; err != nil {
		return nil, err
	}

	earned := []string{}

	if task.BadgeID != nil {
		var bound models.Badge
		if err := tx.First(&bound, *task.BadgeID).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return nil, err
			}
		} else {
			added, err := s.badges.Grant(tx, user.ID, bound.Slug)
			if err != nil {
				return nil, err
			}
			if added {
				earned = append(earned, bound.Slug)
			}
		}
	}

	milestones, err := s.badges.EvaluateMilestones(tx, user)
	if err != nil {
		return nil, err
	}
	earned = append(earned, milestones...)

	return &GrantResult{
		XPEarned:     task.XPReward,
		BadgesEarned: earned,
		NewXP:        user.XP,
		NewLevel:     user.Level,
		LeveledUp:    user.Level > oldLevel,
	}, nil
}

// Reverse undoes a completed participation's settlement using the recorded
// snapshot. XP is floored at zero; only the badges recorded in badges_earned
// are removed, so milestone badges granted by other activities are untouched.
func (s *RewardService) Reverse(tx *gorm.DB, user *models.User, participation *models.Participation) error {
	if tx == nil {
		tx = s.db
	}

	user.XP -= participation.XPEarned
	if user.XP < 0 {
		user.XP = 0
	}
	user.Level = LevelForXP(user.XP)
	if user.TasksCompleted > 0 {
		user.TasksCompleted--
	}

	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"xp":              user.XP,
		"level":           user.Level,
		"tasks_completed": user.TasksCompleted,
	}).Error; err != nil {
		return err
	}

	for _, slug := range participation.BadgesEarned {
		if err := s.badges.Revoke(tx, user.ID, slug); err != nil {
			return err
		}
	}

	return nil
}
