// services/badges.go - Badge Grant Service
package services

import (
	"time"
	"volunhub/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BadgeService idempotently attaches catalog badges to users. Grants are
// set-union inserts, so replays are harmless.
type BadgeService struct {
	db *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{db: db}
}

// Grant adds the badge with the given slug to the user's set. Returns whether
// it was newly added: false if already held or the slug is unknown. Always
// safe to call repeatedly.
func (s *BadgeService) Grant(tx *gorm.DB, userID uint, slug string) (bool, error) {
	if tx == nil {
		tx = s.db
	}

	var badge models.Badge
	if err := tx.Where("slug = ?", slug).First(&badge).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}

	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.UserBadge{
		UserID:   userID,
		BadgeID:  badge.ID,
		EarnedAt: time.Now(),
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Revoke removes the badge with the given slug from the user's set. Idempotent.
func (s *BadgeService) Revoke(tx *gorm.DB, userID uint, slug string) error {
	if tx == nil {
		tx = s.db
	}

	var badge models.Badge
	if err := tx.Where("slug = ?", slug).First(&badge).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	return tx.Where("user_id = ? AND badge_id = ?", userID, badge.ID).
		Delete(&models.UserBadge{}).Error
}

// milestone pairs a badge slug with the stat threshold that unlocks it.
type milestone struct {
	slug      string
	threshold int
}

var (
	levelMilestones = []milestone{
		{models.BadgeLevel5, 5},
		{models.BadgeLevel10, 10},
	}
	xpMilestones = []milestone{
		{models.BadgeXP1000, 1000},
		{models.BadgeXP5000, 5000},
		{models.BadgeXP10000, 10000},
	}
	connectionMilestones = []milestone{
		{models.BadgeConnections5, 5},
		{models.BadgeConnections20, 20},
	}
	taskMilestones = []milestone{
		{models.BadgeFirstTask, 1},
	}
)

// EvaluateMilestones is the single place milestone thresholds are checked.
// It grants every level/XP/connection milestone the user currently qualifies
// for and returns the slugs that were newly granted in this call.
func (s *BadgeService) EvaluateMilestones(tx *gorm.DB, user *models.User) ([]string, error) {
	if tx == nil {
		tx = s.db
	}

	level := LevelForXP(user.XP)

	var connections int64
	if err := tx.Model(&models.Connection{}).
		Where("user_id = ? OR peer_id = ?", user.ID, user.ID).
		Count(&connections).Error; err != nil {
		return nil, err
	}

	var granted []string
	check := func(stat int, milestones []milestone) error {
		for _, m := range milestones {
			if stat < m.threshold {
				continue
			}
			added, err := s.Grant(tx, user.ID, m.slug)
			if err != nil {
				return err
			}
			if added {
				granted = append(granted, m.slug)
			}
		}
		return nil
	}

	if err := check(level, levelMilestones); err != nil {
		return nil, err
	}
	if err := check(user.XP, xpMilestones); err != nil {
		return nil, err
	}
	if err := check(int(connections), connectionMilestones); err != nil {
		return nil, err
	}
	if err := check(user.TasksCompleted, taskMilestones); err != nil {
		return nil, err
	}

	return granted, nil
}

// UserBadges returns the user's badge set with catalog entries preloaded,
// newest first.
func (s *BadgeService) UserBadges(userID uint) ([]models.UserBadge, error) {
	var badges []models.UserBadge
	err := s.db.Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&badges).Error
	return badges, err
}
