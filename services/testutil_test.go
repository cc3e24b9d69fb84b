package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"
	"volunhub/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testDBSeq   int64
	testUserSeq int64
)

// setupTestDB opens a fresh in-memory database per test. sqlite allows a
// single writer, so the pool is capped at one connection; the conditional
// updates under test still execute as single atomic statements.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:test%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Connection{},
		&models.Task{},
		&models.Participation{},
		&models.ProofSubmission{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Counter{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, xp int) *models.User {
	t.Helper()

	user := models.User{
		Username:       username,
		Password:       "hashed",
		DisplayName:    username,
		Role:           models.RoleVolunteer,
		ApprovalStatus: models.ApprovalApproved,
		VolunteerNo:    int(atomic.AddInt64(&testUserSeq, 1)),
		XP:             xp,
		Level:          LevelForXP(xp),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return &user
}

func createTestTask(t *testing.T, db *gorm.DB, mode models.TaskMode, required, xpReward int) *models.Task {
	t.Helper()

	task := models.Task{
		Title:              "Test Task",
		Mode:               mode,
		Status:             models.TaskStatusOpen,
		LevelRequirement:   1,
		VolunteersRequired: required,
		XPReward:           xpReward,
		CreatedBy:          1,
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return &task
}

func createTestBadge(t *testing.T, db *gorm.DB, slug string) *models.Badge {
	t.Helper()

	badge := models.Badge{
		Slug:        slug,
		Name:        slug,
		Description: slug,
	}
	if err := db.Create(&badge).Error; err != nil {
		t.Fatalf("failed to create badge %s: %v", slug, err)
	}
	return &badge
}

// seedMilestoneBadges inserts the milestone catalog used by settlements.
func seedMilestoneBadges(t *testing.T, db *gorm.DB) {
	t.Helper()

	slugs := []string{
		models.BadgeLevel5, models.BadgeLevel10,
		models.BadgeXP1000, models.BadgeXP5000, models.BadgeXP10000,
		models.BadgeConnections5, models.BadgeConnections20,
		models.BadgeFirstTask,
	}
	for _, slug := range slugs {
		createTestBadge(t, db, slug)
	}
}

// newEngine wires the full service stack against a test database.
func newEngine(db *gorm.DB) (*ParticipationService, *ProofService, *BadgeService, *RewardService) {
	capacity := NewCapacityService(db)
	badges := NewBadgeService(db)
	rewards := NewRewardService(db, badges)
	notify := NewNotificationService(db)
	participations := NewParticipationService(db, capacity, rewards, notify)
	proofs := NewProofService(db, participations, notify)
	return participations, proofs, badges, rewards
}

func advanceParticipation(t *testing.T, participations *ParticipationService, taskID, userID uint) {
	t.Helper()
	if _, err := participations.Accept(taskID, userID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
}

func timePtr(tm time.Time) *time.Time {
	return &tm
}
