package services

import (
	"testing"
	"volunhub/models"
)

func userBadgeSlugs(t *testing.T, badges *BadgeService, userID uint) map[string]bool {
	t.Helper()

	earned, err := badges.UserBadges(userID)
	if err != nil {
		t.Fatalf("UserBadges failed: %v", err)
	}
	slugs := make(map[string]bool, len(earned))
	for _, ub := range earned {
		slugs[ub.Badge.Slug] = true
	}
	return slugs
}

func TestGrantSettlement(t *testing.T) {
	db := setupTestDB(t)
	_, _, badges, rewards := newEngine(db)
	seedMilestoneBadges(t, db)

	bound := createTestBadge(t, db, "beach-cleanup")
	user := createTestUser(t, db, "alice", 2500)
	task := createTestTask(t, db, models.TaskModeOffSite, 5, 200)
	task.BadgeID = &bound.ID
	db.Save(task)

	result, err := rewards.Grant(nil, user, task)
	if err != nil {
		t.Fatalf("Grant failed: %v", err)
	}

	if result.XPEarned != 200 {
		t.Errorf("XPEarned = %d, want 200", result.XPEarned)
	}
	if result.NewXP != 2700 {
		t.Errorf("NewXP = %d, want 2700", result.NewXP)
	}
	if result.NewLevel != 10 {
		t.Errorf("NewLevel = %d, want 10", result.NewLevel)
	}
	if !result.LeveledUp {
		t.Error("expected LeveledUp with 2500 -> 2700 XP")
	}

	slugs := userBadgeSlugs(t, badges, user.ID)
	for _, want := range []string{"beach-cleanup", models.BadgeXP1000, models.BadgeLevel5, models.BadgeLevel10, models.BadgeFirstTask} {
		if !slugs[want] {
			t.Errorf("badge %s not granted; have %v", want, slugs)
		}
	}
	if slugs[models.BadgeXP5000] {
		t.Error("xp-5000 granted at 2700 XP")
	}

	var stored models.User
	db.First(&stored, user.ID)
	if stored.XP != 2700 || stored.Level != 10 || stored.TasksCompleted != 1 {
		t.Errorf("stored user = xp %d level %d completed %d, want 2700/10/1",
			stored.XP, stored.Level, stored.TasksCompleted)
	}
}

func TestReverseRestoresSnapshot(t *testing.T) {
	db := setupTestDB(t)
	_, _, badges, rewards := newEngine(db)
	seedMilestoneBadges(t, db)

	bound := createTestBadge(t, db, "beach-cleanup")
	user := createTestUser(t, db, "alice", 900)
	task := createTestTask(t, db, models.TaskModeOffSite, 5, 150)
	task.BadgeID = &bound.ID
	db.Save(task)

	result, err := rewards.Grant(nil, user, task)
	if err != nil {
		t.Fatalf("Grant failed: %v", err)
	}

	// An unrelated badge earned outside this settlement must survive reversal.
	createTestBadge(t, db, "mentor")
	if _, err := badges.Grant(nil, user.ID, "mentor"); err != nil {
		t.Fatalf("unrelated grant failed: %v", err)
	}

	participation := &models.Participation{
		XPEarned:     result.XPEarned,
		BadgesEarned: models.SlugList(result.BadgesEarned),
	}
	if err := rewards.Reverse(nil, user, participation); err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}

	var stored models.User
	db.First(&stored, user.ID)
	if stored.XP != 900 {
		t.Errorf("XP after reversal = %d, want 900", stored.XP)
	}
	if stored.Level != LevelForXP(900) {
		t.Errorf("level after reversal = %d, want %d", stored.Level, LevelForXP(900))
	}
	if stored.TasksCompleted != 0 {
		t.Errorf("TasksCompleted after reversal = %d, want 0", stored.TasksCompleted)
	}

	slugs := userBadgeSlugs(t, badges, user.ID)
	if slugs["beach-cleanup"] {
		t.Error("task-bound badge survived reversal")
	}
	if slugs[models.BadgeXP1000] {
		t.Error("xp-1000 from this settlement survived reversal")
	}
	if !slugs["mentor"] {
		t.Error("unrelated badge was removed by reversal")
	}
}

func TestReverseFloorsXPAtZero(t *testing.T) {
	db := setupTestDB(t)
	_, _, _, rewards := newEngine(db)

	user := createTestUser(t, db, "alice", 50)
	participation := &models.Participation{XPEarned: 150}

	if err := rewards.Reverse(nil, user, participation); err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}

	var stored models.User
	db.First(&stored, user.ID)
	if stored.XP != 0 {
		t.Errorf("XP = %d, want floored at 0", stored.XP)
	}
	if stored.Level != 1 {
		t.Errorf("level = %d, want 1", stored.Level)
	}
}

func TestGrantWithoutBoundBadge(t *testing.T) {
	db := setupTestDB(t)
	_, _, badges, rewards := newEngine(db)
	seedMilestoneBadges(t, db)

	user := createTestUser(t, db, "alice", 0)
	task := createTestTask(t, db, models.TaskModeOffSite, 5, 50)

	result, err := rewards.Grant(nil, user, task)
	if err != nil {
		t.Fatalf("Grant failed: %v", err)
	}

	slugs := userBadgeSlugs(t, badges, user.ID)
	if !slugs[models.BadgeFirstTask] {
		t.Error("first-task milestone not granted")
	}
	for _, slug := range result.BadgesEarned {
		if !slugs[slug] {
			t.Errorf("snapshot lists %s but user does not hold it", slug)
		}
	}
}
