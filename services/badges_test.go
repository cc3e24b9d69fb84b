package services

import (
	"testing"
	"volunhub/models"
)

func TestGrantIdempotent(t *testing.T) {
	db := setupTestDB(t)
	badges := NewBadgeService(db)

	user := createTestUser(t, db, "alice", 0)
	createTestBadge(t, db, "helper")

	added, err := badges.Grant(db, user.ID, "helper")
	if err != nil {
		t.Fatalf("Grant failed: %v", err)
	}
	if !added {
		t.Error("first grant should report newly added")
	}

	added, err = badges.Grant(db, user.ID, "helper")
	if err != nil {
		t.Fatalf("second Grant failed: %v", err)
	}
	if added {
		t.Error("second grant should be a no-op")
	}

	var count int64
	db.Model(&models.UserBadge{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("badge rows = %d, want exactly 1", count)
	}
}

func TestGrantUnknownSlug(t *testing.T) {
	db := setupTestDB(t)
	badges := NewBadgeService(db)

	user := createTestUser(t, db, "alice", 0)

	added, err := badges.Grant(db, user.ID, "no-such-badge")
	if err != nil {
		t.Fatalf("Grant failed: %v", err)
	}
	if added {
		t.Error("unknown slug should not be granted")
	}
}

func TestRevokeIdempotent(t *testing.T) {
	db := setupTestDB(t)
	badges := NewBadgeService(db)

	user := createTestUser(t, db, "alice", 0)
	createTestBadge(t, db, "helper")

	if _, err := badges.Grant(db, user.ID, "helper"); err != nil {
		t.Fatalf("Grant failed: %v", err)
	}

	if err := badges.Revoke(db, user.ID, "helper"); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if err := badges.Revoke(db, user.ID, "helper"); err != nil {
		t.Fatalf("second Revoke failed: %v", err)
	}
	if err := badges.Revoke(db, user.ID, "no-such-badge"); err != nil {
		t.Fatalf("Revoke of unknown slug failed: %v", err)
	}

	var count int64
	db.Model(&models.UserBadge{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("badge rows = %d, want 0", count)
	}
}

func TestEvaluateMilestones(t *testing.T) {
	db := setupTestDB(t)
	badges := NewBadgeService(db)
	seedMilestoneBadges(t, db)

	user := createTestUser(t, db, "alice", 1200)

	granted, err := badges.EvaluateMilestones(db, user)
	if err != nil {
		t.Fatalf("EvaluateMilestones failed: %v", err)
	}

	want := map[string]bool{models.BadgeXP1000: true, models.BadgeLevel5: true}
	if len(granted) != len(want) {
		t.Fatalf("granted = %v, want exactly %v", granted, want)
	}
	for _, slug := range granted {
		if !want[slug] {
			t.Errorf("unexpected milestone %s", slug)
		}
	}

	// Re-evaluation grants nothing new.
	granted, err = badges.EvaluateMilestones(db, user)
	if err != nil {
		t.Fatalf("second EvaluateMilestones failed: %v", err)
	}
	if len(granted) != 0 {
		t.Errorf("re-evaluation granted %v, want none", granted)
	}
}

func TestEvaluateConnectionMilestones(t *testing.T) {
	db := setupTestDB(t)
	badges := NewBadgeService(db)
	seedMilestoneBadges(t, db)

	alice := createTestUser(t, db, "alice", 0)
	for i := 0; i < 5; i++ {
		peer := createTestUser(t, db, "peer"+string(rune('a'+i)), 0)
		db.Create(&models.Connection{UserID: alice.ID, PeerID: peer.ID})
	}

	granted, err := badges.EvaluateMilestones(db, alice)
	if err != nil {
		t.Fatalf("EvaluateMilestones failed: %v", err)
	}

	found := false
	for _, slug := range granted {
		if slug == models.BadgeConnections5 {
			found = true
		}
		if slug == models.BadgeConnections20 {
			t.Error("connections-20 granted with only 5 connections")
		}
	}
	if !found {
		t.Errorf("granted = %v, want connections-5 included", granted)
	}
}
