package services

import (
	"errors"
	"testing"
	"volunhub/models"
)

func TestApplyWithdrawReapply(t *testing.T) {
	db := setupTestDB(t)
	participations, _, _, _ := newEngine(db)

	user := createTestUser(t, db, "alice", 0)
	task := createTestTask(t, db, models.TaskModeOffSite, 3, 100)

	result, err := participations.Apply(task.ID, user.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if result.Status != models.ParticipationApplied {
		t.Errorf("status = %s, want applied", result.Status)
	}
	if result.Assigned != 0 {
		t.Errorf("assigned = %d, applying must not consume capacity", result.Assigned)
	}

	// Re-applying is a no-op success.
	result, err = participations.Apply(task.ID, user.ID)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if result.Status != models.ParticipationApplied {
		t.Errorf("status on re-apply = %s, want applied", result.Status)
	}

	if err := participations.Withdraw(task.ID, user.ID); err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if err := participations.Withdraw(task.ID, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("withdraw after withdraw = %v, want ErrNotFound", err)
	}

	if _, err := participations.Apply(task.ID, user.ID); err != nil {
		t.Fatalf("re-apply after withdraw failed: %v", err)
	}
}

func TestApplyGuards(t *testing.T) {
	db := setupTestDB(t)
	participations, _, _, _ := newEngine(db)

	user := createTestUser(t, db, "alice", 0)

	t.Run("missing task", func(t *testing.T) {
		if _, err := participations.Apply(9999, user.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("on-site task", func(t *testing.T) {
		task := createTestTask(t, db, models.TaskModeOnSite, 3, 100)
		if _, err := participations.Apply(task.ID, user.ID); !errors.Is(err, ErrWrongMode) {
			t.Errorf("err = %v, want ErrWrongMode", err)
		}
	})

	t.Run("closed task", func(t *testing.T) {
		task := createTestTask(t, db, models.TaskModeOffSite, 3, 100)
		db.Model(task).Update("status", models.TaskStatusClosed)
		if _, err := participations.Apply(task.ID, user.ID); !errors.Is(err, ErrTaskNotOpen) {
			t.Errorf("err = %v, want ErrTaskNotOpen", err)
		}
	})

	t.Run("level requirement", func(t *testing.T) {
		task := createTestTask(t, db, models.TaskModeOffSite, 3, 100)
		db.Model(task).Update("level_requirement", 3)
		if _, err := participations.Apply(task.ID, user.ID); !errors.Is(err, ErrLevelTooLow) {
			t.Errorf("err = %v, want ErrLevelTooLow", err)
		}

		// Stored level is ignored; only XP-derived level counts.
		db.Model(&models.User{}).Where("id = ?", user.ID).Update("level", 9)
		if _, err := participations.Apply(task.ID, user.ID); !errors.Is(err, ErrLevelTooLow) {
			t.Errorf("err with inflated stored level = %v, want ErrLevelTooLow", err)
		}
	})
}

func TestClaimCapacityOne(t *testing.T) {
	db := setupTestDB(t)
	participations, _, _, _ := newEngine(db)

	alice := createTestUser(t, db, "alice", 0)
	bob := createTestUser(t, db, "bob", 0)
	task := createTestTask(t, db, models.TaskModeOnSite, 1, 100)

	result, err := participations.Claim(task.ID, alice.ID)
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if result.Status != models.ParticipationAccepted || result.Assigned != 1 {
		t.Errorf("first claim = %s %d/%d, want accepted 1/1", result.Status, result.Assigned, result.Required)
	}

	if _, err := participations.Claim(task.ID, bob.ID); !errors.Is(err, ErrTaskFull) {
		t.Errorf("second claim = %v, want ErrTaskFull", err)
	}

	var count int64
	db.Model(&models.Participation{}).Where("task_id = ?", task.ID).Count(&count)
	if count != 1 {
		t.Errorf("participation rows = %d, want 1", count)
	}
}

func TestAcceptPromotesApplication(t *testing.T) {
	db := setupTestDB(t)
	participations, _, _, _ := newEngine(db)

	user := createTestUser(t, db, "alice", 0)
	task := createTestTask(t, db, models.TaskModeOffSite, 2, 100)

	if _, err := participations.Apply(task.ID, user.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	result, err := participations.Accept(task.ID, user.ID)
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if result.Status != models.ParticipationAccepted || result.Assigned != 1 {
		t.Errorf("accept = %s %d/%d, want accepted 1/2", result.Status, result.Assigned, result.Required)
	}

	// Replayed accept is a no-op success and does not consume a second slot.
	result, err = participations.Accept(task.ID, user.ID)
	if err != nil {
		t.Fatalf("replayed Accept failed: %v", err)
	}
	if result.Assigned != 1 {
		t.Errorf("assigned after replay = %d, want 1", result.Assigned)
	}

	// Withdrawal is only valid from applied.
	if err := participations.Withdraw(task.ID, user.ID); !errors.Is(err, ErrNotApplied) {
		t.Errorf("withdraw after accept = %v, want ErrNotApplied", err)
	}
}

func TestAcceptWithoutApplication(t *testing.T) {
	db := setupTestDB(t)
	participations, _, _, _ := newEngine(db)

	user := createTestUser(t, db, "alice", 0)
	task := createTestTask(t, db, models.TaskModeOffSite, 2, 100)

	result, err := participations.Accept(task.ID, user.ID)
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if result.Status != models.ParticipationAccepted {
		t.Errorf("status = %s, want accepted", result.Status)
	}
}

func TestCompleteIdempotent(t *testing.T) {
	db := setupTestDB(t)
	participations, _, _, _ := newEngine(db)
	seedMilestoneBadges(t, db)

	user := createTestUser(t, db, "alice", 0)
	task := createTestTask(t, db, models.TaskModeOffSite, 2, 100)
	advanceParticipation(t, participations, task.ID, user.ID)

	first, err := participations.Complete(task.ID, user.ID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if first.XPEarned != 100 {
		t.Errorf("XPEarned = %d, want 100", first.XPEarned)
	}

	second, err := participations.Complete(task.ID, user.ID)
	if err != nil {
		t.Fatalf("replayed Complete failed: %v", err)
	}
	if second.XPEarned != first.XPEarned || second.NewXP != first.NewXP {
		t.Errorf("replay = %+v, want recorded snapshot %+v", second, first)
	}

	var stored models.User
	db.First(&stored, user.ID)
	if stored.XP != 100 {
		t.Errorf("XP = %d after double completion, want 100", stored.XP)
	}
	if stored.TasksCompleted != 1 {
		t.Errorf("TasksCompleted = %d, want 1", stored.TasksCompleted)
	}

	// Accepting a completed participation is a conflict, never a downgrade.
	if _, err := participations.Accept(task.ID, user.ID); !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("accept after completion = %v, want ErrAlreadyCompleted", err)
	}
}

func TestCompleteRequiresAccepted(t *testing.T) {
	db := setupTestDB(t)
	participations, _, _, _ := newEngine(db)

	user := createTestUser(t, db, "alice", 0)
	task := createTestTask(t, db, models.TaskModeOffSite, 2, 100)

	if _, err := participations.Complete(task.ID, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("complete without participation = %v, want ErrNotFound", err)
	}

	if _, err := participations.Apply(task.ID, user.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := participations.Complete(task.ID, user.ID); !errors.Is(err, ErrNotAccepted) {
		t.Errorf("complete from applied = %v, want ErrNotAccepted", err)
	}
}

func TestRemoveReversesCompletion(t *testing.T) {
	db := setupTestDB(t)
	participations, _, badges, _ := newEngine(db)
	seedMilestoneBadges(t, db)

	bound := createTestBadge(t, db, "beach-cleanup")
	user := createTestUser(t, db, "alice", 0)
	task := createTestTask(t, db, models.TaskModeOffSite, 2, 150)
	task.BadgeID = &bound.ID
	db.Save(task)

	advanceParticipation(t, participations, task.ID, user.ID)
	if _, err := participations.Complete(task.ID, user.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if err := participations.Remove(task.ID, user.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	var stored models.User
	db.First(&stored, user.ID)
	if stored.XP != 0 {
		t.Errorf("XP after removal = %d, want 0", stored.XP)
	}
	if stored.TasksCompleted != 0 {
		t.Errorf("TasksCompleted after removal = %d, want 0", stored.TasksCompleted)
	}

	slugs := userBadgeSlugs(t, badges, user.ID)
	if slugs["beach-cleanup"] {
		t.Error("task-bound badge survived removal")
	}

	assigned, _, err := participations.capacity.Counts(task.ID)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if assigned != 0 {
		t.Errorf("assigned after removal = %d, want 0", assigned)
	}

	if p, _ := participations.participation(db, task.ID, user.ID); p != nil {
		t.Error("participation row still present after removal")
	}
}

func TestRemoveThenRecompleteGrantsAgain(t *testing.T) {
	db := setupTestDB(t)
	participations, _, _, _ := newEngine(db)
	seedMilestoneBadges(t, db)

	user := createTestUser(t, db, "alice", 0)
	task := createTestTask(t, db, models.TaskModeOffSite, 2, 100)

	advanceParticipation(t, participations, task.ID, user.ID)
	if _, err := participations.Complete(task.ID, user.ID); err != nil {
		t.Fatalf("first Complete failed: %v", err)
	}
	if err := participations.Remove(task.ID, user.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	advanceParticipation(t, participations, task.ID, user.ID)
	result, err := participations.Complete(task.ID, user.ID)
	if err != nil {
		t.Fatalf("second Complete failed: %v", err)
	}
	if result.NewXP != 100 {
		t.Errorf("XP after re-completion = %d, want 100", result.NewXP)
	}

	var stored models.User
	db.First(&stored, user.ID)
	if stored.XP != 100 || stored.TasksCompleted != 1 {
		t.Errorf("stored = xp %d completed %d, want 100/1", stored.XP, stored.TasksCompleted)
	}
}

func TestRemoveAppliedKeepsCapacity(t *testing.T) {
	db := setupTestDB(t)
	participations, _, _, _ := newEngine(db)

	user := createTestUser(t, db, "alice", 0)
	task := createTestTask(t, db, models.TaskModeOffSite, 2, 100)

	if _, err := participations.Apply(task.ID, user.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := participations.Remove(task.ID, user.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	assigned, _, err := participations.capacity.Counts(task.ID)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if assigned != 0 {
		t.Errorf("assigned = %d, removing an applied record must not touch capacity", assigned)
	}
}
