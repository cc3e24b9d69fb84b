// database/migrate.go - Database Migration Runner
package database

import (
	"log"
	"volunhub/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Connection{},
		&models.Task{},
		&models.Participation{},
		&models.ProofSubmission{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Counter{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes not expressed in model tags
func createIndexes() {
	db := GetDB()

	// User indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_level ON users(level DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_xp ON users(xp DESC)")

	// Task indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tasks_open_mode ON tasks(status, mode)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tasks_ends_at ON tasks(ends_at)")

	// Participation indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_participations_user_status ON participations(user_id, status)")

	// Proof indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_proofs_pending ON proof_submissions(task_id, user_id, status)")

	// Notification indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at DESC)")
}
