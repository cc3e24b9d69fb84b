// services/closer.go - Background task auto-closer
package services

import (
	"log"
	"time"
	"volunhub/database"
	"volunhub/models"
)

// CloserService closes open tasks whose end date has passed so no further
// admissions can succeed against them.
type CloserService struct {
	interval time.Duration
	stop     chan struct{}
}

var closerService *CloserService

// InitCloserService initializes and starts the singleton closer service.
func InitCloserService(interval time.Duration) {
	closerService = &CloserService{
		interval: interval,
		stop:     make(chan struct{}),
	}
	go closerService.run()
}

// GetCloserService returns the initialized closer service.
func GetCloserService() *CloserService {
	return closerService
}

func (s *CloserService) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.CloseExpiredTasks(); err != nil {
				log.Printf("task closer: %v", err)
			}
		case <-s.stop:
			return
		}
	}
}

// Stop stops the background worker.
func (s *CloserService) Stop() {
	close(s.stop)
}

// CloseExpiredTasks flips open tasks past their end date to closed.
func (s *CloserService) CloseExpiredTasks() error {
	db := database.GetDB()

	res := db.Model(&models.Task{}).
		Where("status = ? AND ends_at IS NOT NULL AND ends_at < ?", models.TaskStatusOpen, time.Now()).
		Update("status", models.TaskStatusClosed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("✅ Closed %d expired tasks", res.RowsAffected)
	}
	return nil
}
