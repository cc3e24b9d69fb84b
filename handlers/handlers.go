// handlers/handlers.go - Service wiring for the HTTP layer
package handlers

import (
	"volunhub/database"
	"volunhub/services"
)

var (
	capacityService      *services.CapacityService
	badgeService         *services.BadgeService
	rewardService        *services.RewardService
	participationService *services.ParticipationService
	proofService         *services.ProofService
	notificationService  *services.NotificationService
	counterService       *services.CounterService
)

// InitHandlers wires the engine services. Must run after database.InitDB.
func InitHandlers() {
	db := database.GetDB()
	if db == nil {
		panic("Database not initialized before InitHandlers")
	}

	capacityService = services.NewCapacityService(db)
	badgeService = services.NewBadgeService(db)
	rewardService = services.NewRewardService(db, badgeService)
	notificationService = services.NewNotificationService(db)
	participationService = services.NewParticipationService(db, capacityService, rewardService, notificationService)
	proofService = services.NewProofService(db, participationService, notificationService)
	counterService = services.NewCounterService(db)
}

// Participations exposes the participation service for the admin handlers.
func Participations() *services.ParticipationService {
	return participationService
}

// Proofs exposes the proof service for the admin handlers.
func Proofs() *services.ProofService {
	return proofService
}
