// handlers/connections.go - Volunteer connections
package handlers

import (
	"strconv"
	"volunhub/database"
	"volunhub/middleware"
	"volunhub/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

// CreateConnection connects the authenticated volunteer with another.
// Connection milestone badges are evaluated on the next reward settlement.
// POST /api/connections/:id
func CreateConnection(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	peerID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || uint(peerID) == userID {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid peer ID"})
	}

	db := database.GetDB()

	var peer models.User
	if err := db.First(&peer, uint(peerID)).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	// The pair is stored once, lower id first, so A-B and B-A collapse onto
	// the same row.
	a, b := userID, uint(peerID)
	if b < a {
		a, b = b, a
	}

	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Connection{
		UserID: a,
		PeerID: b,
	})
	if res.Error != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create connection"})
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"created": res.RowsAffected == 1,
	})
}

// GetConnections lists the authenticated volunteer's connections.
// GET /api/connections
func GetConnections(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	db := database.GetDB()
	var connections []models.Connection
	if err := db.Preload("User").Preload("Peer").
		Where("user_id = ? OR peer_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&connections).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch connections"})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"connections": connections,
		"count":       len(connections),
	})
}
