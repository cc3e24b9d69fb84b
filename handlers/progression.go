// handlers/progression.go
package handlers

import (
	"volunhub/database"
	"volunhub/middleware"
	"volunhub/models"
	"volunhub/services"

	"github.com/gofiber/fiber/v2"
)

// GetProgression returns the authenticated user's level, XP and
// progress-within-level.
// GET /api/progression
func GetProgression(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	progress := services.ProgressForXP(user.XP)

	return c.JSON(fiber.Map{
		"success":         true,
		"level":           progress.Level,
		"xp":              user.XP,
		"level_start":     progress.Start,
		"next_level_xp":   progress.Next,
		"progress_ratio":  progress.Ratio,
		"tasks_completed": user.TasksCompleted,
		"volunteer_no":    user.VolunteerNo,
	})
}

// GetMyBadges returns the user's badge set, newest first.
// GET /api/progression/badges
func GetMyBadges(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	badges, err := badgeService.UserBadges(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch badges"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"badges":  badges,
		"count":   len(badges),
	})
}

// GetBadgeCatalog lists all non-task-bound catalog badges.
// GET /api/badges
func GetBadgeCatalog(c *fiber.Ctx) error {
	db := database.GetDB()

	var badges []models.Badge
	if err := db.Where("task_bound = ?", false).Order("slug ASC").Find(&badges).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch badges"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"badges":  badges,
	})
}

// GetLeaderboard returns the volunteer leaderboard ordered by XP.
// GET /api/leaderboard?limit=100&offset=0
func GetLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	if limit < 1 || limit > 100 {
		limit = 100
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	db := database.GetDB()
	var users []models.User

	if err := db.Where("approval_status = ?", models.ApprovalApproved).
		Order("xp DESC, tasks_completed DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch leaderboard"})
	}

	entries := make([]fiber.Map, 0, len(users))
	for i, user := range users {
		entries = append(entries, fiber.Map{
			"rank":            offset + i + 1,
			"volunteer_no":    user.VolunteerNo,
			"display_name":    user.DisplayName,
			"level":           user.Level,
			"xp":              user.XP,
			"tasks_completed": user.TasksCompleted,
		})
	}

	var total int64
	db.Model(&models.User{}).Where("approval_status = ?", models.ApprovalApproved).Count(&total)

	return c.JSON(fiber.Map{
		"success": true,
		"entries": entries,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetNotifications returns the user's unread notifications.
// GET /api/notifications
func GetNotifications(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	notifications, err := notificationService.Unread(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch notifications"})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"notifications": notifications,
	})
}

// MarkNotificationsRead marks all of the user's notifications read.
// POST /api/notifications/read
func MarkNotificationsRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	if err := notificationService.MarkRead(userID); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update notifications"})
	}

	return c.JSON(fiber.Map{"success": true})
}
