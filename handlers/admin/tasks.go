// handlers/admin/tasks.go - Admin task management
package admin

import (
	"strconv"
	"time"
	"volunhub/database"
	"volunhub/handlers"
	"volunhub/middleware"
	"volunhub/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateTaskRequest struct {
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Mode               string     `json:"mode"`
	Location           string     `json:"location"`
	LevelRequirement   int        `json:"level_requirement"`
	VolunteersRequired int        `json:"volunteers_required"`
	XPReward           int        `json:"xp_reward"`
	StartsAt           *time.Time `json:"starts_at"`
	EndsAt             *time.Time `json:"ends_at"`

	// Optional task-bound badge, created alongside the task.
	BadgeSlug        string `json:"badge_slug"`
	BadgeName        string `json:"badge_name"`
	BadgeIcon        string `json:"badge_icon"`
	BadgeDescription string `json:"badge_description"`
}

func taskIDParam(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// CreateTask creates a draft task, optionally with its task-bound badge.
// POST /api/admin/tasks
func CreateTask(c *fiber.Ctx) error {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	mode := models.TaskMode(req.Mode)
	if mode != models.TaskModeOnSite && mode != models.TaskModeOffSite {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Mode must be on-site or off-site"})
	}
	if req.Title == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Title is required"})
	}
	if req.VolunteersRequired < 1 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "At least one volunteer is required"})
	}
	if req.XPReward < 1 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "XP reward must be at least 1"})
	}
	if req.LevelRequirement < 1 {
		req.LevelRequirement = 1
	}

	task := models.Task{
		Title:              req.Title,
		Description:        req.Description,
		Mode:               mode,
		Status:             models.TaskStatusDraft,
		Location:           req.Location,
		LevelRequirement:   req.LevelRequirement,
		VolunteersRequired: req.VolunteersRequired,
		XPReward:           req.XPReward,
		StartsAt:           req.StartsAt,
		EndsAt:             req.EndsAt,
		CreatedBy:          adminID,
	}

	if mode == models.TaskModeOnSite {
		task.CheckInCode = uuid.NewString()
	}

	db := database.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		if req.BadgeSlug != "" {
			badge := models.Badge{
				Slug:        req.BadgeSlug,
				Name:        req.BadgeName,
				Description: req.BadgeDescription,
				Icon:        req.BadgeIcon,
				TaskBound:   true,
			}
			if badge.Name == "" {
				badge.Name = req.Title
			}
			if badge.Description == "" {
				badge.Description = "Completed: " + req.Title
			}
			if err := tx.Create(&badge).Error; err != nil {
				return err
			}
			task.BadgeID = &badge.ID
		}
		return tx.Create(&task).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create task"})
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"task":    task,
	})
}

// UpdateTaskStatus opens or closes a task.
// PUT /api/admin/tasks/:id/status
func UpdateTaskStatus(c *fiber.Ctx) error {
	taskID, ok := taskIDParam(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid task ID"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	status := models.TaskStatus(req.Status)
	if status != models.TaskStatusOpen && status != models.TaskStatusClosed {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Status must be open or closed"})
	}

	db := database.GetDB()
	res := db.Model(&models.Task{}).Where("id = ?", taskID).Update("status", status)
	if res.Error != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update task"})
	}
	if res.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Task not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"status":  status,
	})
}

// DeleteTask removes a task. Independent of the participation engine; any
// engine records for it are removed with it.
// DELETE /api/admin/tasks/:id
func DeleteTask(c *fiber.Ctx) error {
	taskID, ok := taskIDParam(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid task ID"})
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&models.ProofSubmission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", taskID).Delete(&models.Participation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, taskID).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete task"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetTaskParticipants lists the participations for a task.
// GET /api/admin/tasks/:id/participants
func GetTaskParticipants(c *fiber.Ctx) error {
	taskID, ok := taskIDParam(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid task ID"})
	}

	participations, err := handlers.Participations().ForTask(taskID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch participants"})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"participants": participations,
	})
}

// AcceptParticipant promotes an applied off-site participation to accepted.
// POST /api/admin/tasks/:id/accept
func AcceptParticipant(c *fiber.Ctx) error {
	taskID, ok := taskIDParam(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid task ID"})
	}

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "user_id is required"})
	}

	result, err := handlers.Participations().Accept(taskID, req.UserID)
	if err != nil {
		return handlers.EngineError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"status":   result.Status,
		"assigned": result.Assigned,
		"required": result.Required,
	})
}

// CompleteParticipant settles rewards and marks the participation completed.
// POST /api/admin/tasks/:id/complete
func CompleteParticipant(c *fiber.Ctx) error {
	taskID, ok := taskIDParam(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid task ID"})
	}

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "user_id is required"})
	}

	result, err := handlers.Participations().Complete(taskID, req.UserID)
	if err != nil {
		return handlers.EngineError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"xp_earned":     result.XPEarned,
		"badges_earned": result.BadgesEarned,
		"new_level":     result.NewLevel,
		"leveled_up":    result.LeveledUp,
	})
}

// RemoveParticipant deletes a participation, reversing rewards and freeing
// the capacity slot when one was consumed.
// DELETE /api/admin/tasks/:id/participants/:userId
func RemoveParticipant(c *fiber.Ctx) error {
	taskID, ok := taskIDParam(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid task ID"})
	}

	userID, err := strconv.ParseUint(c.Params("userId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid user ID"})
	}

	if err := handlers.Participations().Remove(taskID, uint(userID)); err != nil {
		return handlers.EngineError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Participant removed",
	})
}
