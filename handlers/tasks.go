// handlers/tasks.go - Volunteer-facing task participation endpoints
package handlers

import (
	"errors"
	"strconv"
	"volunhub/database"
	"volunhub/middleware"
	"volunhub/models"
	"volunhub/services"

	"github.com/gofiber/fiber/v2"
)

func taskIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, errors.New("invalid task ID")
	}
	return uint(id), nil
}

func EngineError(c *fiber.Ctx, err error) error {
	status := services.StatusForError(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "Internal server error"
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

// GetTasks lists open tasks, optionally filtered by mode.
// GET /api/tasks?mode=on-site&status=open
func GetTasks(c *fiber.Ctx) error {
	db := database.GetDB()

	status := c.Query("status", string(models.TaskStatusOpen))
	mode := c.Query("mode")
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	query := db.Model(&models.Task{}).Where("status = ?", status)
	if mode != "" {
		query = query.Where("mode = ?", mode)
	}

	var total int64
	query.Count(&total)

	var tasks []models.Task
	if err := query.Preload("Badge").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&tasks).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch tasks"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"tasks":   tasks,
		"total":   total,
	})
}

// GetTask returns one task with its badge preloaded.
// GET /api/tasks/:id
func GetTask(c *fiber.Ctx) error {
	taskID, err := taskIDParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	db := database.GetDB()
	var task models.Task
	if err := db.Preload("Badge").First(&task, taskID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Task not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"task":    task,
	})
}

// ApplyToTask creates an applied participation for an off-site task.
// POST /api/tasks/:id/apply
func ApplyToTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	result, err := participationService.Apply(taskID, userID)
	if err != nil {
		return EngineError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"status":   result.Status,
		"assigned": result.Assigned,
		"required": result.Required,
	})
}

// ClaimTask joins an on-site task immediately through the capacity ledger.
// POST /api/tasks/:id/claim
func ClaimTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	result, err := participationService.Claim(taskID, userID)
	if err != nil {
		return EngineError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"status":   result.Status,
		"assigned": result.Assigned,
		"required": result.Required,
	})
}

// WithdrawFromTask deletes an applied off-site participation.
// POST /api/tasks/:id/withdraw
func WithdrawFromTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	if err := participationService.Withdraw(taskID, userID); err != nil {
		return EngineError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Application withdrawn",
	})
}

// SubmitProof creates a pending proof submission for an accepted task.
// POST /api/tasks/:id/proof
func SubmitProof(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	taskID, err := taskIDParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var req struct {
		Proof string `json:"proof"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	submission, err := proofService.Submit(taskID, userID, req.Proof)
	if err != nil {
		return EngineError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success":    true,
		"submission": submission,
	})
}

// GetMyParticipations lists the authenticated user's participations.
// GET /api/participations
func GetMyParticipations(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	participations, err := participationService.ForUser(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch participations"})
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"participations": participations,
	})
}
