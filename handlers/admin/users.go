// handlers/admin/users.go - Volunteer account administration
package admin

import (
	"volunhub/database"
	"volunhub/models"

	"github.com/gofiber/fiber/v2"
)

// GetUsers returns all users with pagination
// GET /api/admin/users?page=1&limit=20&approval=pending
func GetUsers(c *fiber.Ctx) error {
	db := database.GetDB()

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	search := c.Query("search", "")
	approval := c.Query("approval", "")

	offset := (page - 1) * limit

	var users []models.User
	var total int64

	query := db.Model(&models.User{})
	if search != "" {
		query = query.Where("username LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if approval != "" {
		query = query.Where("approval_status = ?", approval)
	}

	query.Count(&total)

	if err := query.Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch users",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// SetUserApproval approves or rejects a volunteer account.
// POST /api/admin/users/:id/approval
func SetUserApproval(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if req.Status != models.ApprovalApproved && req.Status != models.ApprovalRejected {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Status must be approved or rejected"})
	}

	res := db.Model(&models.User{}).Where("id = ?", id).Update("approval_status", req.Status)
	if res.Error != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update user"})
	}
	if res.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"status":  req.Status,
	})
}
