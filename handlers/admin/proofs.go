// handlers/admin/proofs.go - Proof submission review
package admin

import (
	"strconv"
	"volunhub/handlers"
	"volunhub/middleware"

	"github.com/gofiber/fiber/v2"
)

func submissionIDParam(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// GetPendingProofs lists submissions awaiting review, oldest first.
// GET /api/admin/proofs
func GetPendingProofs(c *fiber.Ctx) error {
	submissions, err := handlers.Proofs().Pending()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch submissions"})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"submissions": submissions,
	})
}

// ApproveProof approves a pending submission, settling rewards and completing
// the participation.
// POST /api/admin/proofs/:id/approve
func ApproveProof(c *fiber.Ctx) error {
	reviewerID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	submissionID, ok := submissionIDParam(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid submission ID"})
	}

	result, err := handlers.Proofs().Approve(submissionID, reviewerID)
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

// RejectProof rejects a pending submission with a reason. The participant may
// resubmit.
// POST /api/admin/proofs/:id/reject
func RejectProof(c *fiber.Ctx) error {
	reviewerID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	submissionID, ok := submissionIDParam(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid submission ID"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if err := handlers.Proofs().Reject(submissionID, reviewerID, req.Reason); err != nil {
		return handlers.EngineError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Submission rejected",
	})
}
