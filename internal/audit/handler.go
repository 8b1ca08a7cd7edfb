package audit

import (
	"fmt"

	"tatlipazar-backend/internal/auth"
	"tatlipazar-backend/internal/database"
	"tatlipazar-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?entity_type=...&limit=...
// Kullanıcı sadece kendi işlemlerinin kaydını görür.
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		limit := 100
		if limitStr := c.Query("limit"); limitStr != "" {
			if _, err := fmt.Sscan(limitStr, &limit); err != nil || limit <= 0 || limit > 500 {
				return fiber.NewError(fiber.StatusBadRequest, "limit geçersiz (1-500)")
			}
		}

		dbq := database.DB.Model(&models.AuditLog{}).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Limit(limit)

		if entityType := c.Query("entity_type"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}

		var logs []models.AuditLog
		if err := dbq.Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıtlar alınamadı")
		}

		return c.JSON(logs)
	}
}
