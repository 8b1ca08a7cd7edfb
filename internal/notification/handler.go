package notification

import (
	"tatlipazar-backend/internal/auth"
	"tatlipazar-backend/internal/database"
	"tatlipazar-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type NotificationResponse struct {
	ID        uint   `json:"id"`
	OrderID   uint   `json:"order_id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// GET /api/notifications
func ListNotificationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var notifications []models.Notification
		if err := database.DB.
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Limit(100).
			Find(&notifications).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bildirimler alınamadı")
		}

		resp := make([]NotificationResponse, 0, len(notifications))
		for _, n := range notifications {
			resp = append(resp, NotificationResponse{
				ID:        n.ID,
				OrderID:   n.OrderID,
				Type:      string(n.Type),
				Message:   n.Message,
				IsRead:    n.IsRead,
				CreatedAt: n.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(resp)
	}
}

// PUT /api/notifications/:id/read
func MarkReadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var n models.Notification
		if err := database.DB.First(&n, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bildirim bulunamadı")
		}
		if n.UserID != userID {
			return fiber.NewError(fiber.StatusForbidden, "Bu bildirim size ait değil")
		}

		if err := database.DB.Model(&n).Update("is_read", true).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bildirim güncellenemedi")
		}

		return c.JSON(fiber.Map{"message": "Bildirim okundu olarak işaretlendi"})
	}
}
