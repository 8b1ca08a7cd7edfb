package shop

import (
	"strings"

	"tatlipazar-backend/internal/auth"
	"tatlipazar-backend/internal/database"
	"tatlipazar-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UpdateShopRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
}

type ShopResponse struct {
	ID          uint   `json:"id"`
	OwnerID     uint   `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}

func toResponse(s *models.Shop) ShopResponse {
	return ShopResponse{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		Name:        s.Name,
		Description: s.Description,
		Address:     s.Address,
		Phone:       s.Phone,
	}
}

// GET /api/shops
func ListShopsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var shops []models.Shop
		if err := database.DB.Order("name ASC").Find(&shops).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dükkanlar alınamadı")
		}

		resp := make([]ShopResponse, 0, len(shops))
		for i := range shops {
			resp = append(resp, toResponse(&shops[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/shops/:id
func GetShopHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s models.Shop
		if err := database.DB.First(&s, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dükkan bulunamadı")
		}
		return c.JSON(toResponse(&s))
	}
}

// GET /api/my-shop
func GetMyShopHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var s models.Shop
		if err := database.DB.Where("owner_id = ?", userID).First(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dükkan bulunamadı")
		}
		return c.JSON(toResponse(&s))
	}
}

// PUT /api/my-shop
func UpdateMyShopHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var s models.Shop
		if err := database.DB.Where("owner_id = ?", userID).First(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dükkan bulunamadı")
		}

		var body UpdateShopRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Dükkan adı boş olamaz")
			}
			s.Name = name
		}
		if body.Description != nil {
			s.Description = *body.Description
		}
		if body.Address != nil {
			s.Address = *body.Address
		}
		if body.Phone != nil {
			s.Phone = *body.Phone
		}

		if err := database.DB.Save(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dükkan güncellenemedi")
		}

		return c.JSON(toResponse(&s))
	}
}
