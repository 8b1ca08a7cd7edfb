package cart

import (
	"errors"

	"tatlipazar-backend/internal/auth"
	"tatlipazar-backend/internal/database"
	"tatlipazar-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// -------------------------
// Request/Response Types
// -------------------------

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartItemResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"` // sepete ekleme anındaki fiyat
	LineTotal   float64 `json:"line_total"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total float64            `json:"total"`
}

// -------------------------
// Handlers
// -------------------------

// POST /api/cart
// Aynı ürün tekrar eklenirse miktar artar, ilk eklemedeki fiyat korunur.
func AddToCartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var body AddToCartRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.ProductID == 0 || body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id ve quantity zorunlu; quantity > 0 olmalı")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var item models.CartItem
		err = database.DB.
			Where("user_id = ? AND product_id = ?", userID, body.ProductID).
			First(&item).Error

		switch {
		case err == nil:
			item.Quantity += body.Quantity
			if err := database.DB.Save(&item).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Sepet güncellenemedi")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{
				UserID:    userID,
				ProductID: body.ProductID,
				Quantity:  body.Quantity,
				UnitPrice: product.Price, // fiyat burada dondurulur
			}
			if err := database.DB.Create(&item).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Sepete eklenemedi")
			}
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet okunamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(CartItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   float64(item.Quantity) * item.UnitPrice,
		})
	}
}

// GET /api/cart
func GetCartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var items []models.CartItem
		if err := database.DB.
			Preload("Product").
			Where("user_id = ?", userID).
			Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet alınamadı")
		}

		resp := CartResponse{Items: make([]CartItemResponse, 0, len(items))}
		for _, it := range items {
			lineTotal := float64(it.Quantity) * it.UnitPrice
			resp.Items = append(resp.Items, CartItemResponse{
				ID:          it.ID,
				ProductID:   it.ProductID,
				ProductName: it.Product.Name,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				LineTotal:   lineTotal,
			})
			resp.Total += lineTotal
		}

		return c.JSON(resp)
	}
}

// PUT /api/cart/:id
func UpdateCartItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var item models.CartItem
		if err := database.DB.First(&item, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sepet satırı bulunamadı")
		}
		if item.UserID != userID {
			return fiber.NewError(fiber.StatusForbidden, "Bu sepet satırı size ait değil")
		}

		var body UpdateCartItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity > 0 olmalı")
		}

		item.Quantity = body.Quantity
		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet güncellenemedi")
		}

		return c.JSON(fiber.Map{"message": "Sepet güncellendi"})
	}
}

// DELETE /api/cart/:id
func RemoveCartItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var item models.CartItem
		if err := database.DB.First(&item, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sepet satırı bulunamadı")
		}
		if item.UserID != userID {
			return fiber.NewError(fiber.StatusForbidden, "Bu sepet satırı size ait değil")
		}

		if err := database.DB.Delete(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet satırı silinemedi")
		}

		return c.JSON(fiber.Map{"message": "Sepet satırı silindi"})
	}
}

// DELETE /api/cart
func ClearCartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		if err := database.DB.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sepet temizlenemedi")
		}

		return c.JSON(fiber.Map{"message": "Sepet temizlendi"})
	}
}
