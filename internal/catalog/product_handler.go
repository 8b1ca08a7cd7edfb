package catalog

import (
	"fmt"
	"log"
	"strings"

	"tatlipazar-backend/internal/audit"
	"tatlipazar-backend/internal/auth"
	"tatlipazar-backend/internal/database"
	"tatlipazar-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreateProductRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Unit     string  `json:"unit"`
	Price    float64 `json:"price"`
}

type UpdateProductRequest struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Unit     *string  `json:"unit"`
	Price    *float64 `json:"price"`
}

type ProductResponse struct {
	ID       uint    `json:"id"`
	OwnerID  uint    `json:"owner_id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Unit     string  `json:"unit"`
	Price    float64 `json:"price"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:       p.ID,
		OwnerID:  p.OwnerID,
		Name:     p.Name,
		Category: p.Category,
		Unit:     p.Unit,
		Price:    p.Price,
	}
}

// -------------------------
// Handlers
// -------------------------

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Category = strings.TrimSpace(body.Category)
		if body.Name == "" || body.Category == "" || body.Price <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "name, category ve price zorunlu; price > 0 olmalı")
		}

		product := models.Product{
			OwnerID:  userID,
			Name:     body.Name,
			Category: body.Category,
			Unit:     body.Unit,
			Price:    body.Price,
		}

		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün kaydedilemedi")
		}

		writeProductAudit(userID, models.AuditActionCreate, &product, nil)

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(&product))
	}
}

// GET /api/products?category=...&owner_id=...
// category parametresi gevşek anahtar kelime eşleşmesiyle filtreler.
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Product{}).Order("name ASC")

		if ownerStr := c.Query("owner_id"); ownerStr != "" {
			var ownerID uint
			if _, err := fmt.Sscan(ownerStr, &ownerID); err != nil || ownerID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "owner_id geçersiz")
			}
			dbq = dbq.Where("owner_id = ?", ownerID)
		}

		var products []models.Product
		if err := dbq.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler alınamadı")
		}

		keyword := c.Query("category")
		resp := make([]ProductResponse, 0, len(products))
		for i := range products {
			if keyword != "" && !CategoryMatchesKeyword(products[i].Category, keyword) {
				continue
			}
			resp = append(resp, toProductResponse(&products[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Product
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		return c.JSON(toProductResponse(&p))
	}
}

// GET /api/products/category-counts?keyword=...
// Vitrin için kategori sayıları; keyword verilirse gevşek eşleşenler sayılır.
func CategoryCountsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler alınamadı")
		}

		keyword := c.Query("keyword")
		counts := make(map[string]int)
		for i := range products {
			if keyword != "" && !CategoryMatchesKeyword(products[i].Category, keyword) {
				continue
			}
			counts[products[i].Category]++
		}

		resp := make([]CategoryCount, 0, len(counts))
		for cat, n := range counts {
			resp = append(resp, CategoryCount{Category: cat, Count: n})
		}

		return c.JSON(resp)
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var p models.Product
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		if p.OwnerID != userID {
			return fiber.NewError(fiber.StatusForbidden, "Bu ürün size ait değil")
		}

		before := toProductResponse(&p)

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
			}
			p.Name = name
		}
		if body.Category != nil {
			cat := strings.TrimSpace(*body.Category)
			if cat == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Kategori boş olamaz")
			}
			p.Category = cat
		}
		if body.Unit != nil {
			p.Unit = *body.Unit
		}
		if body.Price != nil {
			if *body.Price <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "price > 0 olmalı")
			}
			p.Price = *body.Price
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		writeProductAudit(userID, models.AuditActionUpdate, &p, &before)

		return c.JSON(toProductResponse(&p))
	}
}

// DELETE /api/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var p models.Product
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		if p.OwnerID != userID {
			return fiber.NewError(fiber.StatusForbidden, "Bu ürün size ait değil")
		}

		// Sipariş kalemi referansı varsa veritabanı FK kısıtı engeller;
		// uygulama katmanında ayrıca kontrol edilmez.
		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Ürün silinemedi (sipariş kaydı olabilir)")
		}

		before := toProductResponse(&p)
		writeProductAudit(userID, models.AuditActionDelete, &p, &before)

		return c.JSON(fiber.Map{"message": "Ürün silindi"})
	}
}

func writeProductAudit(userID uint, action models.AuditAction, p *models.Product, before *ProductResponse) {
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return
	}

	var beforeData any
	if before != nil {
		beforeData = *before
	}
	var afterData any
	if action != models.AuditActionDelete {
		afterData = toProductResponse(p)
	}

	if logErr := audit.WriteLog(audit.LogOptions{
		UserID:      userID,
		UserName:    user.Name,
		EntityType:  "product",
		EntityID:    p.ID,
		Action:      action,
		Description: fmt.Sprintf("Ürün %s: %s (%.2f TL)", action, p.Name, p.Price),
		Before:      beforeData,
		After:       afterData,
	}); logErr != nil {
		log.Printf("Audit log yazılamadı: %v", logErr)
	}
}
