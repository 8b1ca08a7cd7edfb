package ingredient

import (
	"fmt"
	"log"
	"strings"
	"time"

	"tatlipazar-backend/internal/audit"
	"tatlipazar-backend/internal/auth"
	"tatlipazar-backend/internal/database"
	"tatlipazar-backend/internal/models"
	"tatlipazar-backend/internal/report"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreateIngredientRequest struct {
	Name             string  `json:"name"`
	Unit             string  `json:"unit"`
	CurrentUnitPrice float64 `json:"current_unit_price"`
}

type UpdateIngredientRequest struct {
	Name             *string  `json:"name"`
	Unit             *string  `json:"unit"`
	CurrentUnitPrice *float64 `json:"current_unit_price"`
}

type IngredientResponse struct {
	ID               uint    `json:"id"`
	Name             string  `json:"name"`
	Unit             string  `json:"unit"`
	CurrentUnitPrice float64 `json:"current_unit_price"`
}

type CreateBatchItemRequest struct {
	IngredientID uint    `json:"ingredient_id"`
	QuantityUsed float64 `json:"quantity_used"`
	UnitPrice    float64 `json:"unit_price"` // 0 ise malzemenin güncel fiyatı kullanılır
}

type CreateBatchRequest struct {
	Category    string                   `json:"category"`
	PeriodStart string                   `json:"period_start"` // "YYYY-MM-DD", opsiyonel
	PeriodEnd   string                   `json:"period_end"`   // "YYYY-MM-DD", opsiyonel (açık uçlu dönem)
	Notes       string                   `json:"notes"`
	TotalCost   float64                  `json:"total_cost"` // kalemsiz giriş için elle toplam
	Items       []CreateBatchItemRequest `json:"items"`
}

type BatchItemResponse struct {
	ID                uint    `json:"id"`
	IngredientID      uint    `json:"ingredient_id"`
	IngredientName    string  `json:"ingredient_name"`
	QuantityUsed      float64 `json:"quantity_used"`
	UnitPriceSnapshot float64 `json:"unit_price_snapshot"`
	LineCost          float64 `json:"line_cost"`
}

type BatchResponse struct {
	ID          uint                `json:"id"`
	Category    string              `json:"category"`
	PeriodStart string              `json:"period_start,omitempty"`
	PeriodEnd   string              `json:"period_end,omitempty"`
	Notes       string              `json:"notes"`
	TotalCost   float64             `json:"total_cost"`
	CreatedAt   string              `json:"created_at"`
	Items       []BatchItemResponse `json:"items"`
}

func toIngredientResponse(ing *models.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:               ing.ID,
		Name:             ing.Name,
		Unit:             ing.Unit,
		CurrentUnitPrice: ing.CurrentUnitPrice,
	}
}

func toBatchResponse(b *models.IngredientBatch) BatchResponse {
	resp := BatchResponse{
		ID:        b.ID,
		Category:  b.Category,
		Notes:     b.Notes,
		TotalCost: b.TotalCost,
		CreatedAt: b.CreatedAt.Format("2006-01-02 15:04:05"),
		Items:     make([]BatchItemResponse, 0, len(b.Items)),
	}
	if b.PeriodStart != nil {
		resp.PeriodStart = b.PeriodStart.Format("2006-01-02")
	}
	if b.PeriodEnd != nil {
		resp.PeriodEnd = b.PeriodEnd.Format("2006-01-02")
	}
	for _, it := range b.Items {
		resp.Items = append(resp.Items, BatchItemResponse{
			ID:                it.ID,
			IngredientID:      it.IngredientID,
			IngredientName:    it.Ingredient.Name,
			QuantityUsed:      it.QuantityUsed,
			UnitPriceSnapshot: it.UnitPriceSnapshot,
			LineCost:          it.LineCost,
		})
	}
	return resp
}

// -------------------------
// Ingredient Handlers
// -------------------------

// POST /api/ingredients
func CreateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var body CreateIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || strings.TrimSpace(body.Unit) == "" || body.CurrentUnitPrice <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "name, unit ve current_unit_price zorunlu; fiyat > 0 olmalı")
		}

		ing := models.Ingredient{
			OwnerID:          userID,
			Name:             body.Name,
			Unit:             strings.TrimSpace(body.Unit),
			CurrentUnitPrice: body.CurrentUnitPrice,
		}

		if err := database.DB.Create(&ing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme kaydedilemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(toIngredientResponse(&ing))
	}
}

// GET /api/ingredients
func ListIngredientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var ingredients []models.Ingredient
		if err := database.DB.
			Where("owner_id = ?", userID).
			Order("name ASC").
			Find(&ingredients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzemeler alınamadı")
		}

		resp := make([]IngredientResponse, 0, len(ingredients))
		for i := range ingredients {
			resp = append(resp, toIngredientResponse(&ingredients[i]))
		}
		return c.JSON(resp)
	}
}

// PUT /api/ingredients/:id
// Güncel fiyat değiştirilebilir; mevcut parti kalemlerindeki
// unit_price_snapshot değerleri bundan etkilenmez.
func UpdateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var ing models.Ingredient
		if err := database.DB.First(&ing, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}
		if ing.OwnerID != userID {
			return fiber.NewError(fiber.StatusForbidden, "Bu malzeme size ait değil")
		}

		var body UpdateIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Malzeme adı boş olamaz")
			}
			ing.Name = name
		}
		if body.Unit != nil {
			ing.Unit = strings.TrimSpace(*body.Unit)
		}
		if body.CurrentUnitPrice != nil {
			if *body.CurrentUnitPrice <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "current_unit_price > 0 olmalı")
			}
			ing.CurrentUnitPrice = *body.CurrentUnitPrice
		}

		if err := database.DB.Save(&ing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Malzeme güncellenemedi")
		}

		return c.JSON(toIngredientResponse(&ing))
	}
}

// DELETE /api/ingredients/:id
func DeleteIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var ing models.Ingredient
		if err := database.DB.First(&ing, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Malzeme bulunamadı")
		}
		if ing.OwnerID != userID {
			return fiber.NewError(fiber.StatusForbidden, "Bu malzeme size ait değil")
		}

		if err := database.DB.Delete(&ing).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Malzeme silinemedi (parti kaydı olabilir)")
		}

		return c.JSON(fiber.Map{"message": "Malzeme silindi"})
	}
}

// -------------------------
// Batch Handlers
// -------------------------

// POST /api/ingredient-batches
// Parti ve kalemleri tek transaction'da oluşur. Kalem fiyatı verilmezse
// malzemenin güncel fiyatı kopyalanır; kopyalandıktan sonra donar.
func CreateBatchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var body CreateBatchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Category = strings.TrimSpace(body.Category)
		if body.Category == "" {
			return fiber.NewError(fiber.StatusBadRequest, "category zorunlu")
		}
		if len(body.Items) == 0 && body.TotalCost <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "En az bir kalem ya da total_cost gerekli")
		}

		var periodStart, periodEnd *time.Time
		if body.PeriodStart != "" {
			d, err := time.Parse("2006-01-02", body.PeriodStart)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "period_start formatı 'YYYY-MM-DD' olmalı")
			}
			periodStart = &d
		}
		if body.PeriodEnd != "" {
			d, err := time.Parse("2006-01-02", body.PeriodEnd)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "period_end formatı 'YYYY-MM-DD' olmalı")
			}
			endOfDay := d.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
			periodEnd = &endOfDay
		}
		if periodStart != nil && periodEnd != nil && periodEnd.Before(*periodStart) {
			return fiber.NewError(fiber.StatusBadRequest, "period_end, period_start'tan önce olamaz")
		}

		batch := models.IngredientBatch{
			OwnerID:     userID,
			Category:    body.Category,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			Notes:       body.Notes,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&batch).Error; err != nil {
				return err
			}

			var total float64
			for _, item := range body.Items {
				if item.IngredientID == 0 || item.QuantityUsed <= 0 {
					return fiber.NewError(fiber.StatusBadRequest, "Kalemlerde ingredient_id ve quantity_used zorunlu; quantity_used > 0 olmalı")
				}

				var ing models.Ingredient
				if err := tx.First(&ing, "id = ? AND owner_id = ?", item.IngredientID, userID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Malzeme bulunamadı: %d", item.IngredientID))
				}

				unitPrice := item.UnitPrice
				if unitPrice <= 0 {
					unitPrice = ing.CurrentUnitPrice
				}

				batchItem := models.IngredientBatchItem{
					BatchID:           batch.ID,
					IngredientID:      ing.ID,
					QuantityUsed:      item.QuantityUsed,
					UnitPriceSnapshot: unitPrice,
					LineCost:          item.QuantityUsed * unitPrice,
				}
				if err := tx.Create(&batchItem).Error; err != nil {
					return err
				}
				total += batchItem.LineCost
			}

			if len(body.Items) == 0 {
				total = body.TotalCost
			}
			return tx.Model(&batch).Update("total_cost", total).Error
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Parti kaydedilemedi")
		}

		writeBatchAudit(userID, models.AuditActionCreate, &batch)

		var created models.IngredientBatch
		if err := database.DB.Preload("Items").Preload("Items.Ingredient").First(&created, batch.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Parti okunamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(toBatchResponse(&created))
	}
}

// GET /api/ingredient-batches?from=...&to=...&category=...
// from/to verilirse dönem kesişim kuralına göre filtrelenir.
func ListBatchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		dbq := database.DB.
			Preload("Items").
			Preload("Items.Ingredient").
			Where("owner_id = ?", userID).
			Order("created_at DESC")

		if category := strings.TrimSpace(c.Query("category")); category != "" {
			dbq = dbq.Where("category = ?", category)
		}

		var from, to *time.Time
		if fromStr := c.Query("from"); fromStr != "" {
			d, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from tarihi geçersiz (YYYY-MM-DD)")
			}
			from = &d
		}
		if toStr := c.Query("to"); toStr != "" {
			d, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to tarihi geçersiz (YYYY-MM-DD)")
			}
			endOfDay := d.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
			to = &endOfDay
		}

		var batches []models.IngredientBatch
		if err := dbq.Find(&batches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Partiler alınamadı")
		}

		resp := make([]BatchResponse, 0, len(batches))
		for i := range batches {
			if (from != nil || to != nil) && !report.BatchInWindow(&batches[i], from, to) {
				continue
			}
			resp = append(resp, toBatchResponse(&batches[i]))
		}
		return c.JSON(resp)
	}
}

// DELETE /api/ingredient-batches/:id
// Parti oluşturulduktan sonra değiştirilemez; tek mutasyon silmedir.
func DeleteBatchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var batch models.IngredientBatch
		if err := database.DB.First(&batch, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Parti bulunamadı")
		}
		if batch.OwnerID != userID {
			return fiber.NewError(fiber.StatusForbidden, "Bu parti size ait değil")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("batch_id = ?", batch.ID).Delete(&models.IngredientBatchItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&batch).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Parti silinemedi")
		}

		writeBatchAudit(userID, models.AuditActionDelete, &batch)

		return c.JSON(fiber.Map{"message": "Parti silindi"})
	}
}

func writeBatchAudit(userID uint, action models.AuditAction, batch *models.IngredientBatch) {
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return
	}

	if logErr := audit.WriteLog(audit.LogOptions{
		UserID:      userID,
		UserName:    user.Name,
		EntityType:  "ingredient_batch",
		EntityID:    batch.ID,
		Action:      action,
		Description: fmt.Sprintf("Malzeme partisi %s: %s - %.2f TL", action, batch.Category, batch.TotalCost),
		After: map[string]interface{}{
			"category":   batch.Category,
			"total_cost": batch.TotalCost,
			"notes":      batch.Notes,
		},
	}); logErr != nil {
		log.Printf("Audit log yazılamadı: %v", logErr)
	}
}
